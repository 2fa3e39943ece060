package exercise

import (
	"math"

	"github.com/fouzanpasha/physioapp/internal/pose"
)

// Form issue thresholds.
const (
	wristAsymmetryThreshold   = 0.1
	targetHeightSlack         = 0.1
	straightElbowDegrees      = 160.0
	shoulderShrugThreshold    = 0.05
	bodyLeanThreshold         = 0.1
	forearmLevelDegrees       = 30.0
)

// feedback produces the coaching string for one analysis: a specific form
// issue when accuracy sits in the needs_improvement band, otherwise
// phase-appropriate encouragement.
func (a *Analyzer) feedback(p *pose.Pose, result *Analysis, wrist *pose.Point3D) string {
	if result.Status == StatusNeedsImprovement {
		if issue := a.detectFormIssue(p, result, wrist); issue != "" {
			return issue
		}
	}
	return encouragement(result.Phase, result.Status)
}

// detectFormIssue checks the rule list in priority order and returns the
// first triggered message, or "" when none fire.
func (a *Analyzer) detectFormIssue(p *pose.Pose, result *Analysis, wrist *pose.Point3D) string {
	leftWrist := p.Landmark(pose.LeftWrist)
	rightWrist := p.Landmark(pose.RightWrist)
	leftShoulder := p.Landmark(pose.LeftShoulder)
	rightShoulder := p.Landmark(pose.RightShoulder)
	leftHip := p.Landmark(pose.LeftHip)
	rightHip := p.Landmark(pose.RightHip)

	// 1. Bilateral wrist-height asymmetry.
	if leftWrist != nil && rightWrist != nil {
		if math.Abs(leftWrist.Y-rightWrist.Y) > wristAsymmetryThreshold {
			return "Keep both arms at the same height."
		}
	}

	// 2. Arm not reaching the recorded peak height for the phase.
	if result.Phase == PhaseRaising || result.Phase == PhaseRaised {
		if end := a.template.EndPoint(); end != nil && wrist != nil {
			if wrist.Y > end.Y+targetHeightSlack {
				return "Try to raise your arm higher."
			}
		}
	}

	// 3. Bent elbow outside the rest phase.
	if result.Phase != PhaseRest {
		if angle := a.activeElbowAngle(p, result.Arm); angle > 0 && angle < straightElbowDegrees {
			return "Keep your arm straight."
		}
	}

	// 4. Uneven shoulder-to-hip distance (shrugging one shoulder).
	if leftShoulder != nil && rightShoulder != nil && leftHip != nil && rightHip != nil {
		leftSpan := leftHip.Y - leftShoulder.Y
		rightSpan := rightHip.Y - rightShoulder.Y
		if math.Abs(leftSpan-rightSpan) > shoulderShrugThreshold {
			return "Relax your shoulders, avoid shrugging."
		}
	}

	// 5. Shoulder center drifting off the hip center (leaning).
	if leftShoulder != nil && rightShoulder != nil && leftHip != nil && rightHip != nil {
		shoulderCenter := (leftShoulder.X + rightShoulder.X) / 2
		hipCenter := (leftHip.X + rightHip.X) / 2
		if math.Abs(shoulderCenter-hipCenter) > bodyLeanThreshold {
			return "Keep your body upright, avoid leaning."
		}
	}

	// 6. Forearm tilted away from horizontal (bent wrist).
	if angle := a.activeForearmTilt(p, result.Arm); angle > forearmLevelDegrees {
		return "Keep your wrist level with your forearm."
	}

	return ""
}

// activeElbowAngle returns the elbow angle on the active side in degrees,
// or 0 when the joints are not all visible.
func (a *Analyzer) activeElbowAngle(p *pose.Pose, arm Arm) float64 {
	shoulderIdx, elbowIdx, wristIdx := pose.RightShoulder, pose.RightElbow, pose.RightWrist
	if arm == ArmLeft {
		shoulderIdx, elbowIdx, wristIdx = pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist
	}
	return pose.AngleDegrees(p.Landmark(shoulderIdx), p.Landmark(elbowIdx), p.Landmark(wristIdx))
}

// activeForearmTilt returns how far the active forearm deviates from
// horizontal, in degrees.
func (a *Analyzer) activeForearmTilt(p *pose.Pose, arm Arm) float64 {
	elbowIdx, wristIdx := pose.RightElbow, pose.RightWrist
	if arm == ArmLeft {
		elbowIdx, wristIdx = pose.LeftElbow, pose.LeftWrist
	}

	elbow := p.Landmark(elbowIdx)
	wrist := p.Landmark(wristIdx)
	if elbow == nil || wrist == nil {
		return 0
	}

	dx := math.Abs(wrist.X - elbow.X)
	dy := math.Abs(wrist.Y - elbow.Y)
	if dx < 1e-10 && dy < 1e-10 {
		return 0
	}
	return math.Atan2(dy, dx) * 180 / math.Pi
}

// encouragement returns the default per-phase coaching line.
func encouragement(phase Phase, status Status) string {
	if status == StatusExcellent {
		return "Excellent form, keep it up!"
	}

	switch phase {
	case PhaseRest:
		return "Ready when you are. Begin the movement."
	case PhaseRaising:
		return "Good, keep raising steadily."
	case PhaseRaised:
		return "Hold it there, great height."
	case PhaseLowering:
		return "Lower slowly and with control."
	default:
		return "Keep going."
	}
}
