package exercise

import (
	"math"

	"github.com/fouzanpasha/physioapp/internal/pose"
)

// Status is the qualitative band for a per-tick accuracy value. The bands
// and their point values are a single convention shared by the form
// analyzer and the repetition counter.
type Status string

const (
	StatusExcellent        Status = "excellent"
	StatusGood             Status = "good"
	StatusNeedsImprovement Status = "needs_improvement"
	StatusPoor             Status = "poor"
	// StatusNoData marks a tick where no meaningful comparison was
	// possible (missing pose, missing template, too few landmarks). It is
	// deliberately distinct from StatusPoor so callers and tests can tell
	// "bad form" from "no data".
	StatusNoData Status = "no_data"
)

// Accuracy band boundaries and per-band points.
const (
	ExcellentAccuracy = 80.0
	GoodAccuracy      = 60.0
	NeedsWorkAccuracy = 40.0

	ExcellentPoints = 10
	GoodPoints      = 7
	NeedsWorkPoints = 4
	PoorPoints      = 1
)

// statusForAccuracy maps a clamped accuracy value to its band and points.
func statusForAccuracy(accuracy float64) (Status, int) {
	switch {
	case accuracy >= ExcellentAccuracy:
		return StatusExcellent, ExcellentPoints
	case accuracy >= GoodAccuracy:
		return StatusGood, GoodPoints
	case accuracy >= NeedsWorkAccuracy:
		return StatusNeedsImprovement, NeedsWorkPoints
	default:
		return StatusPoor, PoorPoints
	}
}

// Phase labels where in the movement arc the active arm currently is.
type Phase string

const (
	PhaseRest     Phase = "rest"
	PhaseRaising  Phase = "raising"
	PhaseRaised   Phase = "raised"
	PhaseLowering Phase = "lowering"
)

// Analysis is the per-tick output of the form analyzer.
type Analysis struct {
	Accuracy      float64 `json:"accuracy"`
	Status        Status  `json:"status"`
	Feedback      string  `json:"feedback"`
	Points        int     `json:"points"`
	Phase         Phase   `json:"phase"`
	PhaseProgress float64 `json:"phase_progress"`
	Arm           Arm     `json:"arm"`
}

// Analyzer scores single poses against a template, frame by frame.
type Analyzer struct {
	template *Template
}

// NewAnalyzer creates an Analyzer for the given template.
func NewAnalyzer(t *Template) *Analyzer {
	return &Analyzer{template: t}
}

// noData builds the zero-confidence result returned instead of an error
// when a tick cannot be scored.
func noData(feedback string) Analysis {
	return Analysis{
		Status:   StatusNoData,
		Feedback: feedback,
		Arm:      ArmRight,
	}
}

// Analyze scores one pose against the template. It never fails: missing or
// degenerate input produces a zero-confidence Analysis with StatusNoData.
func (a *Analyzer) Analyze(p *pose.Pose) Analysis {
	if p == nil || p.Count == 0 {
		return noData("No pose detected. Step into the camera view.")
	}
	if a.template == nil || len(a.template.Frames) == 0 {
		return noData("No exercise template loaded.")
	}

	current, ok := ExtractFrame(p)
	if !ok || usableJoints(&current) < 6 {
		return noData("Not enough of your body is visible. Step back from the camera.")
	}

	arm, wrist := SelectArm(p)
	if wrist == nil {
		return noData("Cannot see your arms. Adjust your position.")
	}

	shoulder := activeShoulder(p, arm)
	heightPct := armHeightPercent(shoulder, wrist)

	result := Analysis{Arm: arm}

	switch {
	case heightPct < 0.1:
		result.Phase = PhaseRest
		result.PhaseProgress = 0
		result.Accuracy = a.restAccuracy(wrist)
	case heightPct < 0.7:
		result.Phase = PhaseRaising
		result.PhaseProgress = (heightPct - 0.1) / 0.6
		result.Accuracy = 30 + result.PhaseProgress*40
	case heightPct < 0.9:
		result.Phase = PhaseRaised
		result.PhaseProgress = (heightPct - 0.7) / 0.2
		result.Accuracy = a.peakAccuracy(wrist, shoulder)
	default:
		result.Phase = PhaseLowering
		result.PhaseProgress = (heightPct - 0.9) / 0.1
		result.Accuracy = 70 - result.PhaseProgress*40
	}

	result.Accuracy = clampAccuracy(result.Accuracy)
	result.Status, result.Points = statusForAccuracy(result.Accuracy)
	result.Feedback = a.feedback(p, &result, wrist)

	return result
}

// armHeightPercent normalizes the wrist-above-shoulder displacement into
// [0,1] across the expected movement range of roughly -0.2..+0.2.
func armHeightPercent(shoulder, wrist *pose.Point3D) float64 {
	if shoulder == nil || wrist == nil {
		return 0
	}
	pct := (shoulder.Y - wrist.Y + 0.2) / 0.4
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}

// restAccuracy scores the rest phase from the wrist's distance to the
// template start point. The reference behavior randomized this value; a
// deterministic distance-based score keeps it reproducible.
func (a *Analyzer) restAccuracy(wrist *pose.Point3D) float64 {
	d := pose.Distance3D(wrist, a.template.StartPoint())
	acc := 20 - d*100
	if acc < 0 {
		return 0
	}
	return acc
}

// peakAccuracy scores the raised phase by best-matching the current wrist
// and shoulder against the last 30% of template frames, weighting wrist
// distance 0.7 and shoulder distance 0.3.
func (a *Analyzer) peakAccuracy(wrist, shoulder *pose.Point3D) float64 {
	frames := a.template.Frames
	start := len(frames) - len(frames)*30/100
	if start >= len(frames) {
		start = len(frames) - 1
	}

	wristJoint := a.template.activeWristJoint()
	shoulderJoint := JointRightShoulder
	if a.template.ActiveArm() == ArmLeft {
		shoulderJoint = JointLeftShoulder
	}

	best := 0.0
	for i := start; i < len(frames); i++ {
		wristDist := pose.Distance3D(wrist, frames[i].Joint(wristJoint))
		shoulderDist := pose.Distance3D(shoulder, frames[i].Joint(shoulderJoint))

		score := 0.7*math.Max(0, 100-wristDist*150) + 0.3*math.Max(0, 100-shoulderDist*150)
		if score > best {
			best = score
		}
	}
	return best
}

// activeShoulder returns the shoulder landmark on the active side. For
// ArmBoth the right shoulder is used, matching the default-side rule.
func activeShoulder(p *pose.Pose, arm Arm) *pose.Point3D {
	if arm == ArmLeft {
		return p.Landmark(pose.LeftShoulder)
	}
	return p.Landmark(pose.RightShoulder)
}

// usableJoints counts how many of the recorded upper-body joints carry a
// plausible position (anything nonzero counts; the estimator zero-fills
// joints it could not place).
func usableJoints(f *Frame) int {
	n := 0
	for i := range f.Joints {
		j := &f.Joints[i]
		if j.X != 0 || j.Y != 0 || j.Z != 0 {
			n++
		}
	}
	return n
}

func clampAccuracy(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
