// Package exercise provides the repetition-detection and form-scoring engine
// for the physioapp coaching system.
package exercise

import (
	"time"

	"github.com/fouzanpasha/physioapp/internal/pose"
)

// Frame joint indices. A Frame is the reduced upper-body subset of a full
// pose stored inside a Template, ordered by this fixed numbering.
const (
	JointRightShoulder = 0
	JointLeftShoulder  = 1
	JointRightElbow    = 2
	JointLeftElbow     = 3
	JointRightWrist    = 4
	JointLeftWrist     = 5
	JointRightHip      = 6
	JointLeftHip       = 7
	NumJoints          = 8
)

// frameJointLandmarks maps frame joint indices to pose landmark indices.
var frameJointLandmarks = [NumJoints]int{
	pose.RightShoulder,
	pose.LeftShoulder,
	pose.RightElbow,
	pose.LeftElbow,
	pose.RightWrist,
	pose.LeftWrist,
	pose.RightHip,
	pose.LeftHip,
}

// Frame is one recorded snapshot of the upper-body joints.
type Frame struct {
	Joints [NumJoints]pose.Point3D `json:"joints"`
}

// Joint returns a pointer to the joint at the given frame index, or nil for
// an out-of-range index.
func (f *Frame) Joint(index int) *pose.Point3D {
	if f == nil || index < 0 || index >= NumJoints {
		return nil
	}
	return &f.Joints[index]
}

// ExtractFrame reduces a full pose to the upper-body frame stored in
// templates. Returns false if the pose does not carry all recorded joints.
func ExtractFrame(p *pose.Pose) (Frame, bool) {
	var f Frame
	for i, lm := range frameJointLandmarks {
		pt := p.Landmark(lm)
		if pt == nil {
			return Frame{}, false
		}
		f.Joints[i] = *pt
	}
	return f, true
}

// Template is a named, ordered sequence of recorded frames representing one
// correct execution of an exercise. Created once by the Recorder, persisted
// by the store, and read-only for the duration of a session.
type Template struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Frames     []Frame   `json:"frames"`
	DurationMs int64     `json:"duration_ms"`
	FrameCount int       `json:"frame_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActiveArm returns the arm the template exercises: the side whose wrist
// rises highest above its shoulder anywhere in the recording.
func (t *Template) ActiveArm() Arm {
	bestRight, bestLeft := 0.0, 0.0

	for i := range t.Frames {
		f := &t.Frames[i]
		if h := f.Joints[JointRightShoulder].Y - f.Joints[JointRightWrist].Y; h > bestRight {
			bestRight = h
		}
		if h := f.Joints[JointLeftShoulder].Y - f.Joints[JointLeftWrist].Y; h > bestLeft {
			bestLeft = h
		}
	}

	if bestLeft > bestRight {
		return ArmLeft
	}
	return ArmRight
}

// activeWristJoint returns the frame joint index of the template's active
// wrist.
func (t *Template) activeWristJoint() int {
	if t.ActiveArm() == ArmLeft {
		return JointLeftWrist
	}
	return JointRightWrist
}

// StartPoint returns the canonical start posture: the active wrist position
// in the first recorded frame. Returns nil for an empty template.
func (t *Template) StartPoint() *pose.Point3D {
	if t == nil || len(t.Frames) == 0 {
		return nil
	}
	return t.Frames[0].Joint(t.activeWristJoint())
}

// EndPoint returns the canonical end posture: the active wrist position in
// the frame where it is highest on screen (smallest y, since image-space y
// grows downward). Returns nil for an empty template.
func (t *Template) EndPoint() *pose.Point3D {
	if t == nil || len(t.Frames) == 0 {
		return nil
	}

	joint := t.activeWristJoint()
	best := 0
	for i := range t.Frames {
		if t.Frames[i].Joints[joint].Y < t.Frames[best].Joints[joint].Y {
			best = i
		}
	}
	return t.Frames[best].Joint(joint)
}
