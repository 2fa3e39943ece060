package exercise

import (
	"math"

	"github.com/fouzanpasha/physioapp/internal/pose"
)

// Arm identifies which arm is performing the exercise.
type Arm string

const (
	ArmRight Arm = "right"
	ArmLeft  Arm = "left"
	ArmBoth  Arm = "both"
)

// MovingArmThreshold is the minimum wrist-to-shoulder vertical displacement
// (as a fraction of frame height) for an arm to count as moving.
const MovingArmThreshold = 0.1

// SelectArmPoints decides which arm is performing the exercise from the four
// shoulder/wrist landmarks. Returns the active arm and the wrist to track.
// Any of the inputs may be nil; if only one side is present that side is
// selected, and if neither wrist is usable the second return is nil.
//
// armHeight = shoulder.y - wrist.y, positive when the wrist is above the
// shoulder (image-space y grows downward).
func SelectArmPoints(rightShoulder, rightWrist, leftShoulder, leftWrist *pose.Point3D) (Arm, *pose.Point3D) {
	rightUsable := rightShoulder != nil && rightWrist != nil
	leftUsable := leftShoulder != nil && leftWrist != nil

	switch {
	case !rightUsable && !leftUsable:
		return ArmRight, nil
	case rightUsable && !leftUsable:
		return ArmRight, rightWrist
	case leftUsable && !rightUsable:
		return ArmLeft, leftWrist
	}

	rightHeight := rightShoulder.Y - rightWrist.Y
	leftHeight := leftShoulder.Y - leftWrist.Y

	rightMoving := math.Abs(rightHeight) > MovingArmThreshold
	leftMoving := math.Abs(leftHeight) > MovingArmThreshold

	switch {
	case rightMoving && leftMoving:
		if leftHeight > rightHeight {
			return ArmBoth, leftWrist
		}
		return ArmBoth, rightWrist
	case leftMoving:
		return ArmLeft, leftWrist
	default:
		// Right moving, or neither: right is the default side.
		return ArmRight, rightWrist
	}
}

// SelectArm runs the arm selection heuristic on a full pose.
func SelectArm(p *pose.Pose) (Arm, *pose.Point3D) {
	return SelectArmPoints(
		p.Landmark(pose.RightShoulder),
		p.Landmark(pose.RightWrist),
		p.Landmark(pose.LeftShoulder),
		p.Landmark(pose.LeftWrist),
	)
}

// SelectArmFrame runs the arm selection heuristic on a recorded frame.
func SelectArmFrame(f *Frame) (Arm, *pose.Point3D) {
	return SelectArmPoints(
		f.Joint(JointRightShoulder),
		f.Joint(JointRightWrist),
		f.Joint(JointLeftShoulder),
		f.Joint(JointLeftWrist),
	)
}
