package exercise

import (
	"testing"

	"github.com/fouzanpasha/physioapp/internal/pose"
)

func TestSelectArmPoints(t *testing.T) {
	shoulderR := &pose.Point3D{X: 0.40, Y: 0.35}
	shoulderL := &pose.Point3D{X: 0.60, Y: 0.35}

	wristAt := func(x, y float64) *pose.Point3D {
		return &pose.Point3D{X: x, Y: y}
	}

	tests := []struct {
		name      string
		rightY    float64
		leftY     float64
		wantArm   Arm
		wantRight bool // expect the right wrist to be the tracked point
	}{
		{
			name:      "both arms moving, right higher",
			rightY:    0.10, // armHeight +0.25
			leftY:     0.20, // armHeight +0.15
			wantArm:   ArmBoth,
			wantRight: true,
		},
		{
			name:      "both arms moving, left higher",
			rightY:    0.20,
			leftY:     0.10,
			wantArm:   ArmBoth,
			wantRight: false,
		},
		{
			name:      "only left moving",
			rightY:    0.30, // armHeight +0.05, below threshold
			leftY:     0.15,
			wantArm:   ArmLeft,
			wantRight: false,
		},
		{
			name:      "only right moving",
			rightY:    0.15,
			leftY:     0.30,
			wantArm:   ArmRight,
			wantRight: true,
		},
		{
			name:      "neither moving defaults to right",
			rightY:    0.30,
			leftY:     0.30,
			wantArm:   ArmRight,
			wantRight: true,
		},
		{
			name:      "hanging arms count as moving",
			rightY:    0.65, // armHeight -0.30
			leftY:     0.75, // armHeight -0.40, right is larger
			wantArm:   ArmBoth,
			wantRight: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rightWrist := wristAt(0.40, tt.rightY)
			leftWrist := wristAt(0.60, tt.leftY)

			arm, wrist := SelectArmPoints(shoulderR, rightWrist, shoulderL, leftWrist)

			if arm != tt.wantArm {
				t.Errorf("arm = %q, want %q", arm, tt.wantArm)
			}
			if tt.wantRight && wrist != rightWrist {
				t.Errorf("expected right wrist to be tracked")
			}
			if !tt.wantRight && wrist != leftWrist {
				t.Errorf("expected left wrist to be tracked")
			}
		})
	}

	t.Run("missing side selects the other", func(t *testing.T) {
		leftWrist := wristAt(0.60, 0.15)

		arm, wrist := SelectArmPoints(nil, nil, shoulderL, leftWrist)
		if arm != ArmLeft || wrist != leftWrist {
			t.Errorf("expected left arm when right side is missing, got %q", arm)
		}

		rightWrist := wristAt(0.40, 0.15)
		arm, wrist = SelectArmPoints(shoulderR, rightWrist, nil, nil)
		if arm != ArmRight || wrist != rightWrist {
			t.Errorf("expected right arm when left side is missing, got %q", arm)
		}
	})

	t.Run("no usable side returns nil wrist", func(t *testing.T) {
		_, wrist := SelectArmPoints(nil, nil, nil, nil)
		if wrist != nil {
			t.Error("expected nil wrist when no landmarks are usable")
		}
	})
}

func TestSelectArm_Pose(t *testing.T) {
	p := pose.RightArmRaisedPose()

	arm, wrist := SelectArm(p)
	if arm != ArmBoth && arm != ArmRight {
		t.Errorf("unexpected arm %q for right-arm-raised pose", arm)
	}
	if wrist == nil {
		t.Fatal("expected a tracked wrist")
	}
	if wrist.Y > 0.2 {
		t.Errorf("expected the raised right wrist to be tracked, got y=%f", wrist.Y)
	}
}

func TestSelectArmFrame(t *testing.T) {
	f := templateFrame(0.15)

	arm, wrist := SelectArmFrame(&f)
	if arm != ArmRight {
		t.Errorf("arm = %q, want %q", arm, ArmRight)
	}
	if wrist == nil || wrist.Y != 0.15 {
		t.Errorf("expected raised right wrist, got %v", wrist)
	}
}
