package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNewMotionDetector(t *testing.T) {
	tests := []struct {
		name          string
		threshold     float64
		wantThreshold float64
	}{
		{
			name:          "explicit threshold",
			threshold:     5.0,
			wantThreshold: 5.0,
		},
		{
			name:          "sensitive threshold",
			threshold:     0.5,
			wantThreshold: 0.5,
		},
		{
			name:          "zero falls back to default",
			threshold:     0,
			wantThreshold: DefaultMotionThreshold,
		},
		{
			name:          "negative falls back to default",
			threshold:     -2.0,
			wantThreshold: DefaultMotionThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(tt.threshold)
			defer md.Close()

			if md.threshold != tt.wantThreshold {
				t.Errorf("threshold = %f, want %f", md.threshold, tt.wantThreshold)
			}

			if md.primed {
				t.Error("detector should not be primed before the first frame")
			}
		})
	}
}

func TestMotionDetector_NilFrame(t *testing.T) {
	md := NewMotionDetector(DefaultMotionThreshold)
	defer md.Close()

	moved, pct := md.Detect(nil)
	if moved || pct != 0 {
		t.Errorf("Detect(nil) = (%v, %f), want (false, 0)", moved, pct)
	}
}

func TestMotionDetector_StillScene(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(DefaultMotionThreshold)
	defer md.Close()

	// An empty, unchanging room: two identical black frames.
	frame1 := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	defer frame1.Close()

	frame2 := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	// First frame only primes the baseline.
	moved, pct := md.Detect(&frame1)
	if moved {
		t.Error("priming frame should not report motion")
	}
	if pct != 0 {
		t.Errorf("priming frame changed %f%%, want 0", pct)
	}

	moved, pct = md.Detect(&frame2)
	if moved {
		t.Errorf("identical frames should not report motion, changed %f%%", pct)
	}
}

func TestMotionDetector_SubjectEntersFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(DefaultMotionThreshold)
	defer md.Close()

	empty := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	defer empty.Close()

	occupied := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	defer occupied.Close()
	occupied.SetTo(gocv.NewScalar(255, 255, 255, 0))

	md.Detect(&empty)

	moved, pct := md.Detect(&occupied)
	if !moved {
		t.Errorf("full-frame change should report motion, changed %f%%", pct)
	}
	if pct < 50.0 {
		t.Errorf("changed %f%%, expected > 50%% for a full-frame change", pct)
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(DefaultMotionThreshold)
	defer md.Close()

	frame := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	defer frame.Close()

	md.Detect(&frame)
	if !md.primed {
		t.Error("detector should be primed after the first Detect")
	}

	md.Reset()

	if md.primed {
		t.Error("detector should not be primed after Reset")
	}
	if !md.baseline.Empty() {
		t.Error("baseline should be empty after Reset")
	}

	// The next frame primes again without reporting motion.
	moved, _ := md.Detect(&frame)
	if moved {
		t.Error("first frame after Reset should only prime the baseline")
	}
}

func TestMotionDetector_SetThreshold(t *testing.T) {
	md := NewMotionDetector(DefaultMotionThreshold)
	defer md.Close()

	md.SetThreshold(5.0)
	if md.threshold != 5.0 {
		t.Errorf("threshold = %f, want 5.0 after SetThreshold", md.threshold)
	}

	// Non-positive values are ignored.
	md.SetThreshold(0)
	md.SetThreshold(-1.0)
	if md.threshold != 5.0 {
		t.Errorf("non-positive threshold should be ignored, got %f, want 5.0", md.threshold)
	}
}

func TestMotionDetector_CloseThenDetect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(DefaultMotionThreshold)

	frame := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	defer frame.Close()

	md.Detect(&frame)
	md.Close()
	md.Close() // repeated Close must not panic

	// Detect after Close primes a fresh baseline.
	moved, _ := md.Detect(&frame)
	if moved {
		t.Error("first frame after Close should not report motion")
	}
}
