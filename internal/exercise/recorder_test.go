package exercise

import (
	"errors"
	"testing"
	"time"

	"github.com/fouzanpasha/physioapp/internal/pose"
)

func TestRecorder_CaptureCycle(t *testing.T) {
	r := NewRecorder()
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	if err := r.Start("arm raise", 3*time.Second, start); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !r.Active() {
		t.Fatal("expected recorder to be active")
	}

	// Capture three frames over the window.
	poses := []*pose.Pose{
		pose.StandingPose(),
		pose.RightArmMidRaisePose(),
		pose.RightArmRaisedPose(),
	}
	for i, p := range poses {
		at := start.Add(time.Duration(i) * time.Second)
		if !r.Add(p, at) {
			t.Fatalf("Add() frame %d rejected", i)
		}
	}

	tpl, err := r.Finish(start.Add(3 * time.Second))
	if err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	if tpl.Name != "arm raise" {
		t.Errorf("name = %q, want %q", tpl.Name, "arm raise")
	}
	if tpl.FrameCount != 3 || len(tpl.Frames) != 3 {
		t.Errorf("frame count = %d/%d, want 3", tpl.FrameCount, len(tpl.Frames))
	}
	if tpl.DurationMs != 3000 {
		t.Errorf("duration = %dms, want 3000", tpl.DurationMs)
	}

	// The recorded template is immediately usable by the counter.
	c := NewRepCounter(tpl, DefaultRepConfig())
	if !c.Initialized() {
		t.Error("expected a counter built from the recording to initialize")
	}
	if ep := tpl.EndPoint(); ep == nil || ep.Y > 0.2 {
		t.Errorf("expected the raised wrist as end point, got %v", ep)
	}
}

func TestRecorder_WindowEnforcement(t *testing.T) {
	r := NewRecorder()
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	if err := r.Start("arm raise", time.Second, start); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if !r.Add(pose.StandingPose(), start) {
		t.Fatal("expected in-window frame to be accepted")
	}
	if r.Add(pose.StandingPose(), start.Add(2*time.Second)) {
		t.Error("expected frame after the window to be rejected")
	}
	if !r.Done(start.Add(2 * time.Second)) {
		t.Error("expected recorder to report done after the window")
	}
}

func TestRecorder_Errors(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("double start", func(t *testing.T) {
		r := NewRecorder()
		r.Start("a", time.Second, start)
		if err := r.Start("b", time.Second, start); !errors.Is(err, ErrRecorderActive) {
			t.Errorf("expected ErrRecorderActive, got %v", err)
		}
	})

	t.Run("finish without start", func(t *testing.T) {
		r := NewRecorder()
		if _, err := r.Finish(start); !errors.Is(err, ErrRecorderInactive) {
			t.Errorf("expected ErrRecorderInactive, got %v", err)
		}
	})

	t.Run("finish with no frames", func(t *testing.T) {
		r := NewRecorder()
		r.Start("a", time.Second, start)
		if _, err := r.Finish(start.Add(time.Second)); !errors.Is(err, ErrNoFramesCaptured) {
			t.Errorf("expected ErrNoFramesCaptured, got %v", err)
		}
	})

	t.Run("incomplete pose rejected", func(t *testing.T) {
		r := NewRecorder()
		r.Start("a", time.Second, start)

		short := pose.FromPoints(make([]pose.Point3D, pose.MinLandmarks))
		if r.Add(short, start) {
			t.Error("expected pose without hips to be rejected")
		}
	})
}
