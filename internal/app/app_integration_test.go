package app

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fouzanpasha/physioapp/internal/exercise"
	"github.com/fouzanpasha/physioapp/internal/pose"
	"github.com/fouzanpasha/physioapp/internal/store"
)

// spokenLog collects announcer output for assertions.
type spokenLog struct {
	mu    sync.Mutex
	lines []string
}

func (s *spokenLog) Say(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, text)
}

func (s *spokenLog) Close() error { return nil }

func (s *spokenLog) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

// seedTemplate stores a small right-arm-raise template and returns its ID.
func seedTemplate(t *testing.T, s *store.Store) string {
	t.Helper()

	frame := func(rightWristY float64) exercise.Frame {
		var f exercise.Frame
		f.Joints[exercise.JointRightShoulder] = pose.Point3D{X: 0.40, Y: 0.35}
		f.Joints[exercise.JointLeftShoulder] = pose.Point3D{X: 0.60, Y: 0.35}
		f.Joints[exercise.JointRightElbow] = pose.Point3D{X: 0.38, Y: 0.48}
		f.Joints[exercise.JointLeftElbow] = pose.Point3D{X: 0.62, Y: 0.48}
		f.Joints[exercise.JointRightWrist] = pose.Point3D{X: 0.50, Y: rightWristY}
		f.Joints[exercise.JointLeftWrist] = pose.Point3D{X: 0.62, Y: 0.40}
		f.Joints[exercise.JointRightHip] = pose.Point3D{X: 0.43, Y: 0.60}
		f.Joints[exercise.JointLeftHip] = pose.Point3D{X: 0.57, Y: 0.60}
		return f
	}

	tpl := &exercise.Template{
		ID:         "tpl-test",
		Name:       "right arm raise",
		Frames:     []exercise.Frame{frame(0.80), frame(0.20)},
		DurationMs: 2000,
	}
	if err := s.Templates().Create(tpl); err != nil {
		t.Fatalf("failed to seed template: %v", err)
	}
	return tpl.ID
}

// startPose places the right wrist at the template's start point; the left
// arm hangs so arm selection stays on the right.
func startPose() *pose.Pose {
	points := make([]pose.Point3D, pose.NumLandmarks)
	points[pose.RightShoulder] = pose.Point3D{X: 0.40, Y: 0.35}
	points[pose.LeftShoulder] = pose.Point3D{X: 0.60, Y: 0.35}
	points[pose.RightElbow] = pose.Point3D{X: 0.38, Y: 0.48}
	points[pose.LeftElbow] = pose.Point3D{X: 0.62, Y: 0.48}
	points[pose.RightWrist] = pose.Point3D{X: 0.50, Y: 0.80}
	points[pose.LeftWrist] = pose.Point3D{X: 0.62, Y: 0.40}
	points[pose.RightHip] = pose.Point3D{X: 0.43, Y: 0.60}
	points[pose.LeftHip] = pose.Point3D{X: 0.57, Y: 0.60}
	return pose.FromPoints(points)
}

func TestApp_SessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	templateID := seedTemplate(t, s)

	voice := &spokenLog{}
	a := New(Config{Store: s, Announcer: voice})
	a.SetDetector(pose.NewMockDetector())

	sessionID, err := a.StartSession(templateID, 5)
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if sessionID == "" {
		t.Fatal("expected a session ID")
	}
	if !a.SessionActive() {
		t.Fatal("expected an active session")
	}
	if voice.Len() == 0 {
		t.Error("expected the session start to be announced")
	}

	// A second session or a recording cannot start while one is running.
	if _, err := a.StartSession(templateID, 5); !errors.Is(err, ErrSessionActive) {
		t.Errorf("expected ErrSessionActive, got %v", err)
	}
	if err := a.StartRecording("x", time.Second); !errors.Is(err, ErrSessionActive) {
		t.Errorf("expected ErrSessionActive, got %v", err)
	}

	// Drive a few coaching ticks directly.
	for i := 0; i < 3; i++ {
		a.coachTick(startPose())
	}

	tick, ok := a.LatestTick()
	if !ok {
		t.Fatal("expected a latest tick after coaching")
	}
	if tick.SessionID != sessionID || tick.TemplateID != templateID {
		t.Errorf("tick ids = %q/%q, want %q/%q", tick.SessionID, tick.TemplateID, sessionID, templateID)
	}
	if tick.State != exercise.StateWaitingForStart {
		t.Errorf("state = %q, want waiting_for_start", tick.State)
	}
	if tick.Status == exercise.StatusNoData {
		t.Error("expected a scored tick for a full pose")
	}
	if tick.TargetReps != 5 {
		t.Errorf("target reps = %d, want 5", tick.TargetReps)
	}
	if tick.Score <= 0 {
		t.Errorf("score = %d, want accumulation across ticks", tick.Score)
	}

	rec, err := a.StopSession()
	if err != nil {
		t.Fatalf("StopSession() error = %v", err)
	}
	if rec.ExerciseID != templateID {
		t.Errorf("record exercise id = %q, want %q", rec.ExerciseID, templateID)
	}
	if a.SessionActive() {
		t.Error("expected no active session after stop")
	}

	// The record is persisted under the session ID.
	stored, err := s.Sessions().GetByID(sessionID)
	if err != nil {
		t.Fatalf("persisted session not found: %v", err)
	}
	if stored.Score != rec.Score {
		t.Errorf("persisted score = %d, want %d", stored.Score, rec.Score)
	}

	if _, err := a.StopSession(); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestApp_StartSessionErrors(t *testing.T) {
	t.Run("no store", func(t *testing.T) {
		a := New(Config{})
		if _, err := a.StartSession("tpl", 0); !errors.Is(err, ErrNoStore) {
			t.Errorf("expected ErrNoStore, got %v", err)
		}
	})

	t.Run("unknown template", func(t *testing.T) {
		s := newTestStore(t)
		a := New(Config{Store: s})
		if _, err := a.StartSession("no-such-template", 0); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestApp_RecordingFlow(t *testing.T) {
	s := newTestStore(t)

	voice := &spokenLog{}
	a := New(Config{Store: s, Announcer: voice})
	a.SetDetector(pose.NewMockDetector())

	if err := a.StartRecording("new raise", 2*time.Second); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}
	if !a.RecordingActive() {
		t.Fatal("expected an active recording")
	}
	if err := a.StartRecording("another", time.Second); !errors.Is(err, ErrRecordingActive) {
		t.Errorf("expected ErrRecordingActive, got %v", err)
	}

	// Feed frames inside the window, then one tick past it.
	begin := time.Now()
	a.recordTick(pose.StandingPose(), begin)
	a.recordTick(pose.RightArmMidRaisePose(), begin.Add(time.Second))
	a.recordTick(pose.RightArmRaisedPose(), begin.Add(1500*time.Millisecond))
	a.recordTick(nil, begin.Add(3*time.Second))

	if a.RecordingActive() {
		t.Fatal("expected recording to finish after the window")
	}

	tpl, err := s.Templates().GetByName("new raise")
	if err != nil {
		t.Fatalf("recorded template not found: %v", err)
	}
	if tpl.FrameCount != 3 {
		t.Errorf("frame count = %d, want 3", tpl.FrameCount)
	}
	if tpl.ID == "" {
		t.Error("expected a generated template ID")
	}

	// The saved recording can back a session immediately.
	if _, err := a.StartSession(tpl.ID, 0); err != nil {
		t.Fatalf("StartSession() on recorded template error = %v", err)
	}
	a.StopSession()
}

func TestApp_TickHook(t *testing.T) {
	s := newTestStore(t)
	templateID := seedTemplate(t, s)

	a := New(Config{Store: s})
	a.SetDetector(pose.NewMockDetector())

	var mu sync.Mutex
	var seen []Tick
	a.AddTickHook(func(tick Tick) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, tick)
	})

	if _, err := a.StartSession(templateID, 0); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	a.coachTick(startPose())
	a.coachTick(nil) // detector dropout still publishes a tick

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("expected 2 ticks, got %d", len(seen))
	}
	if seen[1].Status != exercise.StatusNoData {
		t.Errorf("dropout tick status = %q, want no_data", seen[1].Status)
	}
}

func TestApp_ProximitySettingApplied(t *testing.T) {
	s := newTestStore(t)
	templateID := seedTemplate(t, s)

	if err := s.Settings().Set(SettingProximityThreshold, "0.25"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	a := New(Config{Store: s})
	a.SetDetector(pose.NewMockDetector())

	if _, err := a.StartSession(templateID, 0); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	a.coachTick(startPose())

	tick, ok := a.LatestTick()
	if !ok {
		t.Fatal("expected a tick")
	}
	if !strings.Contains(tick.DebugInfo, "thresh=0.250") {
		t.Errorf("DebugInfo = %q, want proximity threshold 0.250", tick.DebugInfo)
	}
}
