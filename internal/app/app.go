// Package app provides the main application logic for the physioapp
// coaching system: it owns the camera pipeline and drives exercise
// sessions and template recordings against it.
package app

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fouzanpasha/physioapp/internal/capture"
	"github.com/fouzanpasha/physioapp/internal/exercise"
	"github.com/fouzanpasha/physioapp/internal/pose"
	"github.com/fouzanpasha/physioapp/internal/speech"
	"github.com/fouzanpasha/physioapp/internal/store"
)

// DefaultRecordingDuration is the template recording window used when the
// caller does not specify one.
const DefaultRecordingDuration = 5 * time.Second

// SettingProximityThreshold is the settings key that overrides the rep
// counter's proximity threshold, stored as a float in (0, 1].
const SettingProximityThreshold = "proximity_threshold"

// App errors.
var (
	ErrSessionActive    = errors.New("a session is already active")
	ErrNoActiveSession  = errors.New("no active session")
	ErrRecordingActive  = errors.New("a recording is already active")
	ErrNoStore          = errors.New("no store configured")
	ErrTemplateNotReady = errors.New("template has no usable start and end points")
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
	Announcer    speech.Announcer
}

// Tick is the per-frame coaching snapshot published to subscribers. It
// joins the repetition counter result with the form analysis and the
// running session totals.
type Tick struct {
	exercise.Result

	Phase         exercise.Phase `json:"phase"`
	PhaseProgress float64        `json:"phase_progress"`
	FormFeedback  string         `json:"form_feedback,omitempty"`
	Score         int            `json:"score"`
	TargetReps    int            `json:"target_reps"`
	SessionID     string         `json:"session_id"`
	TemplateID    string         `json:"template_id"`
}

// coaching bundles the per-session engine state. Owned by the pipeline
// goroutine once the session starts; other goroutines reach it only
// through the App mutex.
type coaching struct {
	sessionID  string
	templateID string
	counter    *exercise.RepCounter
	analyzer   *exercise.Analyzer
	throttler  *exercise.Throttler
	session    *exercise.Session
}

// recording bundles an in-flight template capture.
type recording struct {
	recorder *exercise.Recorder
}

// App orchestrates pose detection, rep counting, and session persistence.
type App struct {
	config    Config
	camera    capture.Camera
	presence  *capture.PresenceGate
	detector  pose.Detector
	announcer speech.Announcer

	mu       sync.RWMutex
	enabled  bool
	stopCh   chan struct{}
	coach    *coaching
	rec      *recording
	lastTick *Tick
	onTick   []func(Tick)
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	announcer := config.Announcer
	if announcer == nil {
		announcer = speech.NopAnnouncer{}
	}

	a := &App{
		config:    config,
		camera:    capture.NewCamera(config.CameraID),
		presence:  capture.NewPresenceGate(capture.NewMotionDetector(config.MotionThresh), capture.DefaultPresenceHold),
		announcer: announcer,
		enabled:   true,
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := pose.NewMediaPipeDetector(pose.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe pose detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = pose.NewMockDetector()
	}

	return a
}

// SetEnabled pauses or resumes coaching without tearing down the pipeline.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether coaching is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the pose detector implementation to use.
func (a *App) SetDetector(d pose.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera implementation. Must be called before
// Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// AddTickHook registers a callback invoked with every coaching tick.
// Callbacks run on the pipeline goroutine and must return quickly.
func (a *App) AddTickHook(fn func(Tick)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onTick = append(a.onTick, fn)
}

// Start opens the camera and begins the frame pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(capture.IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Coaching pipeline started")
	return nil
}

// Stop halts the pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Coaching pipeline stopped")
}

// StartSession begins coaching against the stored template. Returns the
// new session ID.
func (a *App) StartSession(templateID string, targetReps int) (string, error) {
	if a.config.Store == nil {
		return "", ErrNoStore
	}

	tpl, err := a.config.Store.Templates().GetByID(templateID)
	if err != nil {
		return "", fmt.Errorf("load template: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.coach != nil {
		return "", ErrSessionActive
	}
	if a.rec != nil {
		return "", ErrRecordingActive
	}

	counter := exercise.NewRepCounter(tpl, exercise.DefaultRepConfig())
	if !counter.Initialized() {
		return "", ErrTemplateNotReady
	}
	if v, err := a.config.Store.Settings().Get(SettingProximityThreshold); err == nil {
		if thresh, err := strconv.ParseFloat(v, 64); err == nil && thresh > 0 && thresh <= 1 {
			counter.SetProximityThreshold(thresh)
		}
	}

	session := exercise.NewSession(templateID, time.Now())
	if targetReps > 0 {
		session.SetTargetReps(targetReps)
	}

	c := &coaching{
		sessionID:  uuid.NewString(),
		templateID: templateID,
		counter:    counter,
		analyzer:   exercise.NewAnalyzer(tpl),
		throttler:  exercise.NewThrottler(a.announcer.Say),
		session:    session,
	}
	a.coach = c
	a.lastTick = nil

	a.announcer.Say(fmt.Sprintf("Starting %s. Move to the starting position.", tpl.Name))
	log.Printf("Session %s started for template %s", c.sessionID, templateID)
	return c.sessionID, nil
}

// StopSession finishes the active session, persists its record, and
// returns it.
func (a *App) StopSession() (*exercise.Record, error) {
	a.mu.Lock()
	c := a.coach
	a.coach = nil
	a.mu.Unlock()

	if c == nil {
		return nil, ErrNoActiveSession
	}

	rec := c.session.Finish(time.Now())

	if a.config.Store != nil {
		if err := a.config.Store.Sessions().Create(c.sessionID, rec); err != nil {
			return &rec, fmt.Errorf("persist session: %w", err)
		}
	}

	a.announcer.Say(fmt.Sprintf("Session complete. %d reps, %d points.", rec.CompletedReps, rec.Score))
	log.Printf("Session %s finished: %d reps, score %d", c.sessionID, rec.CompletedReps, rec.Score)
	return &rec, nil
}

// SessionActive reports whether a coaching session is running.
func (a *App) SessionActive() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.coach != nil
}

// StartRecording begins capturing a new exercise template from the
// camera. The template is persisted automatically when the window closes.
func (a *App) StartRecording(name string, duration time.Duration) error {
	if a.config.Store == nil {
		return ErrNoStore
	}
	if duration <= 0 {
		duration = DefaultRecordingDuration
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.coach != nil {
		return ErrSessionActive
	}
	if a.rec != nil {
		return ErrRecordingActive
	}

	r := exercise.NewRecorder()
	if err := r.Start(name, duration, time.Now()); err != nil {
		return err
	}

	a.rec = &recording{recorder: r}
	a.announcer.Say(fmt.Sprintf("Recording %s. Perform the movement once.", name))
	log.Printf("Recording %q started (%s window)", name, duration)
	return nil
}

// RecordingActive reports whether a template recording is in progress.
func (a *App) RecordingActive() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.rec != nil
}

// PersonPresent reports whether the motion gate has seen someone in frame
// recently.
func (a *App) PersonPresent() bool {
	return a.presence.Present()
}

// LatestTick returns the most recent coaching tick, if any.
func (a *App) LatestTick() (Tick, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.lastTick == nil {
		return Tick{}, false
	}
	return *a.lastTick, true
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the pose detector.
func (a *App) Detector() pose.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Store returns the backing store, which may be nil.
func (a *App) Store() *store.Store {
	return a.config.Store
}
