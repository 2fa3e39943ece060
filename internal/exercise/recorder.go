package exercise

import (
	"errors"
	"time"

	"github.com/fouzanpasha/physioapp/internal/pose"
)

// Recorder errors.
var (
	ErrRecorderActive   = errors.New("recording already in progress")
	ErrRecorderInactive = errors.New("no recording in progress")
	ErrNoFramesCaptured = errors.New("no frames captured")
)

// Recorder captures incoming poses during a timed recording session and
// assembles them into a Template. Persisting the result is the caller's
// job.
type Recorder struct {
	name      string
	duration  time.Duration
	startedAt time.Time
	frames    []Frame
	active    bool
}

// NewRecorder creates an idle Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Start begins a recording window of the given duration.
func (r *Recorder) Start(name string, duration time.Duration, at time.Time) error {
	if r.active {
		return ErrRecorderActive
	}

	r.name = name
	r.duration = duration
	r.startedAt = at
	r.frames = r.frames[:0]
	r.active = true
	return nil
}

// Active reports whether a recording window is open.
func (r *Recorder) Active() bool {
	return r.active
}

// Done reports whether the recording window has elapsed.
func (r *Recorder) Done(at time.Time) bool {
	return r.active && at.Sub(r.startedAt) >= r.duration
}

// Add extracts a frame from the pose and appends it to the recording.
// Returns false when the recorder is inactive, the window has elapsed, or
// the pose is missing recorded joints.
func (r *Recorder) Add(p *pose.Pose, at time.Time) bool {
	if !r.active || at.Sub(r.startedAt) >= r.duration {
		return false
	}

	f, ok := ExtractFrame(p)
	if !ok {
		return false
	}

	r.frames = append(r.frames, f)
	return true
}

// Finish closes the recording and returns the assembled Template. The
// template duration is the actual elapsed capture time, not the requested
// window.
func (r *Recorder) Finish(at time.Time) (*Template, error) {
	if !r.active {
		return nil, ErrRecorderInactive
	}
	r.active = false

	if len(r.frames) == 0 {
		return nil, ErrNoFramesCaptured
	}

	frames := make([]Frame, len(r.frames))
	copy(frames, r.frames)

	elapsed := at.Sub(r.startedAt)
	if elapsed > r.duration {
		elapsed = r.duration
	}

	return &Template{
		Name:       r.name,
		Frames:     frames,
		DurationMs: elapsed.Milliseconds(),
		FrameCount: len(frames),
		CreatedAt:  at,
	}, nil
}
