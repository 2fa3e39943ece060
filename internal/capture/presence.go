package capture

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// DefaultPresenceHold is how long presence persists after the last
// detected motion. A patient holding a pose mid-rep barely moves, so the
// gate must not flap between frames.
const DefaultPresenceHold = 10 * time.Second

// PresenceGate wraps a MotionDetector with a hold window: once motion is
// seen, the subject is considered present until the hold elapses with no
// further motion. The coaching pipeline uses this to switch between idle
// and active frame rates.
type PresenceGate struct {
	motion *MotionDetector
	hold   time.Duration

	mu         sync.Mutex
	lastMotion time.Time
	now        func() time.Time
}

// NewPresenceGate creates a gate over the given motion detector.
func NewPresenceGate(motion *MotionDetector, hold time.Duration) *PresenceGate {
	if hold <= 0 {
		hold = DefaultPresenceHold
	}
	return &PresenceGate{
		motion: motion,
		hold:   hold,
		now:    time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (g *PresenceGate) SetClock(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}

// Observe feeds one frame through motion detection and returns whether
// the subject is currently considered present.
func (g *PresenceGate) Observe(frame *gocv.Mat) bool {
	moved, _ := g.motion.Detect(frame)

	g.mu.Lock()
	defer g.mu.Unlock()

	if moved {
		g.lastMotion = g.now()
		return true
	}
	return g.presentLocked()
}

// Present reports the gate state without consuming a frame.
func (g *PresenceGate) Present() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.presentLocked()
}

func (g *PresenceGate) presentLocked() bool {
	if g.lastMotion.IsZero() {
		return false
	}
	return g.now().Sub(g.lastMotion) < g.hold
}

// Reset clears both the gate and the underlying motion baseline.
func (g *PresenceGate) Reset() {
	g.motion.Reset()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastMotion = time.Time{}
}
