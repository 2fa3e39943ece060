package exercise

import (
	"fmt"
	"math/rand"
	"time"
)

// Throttler tunables.
const (
	// DefaultCooldown is the minimum spacing between spoken feedback
	// utterances.
	DefaultCooldown = 5 * time.Second

	// poorAccuracyThreshold is the ceiling below which a tick counts
	// toward the sustained-poor-form rule.
	poorAccuracyThreshold = 40.0

	// minPoorStreak is how many consecutive poor ticks must accumulate
	// before corrective feedback fires, so single-frame jitter stays
	// silent.
	minPoorStreak = 3

	// praiseAccuracyThreshold is the floor for the sporadic-praise rule.
	praiseAccuracyThreshold = 85.0

	// praiseProbability gates sporadic praise per qualifying tick.
	praiseProbability = 0.05
)

// AnnounceFunc delivers one feedback utterance. The surrounding application
// decides whether to render or vocalize it; the throttler never waits on it.
type AnnounceFunc func(text string)

// Throttler decides which per-tick results deserve a spoken utterance,
// enforcing one utterance per cooldown window. Priority when several rules
// qualify on the same tick: completed rep, then state transition, then
// sustained poor form, then sporadic praise.
type Throttler struct {
	announce AnnounceFunc
	cooldown time.Duration

	lastUtterance time.Time
	lastRepCount  int
	poorStreak    int

	now func() time.Time
	rng *rand.Rand
}

// NewThrottler creates a Throttler delivering through the given announce
// function. A nil announce is replaced with a no-op.
func NewThrottler(announce AnnounceFunc) *Throttler {
	if announce == nil {
		announce = func(string) {}
	}
	return &Throttler{
		announce: announce,
		cooldown: DefaultCooldown,
		now:      time.Now,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetCooldown replaces the cooldown window.
func (t *Throttler) SetCooldown(d time.Duration) {
	if d > 0 {
		t.cooldown = d
	}
}

// SetClock replaces the throttler's time source. Test hook.
func (t *Throttler) SetClock(now func() time.Time) {
	if now != nil {
		t.now = now
	}
}

// SetRand replaces the random source used by the sporadic-praise rule.
// Test hook.
func (t *Throttler) SetRand(rng *rand.Rand) {
	if rng != nil {
		t.rng = rng
	}
}

// Observe inspects one per-tick result and emits at most one utterance.
// It is a one-way notification: nothing here feeds back into scoring.
func (t *Throttler) Observe(res Result) {
	now := t.now()

	repCompleted := res.RepCount > t.lastRepCount
	t.lastRepCount = res.RepCount

	if res.Status != StatusNoData && res.Accuracy < poorAccuracyThreshold {
		t.poorStreak++
	} else {
		t.poorStreak = 0
	}

	offCooldown := now.Sub(t.lastUtterance) >= t.cooldown

	switch {
	case repCompleted:
		if offCooldown {
			t.say(now, fmt.Sprintf("Rep %d complete. %s work!", res.RepCount, qualityWord(res.Quality)))
		}
	case res.Transition != "":
		if offCooldown {
			t.say(now, res.Transition)
		}
	case t.poorStreak >= minPoorStreak:
		if offCooldown {
			t.say(now, res.Feedback)
			t.poorStreak = 0
		}
	case res.Accuracy >= praiseAccuracyThreshold:
		if offCooldown && t.rng.Float64() < praiseProbability {
			t.say(now, "Looking great, keep it up!")
		}
	}
}

func (t *Throttler) say(now time.Time, text string) {
	t.lastUtterance = now
	t.announce(text)
}

func qualityWord(q RepQuality) string {
	switch q {
	case QualityExcellent:
		return "Excellent"
	case QualityGood:
		return "Good"
	default:
		return "Keep at it, solid"
	}
}
