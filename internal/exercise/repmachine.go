package exercise

import (
	"fmt"
	"time"

	"github.com/fouzanpasha/physioapp/internal/pose"
)

// RepState is the position of the user in the start→end→start cycle.
type RepState string

const (
	StateWaitingForStart    RepState = "waiting_for_start"
	StateMovementInProgress RepState = "movement_in_progress"
	StateMovementAtEnd      RepState = "movement_at_end"
)

// RepQuality grades one tick of a repetition.
type RepQuality string

const (
	QualityExcellent RepQuality = "excellent"
	QualityGood      RepQuality = "good"
	QualityPoor      RepQuality = "poor"
)

// Rep quality accuracy bands.
const (
	excellentRepAccuracy = 85.0
	goodRepAccuracy      = 70.0
)

// RepConfig collects every tunable of the repetition counter in one place.
type RepConfig struct {
	// ProximityThreshold is the maximum 3D distance at which the wrist
	// counts as "at" the start or end point, in normalized units.
	ProximityThreshold float64

	// MinDwell is how long the machine must sit in a state before a
	// transition out of it is considered.
	MinDwell time.Duration

	// MinTransitionInterval is the minimum spacing between two realized
	// transitions.
	MinTransitionInterval time.Duration
}

// DefaultRepConfig returns the tuning used in production.
func DefaultRepConfig() RepConfig {
	return RepConfig{
		ProximityThreshold:    0.15,
		MinDwell:              500 * time.Millisecond,
		MinTransitionInterval: 1000 * time.Millisecond,
	}
}

// Result is the per-tick snapshot emitted by the repetition counter. It is
// a derived value: each call to ProcessPose produces a fresh one.
type Result struct {
	RepCount   int        `json:"rep_count"`
	State      RepState   `json:"state"`
	Quality    RepQuality `json:"quality"`
	Arm        Arm        `json:"arm"`
	Accuracy   float64    `json:"accuracy"`
	Feedback   string     `json:"feedback"`
	Status     Status     `json:"status"`
	Points     int        `json:"points"`
	Transition string     `json:"transition,omitempty"`
	DebugInfo  string     `json:"debug_info,omitempty"`
}

// RepCounter tracks a user through repeated start→end→start cycles against
// a recorded template. One instance exclusively owns its mutable state for
// the lifetime of a session; callers must serialize ProcessPose ticks.
type RepCounter struct {
	config     RepConfig
	startPoint *pose.Point3D
	endPoint   *pose.Point3D

	repCount       int
	state          RepState
	stateEntered   time.Time
	lastTransition time.Time

	now   func() time.Time
	debug DebugSink
}

// NewRepCounter builds a counter from a recorded template. A template with
// no frames yields a counter that stays in a "not initialized" response
// mode: every tick returns the same diagnostic result and the rep count
// never moves.
func NewRepCounter(t *Template, config RepConfig) *RepCounter {
	c := &RepCounter{
		config: config,
		state:  StateWaitingForStart,
		now:    time.Now,
		debug:  nopSink{},
	}

	if t != nil && len(t.Frames) > 0 {
		// Copies, so the shared template is never aliased.
		if sp := t.StartPoint(); sp != nil {
			v := *sp
			c.startPoint = &v
		}
		if ep := t.EndPoint(); ep != nil {
			v := *ep
			c.endPoint = &v
		}
	}

	// Both guard timers start at construction: a pose already in range on
	// the first tick only transitions once the dwell and interval guards
	// have elapsed from this moment.
	start := c.now()
	c.stateEntered = start
	c.lastTransition = start

	return c
}

// SetDebugSink installs a diagnostic sink. Passing nil restores the no-op
// sink.
func (c *RepCounter) SetDebugSink(sink DebugSink) {
	if sink == nil {
		sink = nopSink{}
	}
	c.debug = sink
}

// SetClock replaces the counter's time source. Test hook.
func (c *RepCounter) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// SetProximityThreshold replaces the proximity threshold at runtime.
// Useful values stay in (0, 1].
func (c *RepCounter) SetProximityThreshold(v float64) {
	c.config.ProximityThreshold = v
}

// RepCount returns the number of completed repetitions.
func (c *RepCounter) RepCount() int {
	return c.repCount
}

// State returns the current cycle state.
func (c *RepCounter) State() RepState {
	return c.state
}

// Initialized reports whether start and end points could be derived from
// the template.
func (c *RepCounter) Initialized() bool {
	return c.startPoint != nil && c.endPoint != nil
}

// Reset zeroes the rep count and returns the machine to waiting_for_start,
// restarting both guard timers. Used to reuse one instance for a new
// session.
func (c *RepCounter) Reset() {
	c.repCount = 0
	c.state = StateWaitingForStart
	now := c.now()
	c.stateEntered = now
	c.lastTransition = now
}

// ProcessPose ingests one pose and returns the per-tick result. Bad input
// never errors; it produces a zero-confidence result instead.
func (c *RepCounter) ProcessPose(p *pose.Pose) Result {
	now := c.now()

	if !c.Initialized() {
		c.debug.Event(DebugEvent{Kind: EventTickRejected, Detail: "not initialized", At: now})
		return Result{
			RepCount: c.repCount,
			State:    c.state,
			Quality:  QualityPoor,
			Arm:      ArmRight,
			Status:   StatusNoData,
			Feedback: "Exercise not set up. Record a template first.",
		}
	}

	if p == nil || p.Count < pose.MinLandmarks {
		c.debug.Event(DebugEvent{Kind: EventTickRejected, Detail: "too few landmarks", At: now})
		return c.noDataResult("No pose detected. Step into the camera view.")
	}

	arm, wrist := SelectArm(p)
	if wrist == nil {
		c.debug.Event(DebugEvent{Kind: EventTickRejected, Detail: "no wrist", At: now})
		return c.noDataResult("Cannot see your arms. Adjust your position.")
	}

	distToStart := pose.Distance3D(wrist, c.startPoint)
	distToEnd := pose.Distance3D(wrist, c.endPoint)

	transition := ""
	if c.guardsSatisfied(now) {
		transition = c.evaluateTransition(distToStart, distToEnd, now)
	} else if c.inRange(distToStart, distToEnd) {
		c.debug.Event(DebugEvent{
			Kind:   EventTransitionRejected,
			From:   c.state,
			Detail: "debounce guard",
			At:     now,
		})
	}

	accuracy := clampAccuracy(c.accuracy(distToStart, distToEnd))
	status, points := statusForAccuracy(accuracy)

	result := Result{
		RepCount:   c.repCount,
		State:      c.state,
		Quality:    qualityForAccuracy(accuracy),
		Arm:        arm,
		Accuracy:   accuracy,
		Status:     status,
		Points:     points,
		Feedback:   c.stateFeedback(accuracy),
		Transition: transition,
		DebugInfo: fmt.Sprintf("dStart=%.3f dEnd=%.3f thresh=%.3f",
			distToStart, distToEnd, c.config.ProximityThreshold),
	}
	return result
}

// guardsSatisfied checks both debounce rules: minimum dwell in the current
// state and minimum spacing since the last realized transition.
func (c *RepCounter) guardsSatisfied(now time.Time) bool {
	return now.Sub(c.stateEntered) >= c.config.MinDwell &&
		now.Sub(c.lastTransition) >= c.config.MinTransitionInterval
}

// inRange reports whether the wrist is close enough to the reference point
// that matters in the current state.
func (c *RepCounter) inRange(distToStart, distToEnd float64) bool {
	switch c.state {
	case StateMovementInProgress:
		return distToEnd < c.config.ProximityThreshold
	default:
		return distToStart < c.config.ProximityThreshold
	}
}

// evaluateTransition advances the cycle when the wrist reaches the relevant
// reference point. The rep counter increments on exactly one edge:
// movement_at_end → waiting_for_start.
func (c *RepCounter) evaluateTransition(distToStart, distToEnd float64, now time.Time) string {
	threshold := c.config.ProximityThreshold

	var next RepState
	var message string

	switch c.state {
	case StateWaitingForStart:
		if distToStart < threshold {
			next = StateMovementInProgress
			message = "Movement started"
		}
	case StateMovementInProgress:
		if distToEnd < threshold {
			next = StateMovementAtEnd
			message = "Top of the movement reached"
		}
	case StateMovementAtEnd:
		if distToStart < threshold {
			next = StateWaitingForStart
			c.repCount++
			message = fmt.Sprintf("Rep %d complete", c.repCount)
		}
	}

	if next == "" {
		return ""
	}

	c.debug.Event(DebugEvent{Kind: EventTransition, From: c.state, To: next, Detail: message, At: now})
	c.state = next
	c.stateEntered = now
	c.lastTransition = now
	return message
}

// accuracy computes the per-state accuracy from the two reference
// distances.
func (c *RepCounter) accuracy(distToStart, distToEnd float64) float64 {
	switch c.state {
	case StateWaitingForStart:
		return 100 - distToStart*200
	case StateMovementInProgress:
		return 100 - distToStart*100 - distToEnd*100
	case StateMovementAtEnd:
		return 100 - distToEnd*200
	default:
		return 0
	}
}

// stateFeedback returns the coaching line for the current state and
// accuracy tier.
func (c *RepCounter) stateFeedback(accuracy float64) string {
	excellent := accuracy >= ExcellentAccuracy

	switch c.state {
	case StateWaitingForStart:
		if excellent {
			return "Perfect starting position."
		}
		return "Move to the starting position."
	case StateMovementInProgress:
		if excellent {
			return "Great, keep the movement going."
		}
		return "Keep going, follow the recorded path."
	case StateMovementAtEnd:
		if excellent {
			return "Excellent, now return to the start."
		}
		return "Return to the starting position."
	default:
		return ""
	}
}

// noDataResult is the degraded result for an unusable tick. State and
// counters are untouched.
func (c *RepCounter) noDataResult(feedback string) Result {
	return Result{
		RepCount: c.repCount,
		State:    c.state,
		Quality:  QualityPoor,
		Arm:      ArmRight,
		Status:   StatusNoData,
		Feedback: feedback,
	}
}

// qualityForAccuracy grades one tick of a repetition.
func qualityForAccuracy(accuracy float64) RepQuality {
	switch {
	case accuracy >= excellentRepAccuracy:
		return QualityExcellent
	case accuracy >= goodRepAccuracy:
		return QualityGood
	default:
		return QualityPoor
	}
}
