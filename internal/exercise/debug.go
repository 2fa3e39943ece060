package exercise

import "time"

// DebugEvent is one structured diagnostic emitted by the engine: realized
// and rejected transitions, phase changes, per-tick accuracy. Tests assert
// on these instead of parsing log output.
type DebugEvent struct {
	Kind     string   `json:"kind"`
	From     RepState `json:"from,omitempty"`
	To       RepState `json:"to,omitempty"`
	Detail   string   `json:"detail,omitempty"`
	Accuracy float64  `json:"accuracy,omitempty"`
	At       time.Time `json:"at"`
}

// Debug event kinds.
const (
	EventTransition         = "transition"
	EventTransitionRejected = "transition_rejected"
	EventTickRejected       = "tick_rejected"
)

// DebugSink receives engine diagnostics. Implementations must be fast and
// non-blocking; the engine calls them synchronously inside the tick.
type DebugSink interface {
	Event(e DebugEvent)
}

// nopSink is the default sink; it discards everything with zero overhead.
type nopSink struct{}

func (nopSink) Event(DebugEvent) {}

// RecordingSink retains every event it receives. Test helper.
type RecordingSink struct {
	Events []DebugEvent
}

// Event appends the event to the recorded list.
func (s *RecordingSink) Event(e DebugEvent) {
	s.Events = append(s.Events, e)
}

// Kinds returns the recorded event kinds in order.
func (s *RecordingSink) Kinds() []string {
	kinds := make([]string, len(s.Events))
	for i, e := range s.Events {
		kinds[i] = e.Kind
	}
	return kinds
}
