package exercise

import "time"

// DefaultTargetReps is the per-session rep goal. A policy constant, not
// part of the scoring logic.
const DefaultTargetReps = 10

// Record is the summary emitted once per completed session.
type Record struct {
	ExerciseID    string    `json:"exercise_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Score         int       `json:"score"`
	Accuracy      float64   `json:"accuracy"`
	CompletedReps int       `json:"completed_reps"`
	TargetReps    int       `json:"target_reps"`
}

// Session accumulates per-tick results into the running score for one
// exercise session: total points, latest rep count, mean accuracy.
type Session struct {
	exerciseID  string
	startedAt   time.Time
	targetReps  int
	score       int
	reps        int
	accuracySum float64
	scoredTicks int
}

// NewSession starts a session aggregate for the given exercise.
func NewSession(exerciseID string, startedAt time.Time) *Session {
	return &Session{
		exerciseID: exerciseID,
		startedAt:  startedAt,
		targetReps: DefaultTargetReps,
	}
}

// SetTargetReps overrides the rep goal.
func (s *Session) SetTargetReps(n int) {
	if n > 0 {
		s.targetReps = n
	}
}

// Observe folds one per-tick result into the running aggregate. No-data
// ticks contribute nothing.
func (s *Session) Observe(res Result) {
	s.reps = res.RepCount

	if res.Status == StatusNoData {
		return
	}

	s.score += res.Points
	s.accuracySum += res.Accuracy
	s.scoredTicks++
}

// Score returns the running point total.
func (s *Session) Score() int {
	return s.score
}

// Reps returns the latest observed rep count.
func (s *Session) Reps() int {
	return s.reps
}

// TargetReps returns the rep goal for this session.
func (s *Session) TargetReps() int {
	return s.targetReps
}

// Finish closes the session and returns its summary record.
func (s *Session) Finish(at time.Time) Record {
	accuracy := 0.0
	if s.scoredTicks > 0 {
		accuracy = s.accuracySum / float64(s.scoredTicks)
	}

	return Record{
		ExerciseID:    s.exerciseID,
		StartTime:     s.startedAt,
		EndTime:       at,
		Score:         s.score,
		Accuracy:      accuracy,
		CompletedReps: s.reps,
		TargetReps:    s.targetReps,
	}
}
