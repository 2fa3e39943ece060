package store

import (
	"database/sql"
	"errors"

	"github.com/fouzanpasha/physioapp/internal/exercise"
)

// Session is a completed session summary as stored in the database.
type Session struct {
	ID string `json:"id"`
	exercise.Record
}

// DailyProgress is a per-day aggregate over completed sessions.
type DailyProgress struct {
	Day         string  `json:"day"`
	Sessions    int     `json:"sessions"`
	TotalScore  int     `json:"total_score"`
	AvgAccuracy float64 `json:"avg_accuracy"`
	TotalReps   int     `json:"total_reps"`
}

// SessionRepository provides storage for completed session records.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a completed session record. The calendar day is computed
// here so progress aggregation does not depend on how the driver formats
// timestamps.
func (r *SessionRepository) Create(id string, rec exercise.Record) error {
	day := rec.StartTime.UTC().Format("2006-01-02")
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, template_id, day, start_time, end_time, score, accuracy, completed_reps, target_reps)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, rec.ExerciseID, day, rec.StartTime, rec.EndTime, rec.Score, rec.Accuracy, rec.CompletedReps, rec.TargetReps,
	)
	return err
}

// GetByID retrieves a session record by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	s := &Session{}

	err := r.db.QueryRow(
		`SELECT id, template_id, start_time, end_time, score, accuracy, completed_reps, target_reps
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&s.ID, &s.ExerciseID, &s.StartTime, &s.EndTime, &s.Score, &s.Accuracy, &s.CompletedReps, &s.TargetReps)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s, nil
}

// List retrieves all session records, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, template_id, start_time, end_time, score, accuracy, completed_reps, target_reps
		 FROM sessions ORDER BY start_time DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s := &Session{}
		err := rows.Scan(&s.ID, &s.ExerciseID, &s.StartTime, &s.EndTime, &s.Score, &s.Accuracy, &s.CompletedReps, &s.TargetReps)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// ListByTemplate retrieves all session records for one template, newest
// first.
func (r *SessionRepository) ListByTemplate(templateID string) ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, template_id, start_time, end_time, score, accuracy, completed_reps, target_reps
		 FROM sessions WHERE template_id = ? ORDER BY start_time DESC`,
		templateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s := &Session{}
		err := rows.Scan(&s.ID, &s.ExerciseID, &s.StartTime, &s.EndTime, &s.Score, &s.Accuracy, &s.CompletedReps, &s.TargetReps)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Progress aggregates completed sessions per calendar day, most recent day
// first, limited to the given number of days (0 means no limit).
func (r *SessionRepository) Progress(days int) ([]DailyProgress, error) {
	query := `SELECT day,
	                 COUNT(*),
	                 COALESCE(SUM(score), 0),
	                 COALESCE(AVG(accuracy), 0),
	                 COALESCE(SUM(completed_reps), 0)
	          FROM sessions
	          GROUP BY day
	          ORDER BY day DESC`

	var rows *sql.Rows
	var err error
	if days > 0 {
		rows, err = r.db.Query(query+` LIMIT ?`, days)
	} else {
		rows, err = r.db.Query(query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []DailyProgress
	for rows.Next() {
		var p DailyProgress
		if err := rows.Scan(&p.Day, &p.Sessions, &p.TotalScore, &p.AvgAccuracy, &p.TotalReps); err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Delete removes a session record by its ID.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
