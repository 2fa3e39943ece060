package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/fouzanpasha/physioapp/internal/exercise"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// TemplateRepository provides CRUD operations for exercise templates.
// Frames are persisted alongside the template row and loaded back in
// recorded order.
type TemplateRepository struct {
	db *sql.DB
}

// Templates returns the template repository for this store.
func (s *Store) Templates() *TemplateRepository {
	return &TemplateRepository{db: s.db}
}

// Create inserts a template and all of its frames in a single transaction.
func (r *TemplateRepository) Create(t *exercise.Template) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.FrameCount = len(t.Frames)

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO templates (id, name, duration_ms, frame_count, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.DurationMs, t.FrameCount, t.CreatedAt,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO template_frames (template_id, frame_index, joint_index, x, y, z)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for fi := range t.Frames {
		for ji := 0; ji < exercise.NumJoints; ji++ {
			pt := t.Frames[fi].Joints[ji]
			if _, err := stmt.Exec(t.ID, fi, ji, pt.X, pt.Y, pt.Z); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// GetByID retrieves a template and its frames by ID.
func (r *TemplateRepository) GetByID(id string) (*exercise.Template, error) {
	t := &exercise.Template{}

	err := r.db.QueryRow(
		`SELECT id, name, duration_ms, frame_count, created_at
		 FROM templates WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Name, &t.DurationMs, &t.FrameCount, &t.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := r.loadFrames(t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetByName retrieves a template and its frames by name.
func (r *TemplateRepository) GetByName(name string) (*exercise.Template, error) {
	t := &exercise.Template{}

	err := r.db.QueryRow(
		`SELECT id, name, duration_ms, frame_count, created_at
		 FROM templates WHERE name = ?`,
		name,
	).Scan(&t.ID, &t.Name, &t.DurationMs, &t.FrameCount, &t.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := r.loadFrames(t); err != nil {
		return nil, err
	}
	return t, nil
}

// List retrieves all templates without their frames, newest first. Frames
// are loaded on demand via GetByID when a session starts.
func (r *TemplateRepository) List() ([]*exercise.Template, error) {
	rows, err := r.db.Query(
		`SELECT id, name, duration_ms, frame_count, created_at
		 FROM templates ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*exercise.Template
	for rows.Next() {
		t := &exercise.Template{}
		if err := rows.Scan(&t.ID, &t.Name, &t.DurationMs, &t.FrameCount, &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

// Rename updates the name of an existing template.
func (r *TemplateRepository) Rename(id, name string) error {
	result, err := r.db.Exec(`UPDATE templates SET name = ? WHERE id = ?`, name, id)
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

// Delete removes a template and, via cascade, its frames.
func (r *TemplateRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM templates WHERE id = ?`, id)
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

// loadFrames reads all frame rows for a template and rebuilds the ordered
// frame slice.
func (r *TemplateRepository) loadFrames(t *exercise.Template) error {
	rows, err := r.db.Query(
		`SELECT frame_index, joint_index, x, y, z
		 FROM template_frames
		 WHERE template_id = ?
		 ORDER BY frame_index, joint_index`,
		t.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	frames := make([]exercise.Frame, t.FrameCount)
	for rows.Next() {
		var fi, ji int
		var x, y, z float64
		if err := rows.Scan(&fi, &ji, &x, &y, &z); err != nil {
			return err
		}
		if fi < 0 || fi >= len(frames) || ji < 0 || ji >= exercise.NumJoints {
			continue
		}
		frames[fi].Joints[ji].X = x
		frames[fi].Joints[ji].Y = y
		frames[fi].Joints[ji].Z = z
	}

	if err := rows.Err(); err != nil {
		return err
	}

	t.Frames = frames
	return nil
}
