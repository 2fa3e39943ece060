package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Templates table - stores exercise template definitions
		`CREATE TABLE IF NOT EXISTS templates (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			frame_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Template frames table - stores recorded joint positions per frame
		`CREATE TABLE IF NOT EXISTS template_frames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			template_id TEXT NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
			frame_index INTEGER NOT NULL,
			joint_index INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL
		)`,

		// Sessions table - stores completed exercise session summaries
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			template_id TEXT NOT NULL,
			day TEXT NOT NULL,
			start_time DATETIME NOT NULL,
			end_time DATETIME NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			accuracy REAL NOT NULL DEFAULT 0,
			completed_reps INTEGER NOT NULL DEFAULT 0,
			target_reps INTEGER NOT NULL DEFAULT 0
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_template_frames_template_id ON template_frames(template_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_template_id ON sessions(template_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_day ON sessions(day)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
