package db

import (
	"database/sql"
	"fmt"
)

// migrations are idempotent and re-run on every open.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id            TEXT PRIMARY KEY,
		run_id        TEXT NOT NULL DEFAULT '',
		title         TEXT NOT NULL,
		objective     TEXT NOT NULL DEFAULT '',
		thumbnail_url TEXT NOT NULL DEFAULT '',
		total_minutes REAL NOT NULL DEFAULT 0,
		module_count  INTEGER NOT NULL CHECK(module_count >= 0),
		quiz_gaps     INTEGER NOT NULL DEFAULT 0,
		document      TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS course_modules (
		course_id        TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		position         INTEGER NOT NULL CHECK(position >= 0),
		title            TEXT NOT NULL,
		video_id         TEXT NOT NULL DEFAULT '',
		video_url        TEXT NOT NULL DEFAULT '',
		duration_minutes REAL NOT NULL DEFAULT 0,
		has_quiz         INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (course_id, position)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_created ON courses(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_course_modules_video ON course_modules(video_id)`,
}

// Migrate applies every migration in order.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
