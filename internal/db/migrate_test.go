package db

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, obj := range []struct{ kind, name string }{
		{"table", "courses"},
		{"table", "course_modules"},
		{"index", "idx_courses_created"},
		{"index", "idx_course_modules_video"},
	} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = ? AND name = ?`, obj.kind, obj.name).Scan(&name)
		require.NoError(t, err, "%s %s should exist", obj.kind, obj.name)
		assert.Equal(t, obj.name, name)
	}
}

func TestMigrate_OnlyIdempotentCreates(t *testing.T) {
	for i, stmt := range migrations {
		assert.True(t, strings.HasPrefix(stmt, "CREATE TABLE IF NOT EXISTS") ||
			strings.HasPrefix(stmt, "CREATE INDEX IF NOT EXISTS"), "migration %d: %s", i, stmt)
	}
}

func TestMigrate_CoursesHasRunIDColumn(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	rows, err := db.Query(`PRAGMA table_info(courses)`)
	require.NoError(t, err)
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid       int
			name, typ string
			notNull   int
			dflt      sql.NullString
			pk        int
		)
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err())
	assert.Contains(t, cols, "run_id")
}

func TestForeignKeysCascade(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO courses (id, title, module_count, document, created_at) VALUES ('c1', 't', 1, '{}', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO course_modules (course_id, position, title) VALUES ('c1', 0, 'm')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO course_modules (course_id, position, title) VALUES ('missing', 0, 'm')`)
	assert.Error(t, err, "foreign keys are enforced")

	_, err = db.Exec(`DELETE FROM courses WHERE id = 'c1'`)
	require.NoError(t, err)
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM course_modules`).Scan(&n))
	assert.Zero(t, n)
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/dir/courses.db"

	db, err := OpenDB(path)

	require.NoError(t, err)
	require.NoError(t, db.Close())
}
