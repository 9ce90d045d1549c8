package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/coursesmith/internal/db"
)

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertCourse(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO courses (id, title, module_count, document, created_at) VALUES (?, 'title', 0, '{}', '2026-01-01T00:00:00Z')`, id)
	return err
}

func courseExists(t *testing.T, database *sql.DB, id string) bool {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM courses WHERE id = ?`, id).Scan(&n))
	return n == 1
}

func TestWithinTx_Commits(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertCourse(ctx, tx, "c1")
	})

	require.NoError(t, err)
	assert.True(t, courseExists(t, database, "c1"))
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	database, uow := openUoW(t)
	boom := errors.New("boom")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertCourse(ctx, tx, "c2"); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, courseExists(t, database, "c2"))
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertCourse(ctx, tx, "c3")
			panic("boom")
		})
	})

	assert.False(t, courseExists(t, database, "c3"))
}
