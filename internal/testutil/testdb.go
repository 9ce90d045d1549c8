package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/coursesmith/internal/db"
)

// NewTestDB opens a migrated in-memory course store that is closed when tb
// finishes.
func NewTestDB(tb testing.TB) *sql.DB {
	tb.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(tb, err, "opening in-memory course store")
	tb.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
