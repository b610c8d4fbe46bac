package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/dilan/peyvin/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied,
// including the level and word seed data.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)

	require.NoError(t, db.ApplyMigrations(context.Background(), sqlDB))
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	t.Helper()
	require.NoError(t, closer.Close())
}
