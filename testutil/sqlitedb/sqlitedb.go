// Package sqlitedb opens throwaway file-backed SQLite databases for integration tests.
package sqlitedb

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

const driverName = "sqlite"

// Open creates an empty SQLite database in t.TempDir() and closes it on test cleanup.
// The pool is limited to one connection: SQLite allows a single writer,
// and one connection makes transaction visibility in tests deterministic.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open(driverName, filepath.Join(t.TempDir(), "eventstore.db"))
	require.NoError(t, err)

	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// OpenWithSchema opens a database like Open and executes the given DDL statements.
func OpenWithSchema(t testing.TB, statements ...string) *sql.DB {
	t.Helper()

	db := Open(t)
	for _, statement := range statements {
		_, err := db.Exec(statement)
		require.NoError(t, err, statement)
	}

	return db
}

// CountRows returns the number of rows in table matching the optional where clause.
func CountRows(t testing.TB, db *sql.DB, table string, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var count int
	require.NoError(t, db.QueryRow(query, args...).Scan(&count))

	return count
}
