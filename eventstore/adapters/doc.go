// Package adapters provide eventstore.ConnProvider implementations for the supported database libraries.
//
// This package implements the adapter pattern to support pgxpool.Pool, sql.DB, and sqlx.DB.
// All adapters hand out a connection that is used exclusively until it is released,
// start transactions on it, and execute parameterized queries through the common
// eventstore.DBQuerier interface.
//
// The adapters handle the specifics of each database library while presenting a
// unified interface for query execution, transaction control, and result handling.
// Releasing a connection twice is a no-op.
package adapters
