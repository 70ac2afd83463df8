// Package config provides database configuration for the example: shopping baskets, users, and teams.
//
// The configuration is read from environment variables (EVENTSTORE_*). Depending on the adapter it
// opens a pgxpool.Pool, a database/sql DB, or a sqlx DB, against PostgreSQL or SQLite, and wraps it
// into the eventstore.ConnProvider the transaction scope works with.
//
// This package is part of the shell (infrastructure) layer.
package config
