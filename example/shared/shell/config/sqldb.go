package config

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/sqlengine"
)

// pooled is the part of *sql.DB and *sqlx.DB the pool settings need.
type pooled interface {
	SetMaxOpenConns(n int)
	SetMaxIdleConns(n int)
	SetConnMaxLifetime(d time.Duration)
	SetConnMaxIdleTime(d time.Duration)
	PingContext(ctx context.Context) error
	Close() error
}

// OpenSQLDB creates a configured *sql.DB and pings it.
func OpenSQLDB(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.driverName(), cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	if err = configurePool(ctx, db, cfg); err != nil {
		return nil, err
	}

	return db, nil
}

// configurePool applies the pool settings and tests the connection.
// SQLite allows a single writer, so its pool is limited to one connection.
func configurePool(ctx context.Context, db pooled, cfg Config) error {
	maxOpen := cfg.MaxOpenConnections
	if cfg.Dialect == sqlengine.DialectSQLite {
		maxOpen = 1
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(min(cfg.MaxIdleConnections, maxOpen))
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		_ = db.Close()
		return errors.Join(ErrOpeningDatabaseFailed, pingErr)
	}

	return nil
}
