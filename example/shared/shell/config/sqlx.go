package config

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

// OpenSQLX creates a configured *sqlx.DB and pings it.
func OpenSQLX(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.Open(cfg.driverName(), cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	if err = configurePool(ctx, db, cfg); err != nil {
		return nil, err
	}

	return db, nil
}
