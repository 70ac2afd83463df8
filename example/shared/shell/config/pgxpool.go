package config

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrOpeningDatabaseFailed is returned when a database handle cannot be opened or pinged.
var ErrOpeningDatabaseFailed = errors.New("opening database failed")

// PostgresPGXPoolConfig creates a pgxpool.Config from cfg.
func PostgresPGXPoolConfig(cfg Config) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	dbConfig.MaxConns = int32(cfg.MaxOpenConnections) //nolint:gosec
	dbConfig.MinConns = int32(cfg.MinConnections)     //nolint:gosec
	dbConfig.MaxConnLifetime = cfg.MaxConnLifetime
	dbConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	dbConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	return dbConfig, nil
}

// OpenPGXPool creates a pgxpool.Pool from cfg and pings it.
func OpenPGXPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	dbConfig, err := PostgresPGXPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, errors.Join(ErrOpeningDatabaseFailed, pingErr)
	}

	return pool, nil
}
