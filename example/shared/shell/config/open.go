package config

import (
	"context"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/adapters"
)

// Database is an opened database with the ConnProvider for its adapter.
type Database struct {
	Provider eventstore.ConnProvider
	Dialect  string
	Adapter  string
	close    func()
}

// Close closes the underlying pool.
func (d Database) Close() {
	if d.close != nil {
		d.close()
	}
}

// Open opens the database described by cfg with the configured adapter.
func Open(ctx context.Context, cfg Config) (Database, error) {
	if err := cfg.Validate(); err != nil {
		return Database{}, err
	}

	database := Database{Dialect: cfg.Dialect, Adapter: cfg.Adapter}

	switch cfg.Adapter {
	case AdapterPGXPool:
		pool, err := OpenPGXPool(ctx, cfg)
		if err != nil {
			return Database{}, err
		}

		provider, err := adapters.NewPGXPoolProvider(pool)
		if err != nil {
			pool.Close()
			return Database{}, err
		}

		database.Provider = provider
		database.close = pool.Close

	case AdapterSQLDB:
		db, err := OpenSQLDB(ctx, cfg)
		if err != nil {
			return Database{}, err
		}

		provider, err := adapters.NewSQLDBProvider(db)
		if err != nil {
			_ = db.Close()
			return Database{}, err
		}

		database.Provider = provider
		database.close = func() { _ = db.Close() }

	default:
		db, err := OpenSQLX(ctx, cfg)
		if err != nil {
			return Database{}, err
		}

		provider, err := adapters.NewSQLXProvider(db)
		if err != nil {
			_ = db.Close()
			return Database{}, err
		}

		database.Provider = provider
		database.close = func() { _ = db.Close() }
	}

	return database, nil
}
