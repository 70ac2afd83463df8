package eventstore

import "context"

// DBQuerier is the parameterized query execution the core depends on.
// It is implemented by connections and by transactions, so every store, lookup and projection
// operation runs unchanged inside or outside a transaction.
type DBQuerier interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}

// DBConn is one connection taken exclusively from a pool until it is released.
type DBConn interface {
	DBQuerier
	BeginTx(ctx context.Context) (DBTx, error)
	Release() error
}

// DBTx is an open transaction on a DBConn.
type DBTx interface {
	DBQuerier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// ConnProvider hands out connections, typically backed by a connection pool.
type ConnProvider interface {
	Acquire(ctx context.Context) (DBConn, error)
}
