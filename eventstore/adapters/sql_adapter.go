package adapters

import (
	"context"
	"database/sql"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
)

// SQLDBProvider implements eventstore.ConnProvider for sql.DB.
// It works with any database/sql driver, e.g. lib/pq or modernc.org/sqlite.
type SQLDBProvider struct {
	db *sql.DB
}

// NewSQLDBProvider creates a new provider backed by a sql.DB pool.
func NewSQLDBProvider(db *sql.DB) (*SQLDBProvider, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return &SQLDBProvider{db: db}, nil
}

// Acquire reserves a single connection of the pool.
func (p *SQLDBProvider) Acquire(ctx context.Context) (eventstore.DBConn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	return &sqlConn{conn: conn}, nil
}

type sqlConn struct {
	conn     *sql.Conn
	released bool
}

func (c *sqlConn) Query(ctx context.Context, query string, args ...any) (eventstore.DBRows, error) {
	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (c *sqlConn) Exec(ctx context.Context, query string, args ...any) (eventstore.DBResult, error) {
	return c.conn.ExecContext(ctx, query, args...)
}

func (c *sqlConn) BeginTx(ctx context.Context) (eventstore.DBTx, error) {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &sqlTx{tx: tx}, nil
}

// Release returns the connection to the pool.
func (c *sqlConn) Release() error {
	if c.released {
		return nil
	}

	c.released = true

	return c.conn.Close()
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Query(ctx context.Context, query string, args ...any) (eventstore.DBRows, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (t *sqlTx) Exec(ctx context.Context, query string, args ...any) (eventstore.DBResult, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *sqlTx) Commit(_ context.Context) error {
	return t.tx.Commit()
}

func (t *sqlTx) Rollback(_ context.Context) error {
	return t.tx.Rollback()
}
