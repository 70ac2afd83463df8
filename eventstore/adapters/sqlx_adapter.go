package adapters

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
)

// SQLXProvider implements eventstore.ConnProvider for sqlx.DB.
type SQLXProvider struct {
	db *sqlx.DB
}

// NewSQLXProvider creates a new provider backed by a sqlx.DB pool.
func NewSQLXProvider(db *sqlx.DB) (*SQLXProvider, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return &SQLXProvider{db: db}, nil
}

// Acquire reserves a single connection of the pool.
func (p *SQLXProvider) Acquire(ctx context.Context) (eventstore.DBConn, error) {
	conn, err := p.db.Connx(ctx)
	if err != nil {
		return nil, err
	}

	return &sqlxConn{conn: conn}, nil
}

type sqlxConn struct {
	conn     *sqlx.Conn
	released bool
}

// Query executes a query using the sqlx connection and returns the sqlx rows.
func (c *sqlxConn) Query(ctx context.Context, query string, args ...any) (eventstore.DBRows, error) {
	rows, err := c.conn.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// Exec executes a statement using the sqlx connection.
func (c *sqlxConn) Exec(ctx context.Context, query string, args ...any) (eventstore.DBResult, error) {
	return c.conn.ExecContext(ctx, query, args...)
}

func (c *sqlxConn) BeginTx(ctx context.Context) (eventstore.DBTx, error) {
	tx, err := c.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &sqlxTx{tx: tx}, nil
}

// Release returns the connection to the pool.
func (c *sqlxConn) Release() error {
	if c.released {
		return nil
	}

	c.released = true

	return c.conn.Close()
}

type sqlxTx struct {
	tx *sqlx.Tx
}

func (t *sqlxTx) Query(ctx context.Context, query string, args ...any) (eventstore.DBRows, error) {
	rows, err := t.tx.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (t *sqlxTx) Exec(ctx context.Context, query string, args ...any) (eventstore.DBResult, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *sqlxTx) Commit(_ context.Context) error {
	return t.tx.Commit()
}

func (t *sqlxTx) Rollback(_ context.Context) error {
	return t.tx.Rollback()
}
