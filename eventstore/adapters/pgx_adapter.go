package adapters

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
)

// PGXPoolProvider implements eventstore.ConnProvider for pgxpool.Pool.
type PGXPoolProvider struct {
	pool *pgxpool.Pool
}

// NewPGXPoolProvider creates a new provider backed by a pgx pool.
func NewPGXPoolProvider(pool *pgxpool.Pool) (*PGXPoolProvider, error) {
	if pool == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return &PGXPoolProvider{pool: pool}, nil
}

// Acquire takes a connection from the pool.
func (p *PGXPoolProvider) Acquire(ctx context.Context) (eventstore.DBConn, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	return &pgxConn{conn: conn}, nil
}

// pgxConn wraps a pooled pgx connection to implement the eventstore.DBConn interface.
type pgxConn struct {
	conn     *pgxpool.Conn
	released bool
}

func (c *pgxConn) Query(ctx context.Context, query string, args ...any) (eventstore.DBRows, error) {
	rows, err := c.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &pgxRows{rows: rows}, nil
}

func (c *pgxConn) Exec(ctx context.Context, query string, args ...any) (eventstore.DBResult, error) {
	tag, err := c.conn.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &pgxResult{tag: tag}, nil
}

func (c *pgxConn) BeginTx(ctx context.Context) (eventstore.DBTx, error) {
	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &pgxTx{tx: tx}, nil
}

// Release returns the connection to the pool.
func (c *pgxConn) Release() error {
	if c.released {
		return nil
	}

	c.conn.Release()
	c.released = true

	return nil
}

// pgxTx wraps pgx.Tx to implement the eventstore.DBTx interface.
type pgxTx struct {
	tx pgx.Tx
}

func (t *pgxTx) Query(ctx context.Context, query string, args ...any) (eventstore.DBRows, error) {
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &pgxRows{rows: rows}, nil
}

func (t *pgxTx) Exec(ctx context.Context, query string, args ...any) (eventstore.DBResult, error) {
	tag, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &pgxResult{tag: tag}, nil
}

func (t *pgxTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *pgxTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// pgxRows wraps pgx.Rows to implement the eventstore.DBRows interface.
type pgxRows struct {
	rows pgx.Rows
}

// Next advances to the next row.
func (p *pgxRows) Next() bool {
	return p.rows.Next()
}

// Scan copies row values into provided destinations.
func (p *pgxRows) Scan(dest ...any) error {
	return p.rows.Scan(dest...)
}

// Err returns the error, if any, that was encountered during iteration.
func (p *pgxRows) Err() error {
	return p.rows.Err()
}

// Close closes the rows iterator.
func (p *pgxRows) Close() error {
	p.rows.Close()
	return nil
}

// pgxResult wraps pgconn.CommandTag to implement the eventstore.DBResult interface.
type pgxResult struct {
	tag pgconn.CommandTag
}

// RowsAffected returns the number of rows affected by the command.
func (p *pgxResult) RowsAffected() (int64, error) {
	return p.tag.RowsAffected(), nil
}
