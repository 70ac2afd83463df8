package projection

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the postgres goqu dialect
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // registers the sqlite3 goqu dialect

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
)

const (
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite3"

	logMsgProjectionUpdated  = "projection updated"
	logMsgProjectionInserted = "projection inserted"
	logMsgUpsertFailed       = "projection upsert failed"
	logAttrTable             = "table"
	logAttrKey               = "key"
	logAttrError             = "error"
)

// Projection errors.
var (
	ErrEmptyProjectionTable     = errors.New("projection table name must not be empty")
	ErrEmptyKeyColumn           = errors.New("projection key column must not be empty")
	ErrEmptyRow                 = errors.New("projection row must not be empty")
	ErrUpdatingProjectionFailed = errors.New("updating the projection failed")
)

// Row maps column names to values. The key column is set by the Upserter.
type Row = goqu.Record

// Upserter writes one row per key into a projection table.
//
// It runs an UPDATE by key and falls back to an INSERT when no row matched, which is portable across
// Postgres and SQLite and idempotent for identical input. Run it inside the command's transaction.
type Upserter struct {
	table     string
	keyColumn string
	dialect   string
	logger    eventstore.Logger
}

// UpserterOption defines a functional option for configuring Upserter.
type UpserterOption func(*Upserter) error

// WithDialect selects the SQL dialect, "postgres" (default) or "sqlite3".
func WithDialect(dialect string) UpserterOption {
	return func(u *Upserter) error {
		switch dialect {
		case dialectPostgres, dialectSQLite:
			u.dialect = dialect
			return nil

		default:
			return eventstore.ErrUnsupportedDialect
		}
	}
}

// WithLogger sets the logger for the Upserter.
func WithLogger(logger eventstore.Logger) UpserterOption {
	return func(u *Upserter) error {
		u.logger = logger
		return nil
	}
}

// NewUpserter creates an Upserter for table keyed by keyColumn.
func NewUpserter(table string, keyColumn string, options ...UpserterOption) (Upserter, error) {
	if table == "" {
		return Upserter{}, ErrEmptyProjectionTable
	}

	if keyColumn == "" {
		return Upserter{}, ErrEmptyKeyColumn
	}

	u := Upserter{table: table, keyColumn: keyColumn, dialect: dialectPostgres}

	for _, option := range options {
		if err := option(&u); err != nil {
			return Upserter{}, err
		}
	}

	return u, nil
}

// Table returns the projection table name.
func (u Upserter) Table() string {
	return u.table
}

// Upsert writes row under key, replacing the columns of an existing row.
func (u Upserter) Upsert(ctx context.Context, q eventstore.DBQuerier, key any, row Row) error {
	if len(row) == 0 {
		return ErrEmptyRow
	}

	values := maps.Clone(row)
	delete(values, u.keyColumn)

	var present bool
	var err error

	if len(values) == 0 {
		present, err = u.exists(ctx, q, key)
	} else {
		present, err = u.update(ctx, q, key, values)
	}

	if err != nil || present {
		return err
	}

	values[u.keyColumn] = key

	return u.insert(ctx, q, key, values)
}

// update reports whether a row with key existed and was updated.
func (u Upserter) update(ctx context.Context, q eventstore.DBQuerier, key any, values Row) (bool, error) {
	updateSQL, updateArgs, err := goqu.Dialect(u.dialect).
		Update(u.table).
		Prepared(true).
		Set(values).
		Where(goqu.C(u.keyColumn).Eq(key)).
		ToSQL()
	if err != nil {
		return false, errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	result, err := q.Exec(ctx, updateSQL, updateArgs...)
	if err != nil {
		return false, u.fail(key, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, u.fail(key, errors.Join(eventstore.ErrGettingRowsAffectedFailed, err))
	}

	if rowsAffected == 0 {
		return false, nil
	}

	if u.logger != nil {
		u.logger.Debug(logMsgProjectionUpdated, logAttrTable, u.table, logAttrKey, fmt.Sprint(key))
	}

	return true, nil
}

// exists is needed for key-only rows, which have no columns to UPDATE.
func (u Upserter) exists(ctx context.Context, q eventstore.DBQuerier, key any) (bool, error) {
	selectSQL, selectArgs, err := goqu.Dialect(u.dialect).
		From(u.table).
		Prepared(true).
		Select(goqu.C(u.keyColumn)).
		Where(goqu.C(u.keyColumn).Eq(key)).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	rows, err := q.Query(ctx, selectSQL, selectArgs...)
	if err != nil {
		return false, u.fail(key, err)
	}
	defer func() { _ = rows.Close() }()

	found := rows.Next()
	if err = rows.Err(); err != nil {
		return false, u.fail(key, err)
	}

	return found, nil
}

func (u Upserter) insert(ctx context.Context, q eventstore.DBQuerier, key any, values Row) error {
	insertSQL, insertArgs, err := goqu.Dialect(u.dialect).
		Insert(u.table).
		Prepared(true).
		Rows(values).
		ToSQL()
	if err != nil {
		return errors.Join(eventstore.ErrBuildingQueryFailed, err)
	}

	if _, err = q.Exec(ctx, insertSQL, insertArgs...); err != nil {
		return u.fail(key, err)
	}

	if u.logger != nil {
		u.logger.Debug(logMsgProjectionInserted, logAttrTable, u.table, logAttrKey, fmt.Sprint(key))
	}

	return nil
}

func (u Upserter) fail(key any, err error) error {
	if u.logger != nil {
		u.logger.Error(logMsgUpsertFailed, logAttrTable, u.table, logAttrKey, fmt.Sprint(key), logAttrError, err.Error())
	}

	return errors.Join(ErrUpdatingProjectionFailed, err)
}
