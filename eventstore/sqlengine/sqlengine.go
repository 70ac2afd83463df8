package sqlengine

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the postgres goqu dialect
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // registers the sqlite3 goqu dialect
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
)

// Supported SQL dialects, named like the goqu dialects they select.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

const (
	defaultEventTableName        = "events"
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgIterateRowsFailed      = "failed to iterate database rows"
	logMsgDBExecFailed           = "database execution failed during event append"
	logMsgRowsAffectedFailed     = "failed to get rows affected count"
	logMsgLockAggregateFailed    = "failed to lock the aggregate stream"
	logMsgEventsRead             = "events read"
	logMsgEventAppended          = "event appended"
	logMsgConcurrencyConflict    = "concurrency conflict detected"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "eventstore operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrAggregateID           = "aggregate_id"
	logAttrEventType             = "event_type"
	logAttrEventCount            = "event_count"
	logAttrDurationMS            = "duration_ms"
	logAttrExpectedVersion       = "expected_version"
	logAttrRowsAffected          = "rows_affected"
	logActionRead                = "read"
	logActionAppend              = "append"
	colID                        = "id"
	colAggregateID               = "aggregate_id"
	colEventType                 = "event_type"
	colEventData                 = "event_data"
	colCreatedUTC                = "created_utc"
	cteContext                   = "context"
	aliasEventCount              = "event_count"
	castText                     = "?::text"
	castTimestamp                = "?::timestamp with time zone"
	castJsonb                    = "?::jsonb"
	placeholderPlain             = "?"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
	queryDuration     = time.Duration
)

// EventStore appends and reads per-aggregate event streams in one SQL table.
// It is a value type without connection state, safe for concurrent use.
type EventStore struct {
	eventTableName   string
	dialect          string
	clock            func() time.Time
	logger           eventstore.Logger
	metricsCollector eventstore.MetricsCollector
}

// NewEventStore creates a new EventStore with optional configuration.
// Defaults: table "events", Postgres dialect, time.Now as clock, no logging, no metrics.
func NewEventStore(options ...Option) (EventStore, error) {
	es := EventStore{
		eventTableName: defaultEventTableName,
		dialect:        DialectPostgres,
		clock:          time.Now,
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return EventStore{}, err
		}
	}

	return es, nil
}

// TableName returns the configured event table name.
func (es EventStore) TableName() string {
	return es.eventTableName
}

// Dialect returns the configured SQL dialect.
func (es EventStore) Dialect() string {
	return es.dialect
}

// ReadOrdered returns all events of one aggregate ordered by (created_utc, id) ascending.
// An unknown aggregate id yields an empty slice, not an error.
func (es EventStore) ReadOrdered(
	ctx context.Context,
	q eventstore.DBQuerier,
	aggregateID string,
) (eventstore.StoredEvents, error) {

	empty := eventstore.StoredEvents{}

	if aggregateID == "" {
		return empty, eventstore.ErrEmptyAggregateID
	}

	sqlQuery, args, buildQueryErr := es.buildSelectQuery(aggregateID)
	if buildQueryErr != nil {
		es.logError(logMsgBuildSelectQueryFailed, buildQueryErr, logAttrAggregateID, aggregateID)
		return empty, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := q.Query(ctx, sqlQuery, args...)
	if queryErr != nil {
		duration := time.Since(start)
		es.logQueryWithDuration(sqlQuery, logActionRead, duration)
		es.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		es.recordErrorMetrics(ctx, logActionRead, errorTypeQuery)

		return empty, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer es.closeRows(rows)

	events, scanErr := es.scanRows(rows)
	duration := time.Since(start)
	es.logQueryWithDuration(sqlQuery, logActionRead, duration)

	if scanErr != nil {
		es.recordErrorMetrics(ctx, logActionRead, errorTypeScan)
		return empty, scanErr
	}

	es.logOperation(
		logMsgEventsRead,
		logAttrAggregateID, aggregateID,
		logAttrEventCount, len(events),
		logAttrDurationMS, toMilliseconds(duration),
	)
	es.recordDurationMetrics(ctx, metricReadDuration, duration, logActionRead, statusSuccess)
	es.recordValueMetrics(ctx, metricEventsRead, float64(len(events)), logActionRead, statusSuccess)

	return events, nil
}

// Append writes one immutable event row for aggregateID.
// The timestamp comes from the store clock (UTC, microsecond precision), the row id from the database.
// No version check is done, concurrent appends for the same aggregate interleave in store order.
func (es EventStore) Append(
	ctx context.Context,
	q eventstore.DBQuerier,
	aggregateID string,
	eventType string,
	payloadJSON []byte,
) error {

	if err := validateAppendInput(aggregateID, eventType, payloadJSON); err != nil {
		return err
	}

	createdUTC := eventstore.ToCreatedUTC(es.clock())

	sqlQuery, args, buildQueryErr := es.buildInsertQuery(aggregateID, eventType, payloadJSON, createdUTC)
	if buildQueryErr != nil {
		es.logError(logMsgBuildInsertQueryFailed, buildQueryErr, logAttrEventType, eventType)
		return buildQueryErr
	}

	_, duration, execErr := es.executeAppendQuery(ctx, q, sqlQuery, args)
	if execErr != nil {
		return execErr
	}

	es.logOperation(
		logMsgEventAppended,
		logAttrAggregateID, aggregateID,
		logAttrEventType, eventType,
		logAttrDurationMS, toMilliseconds(duration),
	)
	es.recordDurationMetrics(ctx, metricAppendDuration, duration, logActionAppend, statusSuccess)
	es.recordValueMetrics(ctx, metricEventsAppended, 1, logActionAppend, statusSuccess)

	return nil
}

// AppendAtVersion writes one event row only if the aggregate currently has exactly expectedVersion events.
// On Postgres a transaction-scoped advisory lock on aggregateID is taken first, so version-checked appends
// to one aggregate are serialized until the surrounding transaction ends. SQLite has a single writer.
// q must be a transaction for the lock to outlive this call.
// If the stream moved on in the meantime, nothing is written and eventstore.ErrConcurrencyConflict is returned.
func (es EventStore) AppendAtVersion(
	ctx context.Context,
	q eventstore.DBQuerier,
	aggregateID string,
	expectedVersion uint,
	eventType string,
	payloadJSON []byte,
) error {

	if err := validateAppendInput(aggregateID, eventType, payloadJSON); err != nil {
		return err
	}

	createdUTC := eventstore.ToCreatedUTC(es.clock())

	sqlQuery, args, buildQueryErr := es.buildConditionalInsertQuery(aggregateID, expectedVersion, eventType, payloadJSON, createdUTC)
	if buildQueryErr != nil {
		es.logError(logMsgBuildInsertQueryFailed, buildQueryErr, logAttrEventType, eventType)
		return buildQueryErr
	}

	if lockErr := es.lockAggregateStream(ctx, q, aggregateID); lockErr != nil {
		return lockErr
	}

	rowsAffected, duration, execErr := es.executeAppendQuery(ctx, q, sqlQuery, args)
	if execErr != nil {
		return execErr
	}

	if rowsAffected < 1 {
		es.logOperation(
			logMsgConcurrencyConflict,
			logAttrAggregateID, aggregateID,
			logAttrExpectedVersion, expectedVersion,
			logAttrRowsAffected, rowsAffected,
		)
		es.recordConcurrencyConflictMetrics(ctx, logActionAppend)

		return eventstore.ErrConcurrencyConflict
	}

	es.logOperation(
		logMsgEventAppended,
		logAttrAggregateID, aggregateID,
		logAttrEventType, eventType,
		logAttrExpectedVersion, expectedVersion,
		logAttrDurationMS, toMilliseconds(duration),
	)
	es.recordDurationMetrics(ctx, metricAppendDuration, duration, logActionAppend, statusSuccess)
	es.recordValueMetrics(ctx, metricEventsAppended, 1, logActionAppend, statusSuccess)

	return nil
}

func validateAppendInput(aggregateID string, eventType string, payloadJSON []byte) error {
	if aggregateID == "" {
		return eventstore.ErrEmptyAggregateID
	}

	if eventType == "" {
		return eventstore.ErrEmptyEventType
	}

	if !jsoniter.ConfigFastest.Valid(payloadJSON) {
		return eventstore.ErrInvalidPayloadJSON
	}

	return nil
}

// lockAggregateStream takes a Postgres advisory lock on aggregateID that is held until the surrounding
// transaction ends. It is a no-op for SQLite.
func (es EventStore) lockAggregateStream(ctx context.Context, q eventstore.DBQuerier, aggregateID string) error {
	if es.dialect != DialectPostgres {
		return nil
	}

	sqlQuery, args, buildQueryErr := es.buildAdvisoryLockQuery(aggregateID)
	if buildQueryErr != nil {
		es.logError(logMsgBuildInsertQueryFailed, buildQueryErr, logAttrAggregateID, aggregateID)
		return buildQueryErr
	}

	start := time.Now()
	_, execErr := q.Exec(ctx, sqlQuery, args...)
	es.logQueryWithDuration(sqlQuery, logActionAppend, time.Since(start))

	if execErr != nil {
		es.logError(logMsgLockAggregateFailed, execErr, logAttrAggregateID, aggregateID)
		es.recordErrorMetrics(ctx, logActionAppend, errorTypeLock)

		return errors.Join(eventstore.ErrLockingAggregateFailed, execErr)
	}

	return nil
}

// executeAppendQuery executes an append statement and returns rows affected and duration.
func (es EventStore) executeAppendQuery(
	ctx context.Context,
	q eventstore.DBQuerier,
	sqlQuery string,
	args []any,
) (rowsAffectedInt64, queryDuration, error) {

	start := time.Now()
	result, execErr := q.Exec(ctx, sqlQuery, args...)
	duration := time.Since(start)
	es.logQueryWithDuration(sqlQuery, logActionAppend, duration)

	if execErr != nil {
		es.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		es.recordErrorMetrics(ctx, logActionAppend, errorTypeExec)

		return 0, duration, errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		es.logError(logMsgRowsAffectedFailed, rowsAffectedErr)
		es.recordErrorMetrics(ctx, logActionAppend, errorTypeRowsAffected)

		return 0, duration, errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, duration, nil
}

// scanRows converts database rows to stored events.
func (es EventStore) scanRows(rows eventstore.DBRows) (eventstore.StoredEvents, error) {
	events := make(eventstore.StoredEvents, 0)

	for rows.Next() {
		var event eventstore.StoredEvent
		var createdUTC time.Time

		rowScanErr := rows.Scan(&event.RowID, &event.AggregateID, &event.EventType, &event.PayloadJSON, &createdUTC)
		if rowScanErr != nil {
			es.logError(logMsgScanRowFailed, rowScanErr)
			return eventstore.StoredEvents{}, errors.Join(eventstore.ErrScanningDBRowFailed, rowScanErr)
		}

		event.CreatedUTC = eventstore.ToCreatedUTC(createdUTC)
		events = append(events, event)
	}

	if iterErr := rows.Err(); iterErr != nil {
		es.logError(logMsgIterateRowsFailed, iterErr)
		return eventstore.StoredEvents{}, errors.Join(eventstore.ErrQueryingEventsFailed, iterErr)
	}

	return events, nil
}

// closeRows closes database rows and logs any errors.
func (es EventStore) closeRows(rows eventstore.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if es.logger != nil {
			es.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

func (es EventStore) builder() goqu.DialectWrapper {
	return goqu.Dialect(es.dialect)
}

func (es EventStore) buildSelectQuery(aggregateID string) (sqlQueryString, []any, error) {
	selectStmt := es.builder().
		From(es.eventTableName).
		Prepared(true).
		Select(colID, colAggregateID, colEventType, colEventData, colCreatedUTC).
		Where(goqu.C(colAggregateID).Eq(aggregateID)).
		Order(goqu.C(colCreatedUTC).Asc(), goqu.C(colID).Asc())

	sqlQuery, args, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

func (es EventStore) buildInsertQuery(
	aggregateID string,
	eventType string,
	payloadJSON []byte,
	createdUTC time.Time,
) (sqlQueryString, []any, error) {

	insertStmt := es.builder().
		Insert(es.eventTableName).
		Prepared(true).
		Cols(colAggregateID, colEventType, colEventData, colCreatedUTC).
		Vals(goqu.Vals{aggregateID, eventType, string(payloadJSON), createdUTC})

	sqlQuery, args, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

func (es EventStore) buildConditionalInsertQuery(
	aggregateID string,
	expectedVersion uint,
	eventType string,
	payloadJSON []byte,
	createdUTC time.Time,
) (sqlQueryString, []any, error) {

	builder := es.builder()

	// Define the subquery for the CTE
	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.COUNT(goqu.Star()).As(aliasEventCount)).
		Where(goqu.C(colAggregateID).Eq(aggregateID))

	// Define the SELECT for the INSERT
	selectStmt := builder.
		From(cteContext).
		Select(
			es.typedValue(castText, aggregateID),
			es.typedValue(castText, eventType),
			es.typedValue(castJsonb, string(payloadJSON)),
			es.typedValue(castTimestamp, createdUTC),
		).
		Where(goqu.C(aliasEventCount).Eq(int64(expectedVersion))) //nolint:gosec // versions never exceed int64

	// Finalize the full INSERT query
	insertStmt := builder.
		Insert(es.eventTableName).
		Prepared(true).
		Cols(colAggregateID, colEventType, colEventData, colCreatedUTC).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, args, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

func (es EventStore) buildAdvisoryLockQuery(aggregateID string) (sqlQueryString, []any, error) {
	lockStmt := es.builder().
		Select(goqu.Func("pg_advisory_xact_lock", goqu.Func("hashtext", goqu.L(castText, aggregateID)))).
		Prepared(true)

	sqlQuery, args, toSQLErr := lockStmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

// typedValue renders a bound value inside INSERT ... SELECT.
// Postgres can not infer parameter types there, SQLite needs no cast.
func (es EventStore) typedValue(cast string, value any) goqu.Expression {
	if es.dialect == DialectPostgres {
		return goqu.L(cast, value)
	}

	return goqu.L(placeholderPlain, value)
}
