package eventstore

import "errors"

// Configuration errors.
var (
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")
	ErrEmptyEventsTableName  = errors.New("events table name must not be empty")
	ErrUnsupportedDialect    = errors.New("unsupported sql dialect")
)

// Input validation errors of the event store.
var (
	ErrEmptyAggregateID   = errors.New("aggregate id must not be empty")
	ErrEmptyEventType     = errors.New("event type must not be empty")
	ErrInvalidPayloadJSON = errors.New("payload json is not valid")
)

// Storage errors (StorageError).
var (
	ErrBuildingQueryFailed       = errors.New("building query failed")
	ErrQueryingEventsFailed      = errors.New("querying events failed")
	ErrScanningDBRowFailed       = errors.New("scanning db row failed")
	ErrAppendingEventFailed      = errors.New("appending the event failed")
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")
	ErrLockingAggregateFailed    = errors.New("locking the aggregate stream failed")
)

// ErrConcurrencyConflict is returned by a version-checked append when the aggregate's event count
// differs from the expected version.
var ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

// Rehydration errors.
var (
	// ErrUnknownEventType signals a persisted event_type without a registered reducer.
	// It means the deployed reducer set is out of sync with the stored history: never retry it.
	ErrUnknownEventType      = errors.New("unknown event type")
	ErrDecodingPayloadFailed = errors.New("decoding event payload failed")
	ErrMixedAggregateStream  = errors.New("event stream contains events of another aggregate")
)

// ErrAggregateNotFound is returned where an absent aggregate cannot be expressed as a "found" flag.
var ErrAggregateNotFound = errors.New("aggregate not found")

// Transaction errors (TransactionError).
var (
	ErrAcquiringConnectionFailed    = errors.New("acquiring a connection failed")
	ErrReleasingConnectionFailed    = errors.New("releasing the connection failed")
	ErrBeginningTransactionFailed   = errors.New("beginning the transaction failed")
	ErrCommittingTransactionFailed  = errors.New("committing the transaction failed")
	ErrRollingBackTransactionFailed = errors.New("rolling back the transaction failed")
)
