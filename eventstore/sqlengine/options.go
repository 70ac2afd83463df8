package sqlengine

import (
	"time"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
)

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithTableName sets the table name for the EventStore.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithDialect selects the SQL dialect, DialectPostgres or DialectSQLite.
func WithDialect(dialect string) Option {
	return func(es *EventStore) error {
		switch dialect {
		case DialectPostgres, DialectSQLite:
			es.dialect = dialect
			return nil

		default:
			return eventstore.ErrUnsupportedDialect
		}
	}
}

// WithClock replaces the clock that assigns created_utc to appended events.
// Mostly useful in tests that need reproducible timestamps.
func WithClock(clock func() time.Time) Option {
	return func(es *EventStore) error {
		if clock != nil {
			es.clock = clock
		}

		return nil
	}
}

// WithLogger sets the logger for the EventStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Event counts, durations, concurrency conflicts (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the EventStore.
// It receives read/append durations, event counts, concurrency conflicts, and database errors.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metricsCollector = collector
		return nil
	}
}
