package sqlengine

import (
	"context"
	"math"
	"time"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
)

const (
	metricReadDuration         = "eventstore_read_duration_seconds"
	metricAppendDuration       = "eventstore_append_duration_seconds"
	metricEventsRead           = "eventstore_events_read_total"
	metricEventsAppended       = "eventstore_events_appended_total"
	metricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	metricDatabaseErrors       = "eventstore_database_errors_total"
	labelOperation             = "operation"
	labelStatus                = "status"
	labelErrorType             = "error_type"
	labelConflictType          = "conflict_type"
	statusSuccess              = "success"
	statusError                = "error"
	conflictTypeConcurrency    = "concurrency"
	errorTypeQuery             = "query_failed"
	errorTypeScan              = "scan_failed"
	errorTypeExec              = "exec_failed"
	errorTypeRowsAffected      = "rows_affected_failed"
	errorTypeLock              = "lock_failed"
)

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (es EventStore) logQueryWithDuration(
	sqlQuery string,
	action string,
	duration time.Duration,
) {
	if es.logger != nil {
		es.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (es EventStore) logOperation(action string, args ...any) {
	if es.logger != nil {
		es.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (es EventStore) logError(message string, err error, args ...any) {
	if es.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		es.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func (es EventStore) recordErrorMetrics(ctx context.Context, operation, errorType string) {
	eventstore.IncrementCounter(ctx, es.metricsCollector, metricDatabaseErrors, map[string]string{
		labelOperation: operation,
		labelStatus:    statusError,
		labelErrorType: errorType,
	})
}

func (es EventStore) recordDurationMetrics(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	eventstore.RecordDuration(ctx, es.metricsCollector, metricName, duration, map[string]string{
		labelOperation: operation,
		labelStatus:    status,
	})
}

func (es EventStore) recordValueMetrics(
	ctx context.Context,
	metricName string,
	value float64,
	operation, status string,
) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		labelOperation: operation,
		labelStatus:    status,
	}

	// Use context-aware method if available
	if contextualCollector, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricName, value, labels)
	} else {
		es.metricsCollector.RecordValue(metricName, value, labels)
	}
}

func (es EventStore) recordConcurrencyConflictMetrics(ctx context.Context, operation string) {
	eventstore.IncrementCounter(ctx, es.metricsCollector, metricConcurrencyConflicts, map[string]string{
		labelOperation:    operation,
		labelConflictType: conflictTypeConcurrency,
	})
}
