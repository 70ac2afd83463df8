package shell

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/cqrs"
)

const (
	// CommandHandlerDurationMetric tracks command handler execution duration.
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"

	// CommandHandlerCallsMetric tracks total command handler calls.
	CommandHandlerCallsMetric = "commandhandler_handle_calls_total"

	// CommandHandlerRejectedMetric tracks commands refused by a precondition check.
	CommandHandlerRejectedMetric = "commandhandler_rejected_operations_total"

	// CommandHandlerConcurrencyConflictMetric tracks commands that failed with a concurrency conflict.
	CommandHandlerConcurrencyConflictMetric = "commandhandler_concurrency_conflicts_total"

	// QueryHandlerDurationMetric tracks query handler execution duration.
	QueryHandlerDurationMetric = "queryhandler_handle_duration_seconds"

	// QueryHandlerCallsMetric tracks total query handler calls.
	QueryHandlerCallsMetric = "queryhandler_handle_calls_total"

	// StatusSuccess indicates successful completion.
	StatusSuccess = "success"

	// StatusError indicates a processing error.
	StatusError = "error"

	// StatusRejected indicates a violated precondition, nothing was written.
	StatusRejected = "rejected"

	// StatusCanceled indicates the context was canceled.
	StatusCanceled = "canceled"

	// StatusTimeout indicates the context deadline was exceeded.
	StatusTimeout = "timeout"

	// StatusConcurrencyConflict indicates an optimistic concurrency conflict.
	StatusConcurrencyConflict = "concurrency_conflict"

	// CommandSpanPrefix prefixes the span name of a command, e.g. "command.CreateBasket".
	CommandSpanPrefix = "command."

	// QuerySpanPrefix prefixes the span name of a query.
	QuerySpanPrefix = "query."

	// LogMsgCommandStarted is logged when command processing begins.
	LogMsgCommandStarted = "command handler started"

	// LogMsgCommandCompleted is logged when command processing succeeds.
	LogMsgCommandCompleted = "command handler completed"

	// LogMsgCommandFailed is logged when command processing fails.
	LogMsgCommandFailed = "command handler failed"

	// LogMsgQueryStarted is logged when query processing begins.
	LogMsgQueryStarted = "query handler started"

	// LogMsgQueryCompleted is logged when query processing succeeds.
	LogMsgQueryCompleted = "query handler completed"

	// LogMsgQueryFailed is logged when query processing fails.
	LogMsgQueryFailed = "query handler failed"

	// LogAttrCommandType identifies the command type in logs and metrics.
	LogAttrCommandType = "command_type"

	// LogAttrQueryType identifies the query type in logs and metrics.
	LogAttrQueryType = "query_type"

	// LogAttrStatus indicates the processing status.
	LogAttrStatus = "status"

	// LogAttrDurationMS indicates the processing duration in milliseconds.
	LogAttrDurationMS = "duration_ms"

	// LogAttrError contains error details.
	LogAttrError = "error"
)

// Logger is the logging interface used by handlers and wrappers.
type Logger = eventstore.Logger

// MetricsCollector is the metrics interface used by handlers and wrappers.
type MetricsCollector = eventstore.MetricsCollector

// TracingCollector is the tracing interface used by wrappers.
type TracingCollector = eventstore.TracingCollector

// StatusOf classifies the outcome of a handler call for logs and metrics.
func StatusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, cqrs.ErrValidationFailed):
		return StatusRejected
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return StatusConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return StatusCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	default:
		return StatusError
	}
}

// BuildCommandLabels creates standard metric labels for command handler operations.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildQueryLabels creates standard metric labels for query handler operations.
func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{
		LogAttrQueryType: queryType,
		LogAttrStatus:    status,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with precision.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// RecordCommandMetrics records duration and call count of one command, plus the outcome specific counters.
func RecordCommandMetrics(
	ctx context.Context,
	collector MetricsCollector,
	commandType string,
	status string,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	labels := BuildCommandLabels(commandType, status)
	eventstore.RecordDuration(ctx, collector, CommandHandlerDurationMetric, duration, labels)
	eventstore.IncrementCounter(ctx, collector, CommandHandlerCallsMetric, labels)

	switch status {
	case StatusRejected:
		eventstore.IncrementCounter(ctx, collector, CommandHandlerRejectedMetric, labels)
	case StatusConcurrencyConflict:
		eventstore.IncrementCounter(ctx, collector, CommandHandlerConcurrencyConflictMetric, labels)
	}
}

// RecordQueryMetrics records duration and call count of one query.
func RecordQueryMetrics(
	ctx context.Context,
	collector MetricsCollector,
	queryType string,
	status string,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	labels := BuildQueryLabels(queryType, status)
	eventstore.RecordDuration(ctx, collector, QueryHandlerDurationMetric, duration, labels)
	eventstore.IncrementCounter(ctx, collector, QueryHandlerCallsMetric, labels)
}

// StartCommandSpan starts the span of one command. A nil collector yields a nil span.
func StartCommandSpan(ctx context.Context, collector TracingCollector, commandType string) (context.Context, eventstore.SpanContext) {
	if collector == nil {
		return ctx, nil
	}

	return collector.StartSpan(ctx, CommandSpanPrefix+commandType, map[string]string{LogAttrCommandType: commandType})
}

// StartQuerySpan starts the span of one query. A nil collector yields a nil span.
func StartQuerySpan(ctx context.Context, collector TracingCollector, queryType string) (context.Context, eventstore.SpanContext) {
	if collector == nil {
		return ctx, nil
	}

	return collector.StartSpan(ctx, QuerySpanPrefix+queryType, map[string]string{LogAttrQueryType: queryType})
}

// FinishSpan ends span with the status of err and the duration in milliseconds.
func FinishSpan(collector TracingCollector, span eventstore.SpanContext, duration time.Duration, err error) {
	if collector == nil || span == nil {
		return
	}

	attrs := map[string]string{LogAttrDurationMS: strconv.FormatFloat(ToMilliseconds(duration), 'f', 3, 64)}
	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	collector.FinishSpan(span, StatusOf(err), attrs)
}

// LogCommandStart logs the beginning of command processing.
func LogCommandStart(logger Logger, commandType string) {
	if logger != nil {
		logger.Debug(LogMsgCommandStarted, LogAttrCommandType, commandType)
	}
}

// LogCommandOutcome logs a finished command: Info on success, Warn when rejected, Error otherwise.
func LogCommandOutcome(logger Logger, commandType string, duration time.Duration, err error) {
	if logger == nil {
		return
	}

	status := StatusOf(err)
	args := []any{
		LogAttrCommandType, commandType,
		LogAttrStatus, status,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	switch status {
	case StatusSuccess:
		logger.Info(LogMsgCommandCompleted, args...)
	case StatusRejected:
		logger.Warn(LogMsgCommandFailed, append(args, LogAttrError, err.Error())...)
	default:
		logger.Error(LogMsgCommandFailed, append(args, LogAttrError, err.Error())...)
	}
}

// LogQueryStart logs the beginning of query processing.
func LogQueryStart(logger Logger, queryType string) {
	if logger != nil {
		logger.Debug(LogMsgQueryStarted, LogAttrQueryType, queryType)
	}
}

// LogQueryOutcome logs a finished query.
func LogQueryOutcome(logger Logger, queryType string, duration time.Duration, err error) {
	if logger == nil {
		return
	}

	args := []any{
		LogAttrQueryType, queryType,
		LogAttrStatus, StatusOf(err),
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	if err != nil {
		logger.Error(LogMsgQueryFailed, append(args, LogAttrError, err.Error())...)
		return
	}

	logger.Info(LogMsgQueryCompleted, args...)
}
