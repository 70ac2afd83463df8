package cqrs

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3

	metricRetries           = "commandhandler_retries_total"
	metricRetryDelay        = "commandhandler_retry_delay_seconds"
	metricMaxRetriesReached = "commandhandler_max_retries_reached_total"
	labelCommandType        = "command_type"
	labelAttemptNumber      = "attempt_number"
	labelErrorType          = "error_type"
	labelFinalErrorType     = "final_error_type"

	errorTypeNone                    = "none"
	errorTypeConcurrencyConflict     = "concurrency_conflict"
	errorTypeContextCanceled         = "context_canceled"
	errorTypeContextDeadlineExceeded = "context_deadline_exceeded"
	errorTypeOther                   = "other"
)

// RetryableFunc represents a function that can be retried.
// Each attempt must re-read the state it decides on, typically by running a whole ExecuteCommand.
type RetryableFunc func(ctx context.Context) error

// RetryMetadata describes how a retried call went.
type RetryMetadata struct {
	Attempts      int
	TotalDelay    time.Duration
	LastErrorType string
}

type retryConfig struct {
	maxAttempts      int
	baseDelay        time.Duration
	jitterFactor     float64
	metricsCollector eventstore.MetricsCollector
	commandType      string
}

// RetryOption configures retry behavior using the functional options pattern.
type RetryOption func(*retryConfig) error

// RetryOnConcurrencyConflict runs fn and retries it with exponential backoff while it fails with
// eventstore.ErrConcurrencyConflict. Every other error fails fast.
//
// Retry schedule (default): 0 ms, 10 ms, 20 ms, 40 ms, 80 ms, 160 ms plus up to 30% jitter.
func RetryOnConcurrencyConflict(
	ctx context.Context,
	fn RetryableFunc,
	options ...RetryOption,
) (RetryMetadata, error) {

	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return RetryMetadata{}, err
		}
	}

	meta := RetryMetadata{LastErrorType: errorTypeNone}
	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			// Exponential backoff: baseDelay * 2^(attempt-1)
			delay := config.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec // math/rand is sufficient for jitter
			backoffDelay := delay + time.Duration(jitter)

			config.recordRetryDelay(ctx, attempt, backoffDelay)

			select {
			case <-time.After(backoffDelay):
				meta.TotalDelay += backoffDelay
			case <-ctx.Done():
				meta.LastErrorType = errorTypeOf(ctx.Err())
				return meta, ctx.Err()
			}
		}

		meta.Attempts++

		lastErr = fn(ctx)
		meta.LastErrorType = errorTypeOf(lastErr)

		if lastErr == nil {
			return meta, nil
		}

		if !errors.Is(lastErr, eventstore.ErrConcurrencyConflict) {
			return meta, lastErr
		}

		if attempt < config.maxAttempts-1 {
			config.recordRetryAttempt(ctx, attempt+1, lastErr)
		}
	}

	config.recordMaxRetriesReached(ctx, lastErr)

	return meta, lastErr
}

// WithMaxAttempts sets the maximum number of attempts, the first one included.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
// Actual delays: baseDelay, baseDelay*2, baseDelay*4, baseDelay*8, etc.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the jitter, as a fraction of the backoff delay, from 0.0 to 1.0.
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}

// WithMetrics sets the metrics collector for retry instrumentation, labeled with commandType.
func WithMetrics(collector eventstore.MetricsCollector, commandType string) RetryOption {
	return func(config *retryConfig) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		if commandType == "" {
			return ErrEmptyCommandType
		}

		config.metricsCollector = collector
		config.commandType = commandType

		return nil
	}
}

func (c *retryConfig) recordRetryDelay(ctx context.Context, attempt int, delay time.Duration) {
	eventstore.RecordDuration(ctx, c.metricsCollector, metricRetryDelay, delay, map[string]string{
		labelCommandType:   c.commandType,
		labelAttemptNumber: strconv.Itoa(attempt),
	})
}

func (c *retryConfig) recordRetryAttempt(ctx context.Context, attemptNumber int, err error) {
	eventstore.IncrementCounter(ctx, c.metricsCollector, metricRetries, map[string]string{
		labelCommandType:   c.commandType,
		labelAttemptNumber: strconv.Itoa(attemptNumber),
		labelErrorType:     errorTypeOf(err),
	})
}

func (c *retryConfig) recordMaxRetriesReached(ctx context.Context, err error) {
	eventstore.IncrementCounter(ctx, c.metricsCollector, metricMaxRetriesReached, map[string]string{
		labelCommandType:    c.commandType,
		labelFinalErrorType: errorTypeOf(err),
	})
}

// errorTypeOf maps an error to a metrics label.
func errorTypeOf(err error) string {
	switch {
	case err == nil:
		return errorTypeNone
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return errorTypeConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return errorTypeContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return errorTypeContextDeadlineExceeded
	default:
		return errorTypeOther
	}
}
