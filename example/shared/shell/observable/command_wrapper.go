package observable

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/cqrs"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
)

// ErrNilHandler is returned when a wrapper is created around a nil handler.
var ErrNilHandler = errors.New("handler must not be nil")

// CommandWrapper instruments any command handler with logging, metrics and tracing.
// Results and errors of the wrapped handler pass through unchanged.
type CommandWrapper[C cqrs.Command, R any] struct {
	coreHandler      cqrs.CommandHandler[C, R]
	commandType      string
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	logger           shell.Logger
}

// NewCommandWrapper creates a new observable wrapper around the core command handler.
func NewCommandWrapper[C cqrs.Command, R any](
	coreHandler cqrs.CommandHandler[C, R],
	opts ...CommandOption[C, R],
) (*CommandWrapper[C, R], error) {

	if coreHandler == nil {
		return nil, ErrNilHandler
	}

	// Extract command type from a zero-value instance
	var zeroCommand C

	wrapper := &CommandWrapper[C, R]{
		coreHandler: coreHandler,
		commandType: zeroCommand.CommandType(),
	}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// Handle delegates to the wrapped handler and records its outcome.
func (w *CommandWrapper[C, R]) Handle(ctx context.Context, command C) (R, error) {
	commandStart := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, w.tracingCollector, w.commandType)
	shell.LogCommandStart(w.logger, w.commandType)

	result, err := w.coreHandler.Handle(ctx, command)

	duration := time.Since(commandStart)
	shell.FinishSpan(w.tracingCollector, span, duration, err)
	shell.RecordCommandMetrics(ctx, w.metricsCollector, w.commandType, shell.StatusOf(err), duration)
	shell.LogCommandOutcome(w.logger, w.commandType, duration, err)

	return result, err
}

// CommandOption defines a functional option for configuring CommandWrapper.
type CommandOption[C cqrs.Command, R any] func(*CommandWrapper[C, R]) error

// WithCommandMetrics sets the metrics collector for the CommandWrapper.
func WithCommandMetrics[C cqrs.Command, R any](collector shell.MetricsCollector) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.metricsCollector = collector
		return nil
	}
}

// WithCommandLogging sets the logger for the CommandWrapper.
func WithCommandLogging[C cqrs.Command, R any](logger shell.Logger) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.logger = logger
		return nil
	}
}

// WithCommandTracing sets the tracing collector for the CommandWrapper.
func WithCommandTracing[C cqrs.Command, R any](collector shell.TracingCollector) CommandOption[C, R] {
	return func(w *CommandWrapper[C, R]) error {
		w.tracingCollector = collector
		return nil
	}
}
