package oteladapters

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"
)

// NewBridgeLogger returns a *slog.Logger that emits every record to provider through the otelslog bridge.
// Records logged with a context carrying a span are correlated with it.
// The result satisfies eventstore.Logger.
func NewBridgeLogger(name string, provider log.LoggerProvider) *slog.Logger {
	return otelslog.NewLogger(name, otelslog.WithLoggerProvider(provider))
}

// NewTeeLogger returns a *slog.Logger that writes to local and to provider through the otelslog bridge.
// Local output keeps local's level; the bridge receives every level the provider enables.
func NewTeeLogger(name string, provider log.LoggerProvider, local slog.Handler) *slog.Logger {
	bridge := otelslog.NewHandler(name, otelslog.WithLoggerProvider(provider))

	return slog.New(teeHandler{handlers: []slog.Handler{local, bridge}})
}

type teeHandler struct {
	handlers []slog.Handler
}

func (h teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (h teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error

	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}

		if err := handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (h teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(handler slog.Handler) slog.Handler { return handler.WithAttrs(attrs) })
}

func (h teeHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(handler slog.Handler) slog.Handler { return handler.WithGroup(name) })
}

func (h teeHandler) derive(with func(slog.Handler) slog.Handler) slog.Handler {
	derived := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		derived[i] = with(handler)
	}

	return teeHandler{handlers: derived}
}
