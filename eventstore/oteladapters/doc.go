// Package oteladapters provides OpenTelemetry implementations of the eventstore observability interfaces:
// MetricsCollector, TracingCollector, and slog loggers bridged to the OpenTelemetry log pipeline.
//
// All adapters take their instrumentation scope from the caller's providers, so setting up exporters
// stays the application's job.
package oteladapters
