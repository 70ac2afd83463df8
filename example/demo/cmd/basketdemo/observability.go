package main

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/log/global"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/oteladapters"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
)

const scopeName = "basketdemo"

type observability struct {
	logger   *slog.Logger
	metrics  shell.MetricsCollector
	tracing  shell.TracingCollector
	reader   *sdkmetric.ManualReader
	shutdown func(ctx context.Context) error
}

// newObservability logs to local only, unless enabled. Enabled, it also bridges logs to the global
// OpenTelemetry LoggerProvider, records metrics in memory and logs every finished span.
func newObservability(enabled bool, local slog.Handler) observability {
	if !enabled {
		return observability{
			logger:   slog.New(local),
			shutdown: func(context.Context) error { return nil },
		}
	}

	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spanLogExporter{logger: slog.New(local)}))

	return observability{
		logger:  oteladapters.NewTeeLogger(scopeName, global.GetLoggerProvider(), local),
		metrics: oteladapters.NewMetricsCollector(meterProvider.Meter(scopeName)),
		tracing: oteladapters.NewTracingCollector(tracerProvider.Tracer(scopeName)),
		reader:  reader,
		shutdown: func(ctx context.Context) error {
			return errors.Join(tracerProvider.Shutdown(ctx), meterProvider.Shutdown(ctx))
		},
	}
}

// report logs one line per recorded metric data point.
func (o observability) report(ctx context.Context) error {
	if o.reader == nil {
		return nil
	}

	var resourceMetrics metricdata.ResourceMetrics
	if err := o.reader.Collect(ctx, &resourceMetrics); err != nil {
		return err
	}

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					o.logger.Info("metric", "name", m.Name, "labels", encoded(dp.Attributes), "value", dp.Value)
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					o.logger.Info("metric", "name", m.Name, "labels", encoded(dp.Attributes),
						"count", dp.Count, "sum_seconds", dp.Sum)
				}
			case metricdata.Gauge[float64]:
				for _, dp := range data.DataPoints {
					o.logger.Info("metric", "name", m.Name, "labels", encoded(dp.Attributes), "value", dp.Value)
				}
			}
		}
	}

	return nil
}

func encoded(set attribute.Set) string {
	return set.Encoded(attribute.DefaultEncoder())
}

// spanLogExporter logs finished spans.
type spanLogExporter struct {
	logger *slog.Logger
}

func (e spanLogExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		e.logger.Info("span finished",
			"name", span.Name(),
			"trace_id", span.SpanContext().TraceID().String(),
			"status", span.Status().Code.String(),
			"duration_ms", shell.ToMilliseconds(span.EndTime().Sub(span.StartTime())),
		)
	}

	return nil
}

func (e spanLogExporter) Shutdown(context.Context) error {
	return nil
}
