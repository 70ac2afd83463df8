package spies

import (
	"maps"
	"sync"
	"time"
)

// MetricsCollectorSpy is an eventstore.MetricsCollector implementation that captures metrics calls for testing.
type MetricsCollectorSpy struct {
	durationRecords []SpyRecord
	counterRecords  []SpyRecord
	valueRecords    []SpyRecord
	mu              sync.Mutex
}

// SpyRecord represents one recorded metric call; Duration or Value is set depending on the kind.
type SpyRecord struct {
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

// RecordDuration implements the MetricsCollector interface.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durationRecords = append(s.durationRecords, SpyRecord{Metric: metric, Duration: duration, Labels: maps.Clone(labels)})
}

// IncrementCounter implements the MetricsCollector interface.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counterRecords = append(s.counterRecords, SpyRecord{Metric: metric, Labels: maps.Clone(labels)})
}

// RecordValue implements the MetricsCollector interface.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.valueRecords = append(s.valueRecords, SpyRecord{Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

// Reset clears all captured records.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durationRecords = nil
	s.counterRecords = nil
	s.valueRecords = nil
}

// MetricRecordMatcher provides a fluent interface for checking metric records.
type MetricRecordMatcher struct {
	candidates []SpyRecord
}

// HasDurationRecordForMetric starts a fluent chain over all duration records of metric.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcherFor(s.durationRecords, metric)
}

// HasCounterRecordForMetric starts a fluent chain over all counter records of metric.
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcherFor(s.counterRecords, metric)
}

// HasValueRecordForMetric starts a fluent chain over all value records of metric.
func (s *MetricsCollectorSpy) HasValueRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcherFor(s.valueRecords, metric)
}

// CountCounterRecordsForMetric returns how often the counter metric was incremented.
func (s *MetricsCollectorSpy) CountCounterRecordsForMetric(metric string) int {
	return len(s.matcherFor(s.counterRecords, metric).candidates)
}

func (s *MetricsCollectorSpy) matcherFor(records []SpyRecord, metric string) *MetricRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := make([]SpyRecord, 0)
	for _, record := range records {
		if record.Metric == metric {
			candidates = append(candidates, record)
		}
	}

	return &MetricRecordMatcher{candidates: candidates}
}

// WithLabel keeps only records carrying the label with the given value.
func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	filtered := make([]SpyRecord, 0, len(m.candidates))
	for _, record := range m.candidates {
		if record.Labels[key] == value {
			filtered = append(filtered, record)
		}
	}

	m.candidates = filtered

	return m
}

// WithOperation keeps only records with the given operation label.
func (m *MetricRecordMatcher) WithOperation(operation string) *MetricRecordMatcher {
	return m.WithLabel("operation", operation)
}

// WithStatus keeps only records with the given status label.
func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

// Assert returns whether at least one record survived the chain.
func (m *MetricRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}
