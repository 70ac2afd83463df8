package spies

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// LogHandlerSpy is a slog.Handler implementation that captures log records for testing.
type LogHandlerSpy struct {
	records     []slog.Record
	mu          sync.Mutex
	logToStdout bool
}

// NewLogHandlerSpy creates a new LogHandlerSpy.
// Switchable to log to stdout, which can be useful for debugging tests by seeing the actual log output.
func NewLogHandlerSpy(logToStdOut bool) *LogHandlerSpy {
	return &LogHandlerSpy{
		records:     make([]slog.Record, 0),
		logToStdout: logToStdOut,
	}
}

// Logger returns a *slog.Logger writing into the spy.
func (s *LogHandlerSpy) Logger() *slog.Logger {
	return slog.New(s)
}

// Handle implements slog.Handler interface.
func (s *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record.Clone())

	if s.logToStdout {
		jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
		_ = jsonHandler.Handle(ctx, record)
	}

	return nil
}

// Enabled implements slog.Handler interface.
func (s *LogHandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// WithAttrs implements slog.Handler interface.
func (s *LogHandlerSpy) WithAttrs(_ []slog.Attr) slog.Handler {
	return s
}

// WithGroup implements slog.Handler interface.
func (s *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	return s
}

// GetRecordCount returns the number of captured log records.
func (s *LogHandlerSpy) GetRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// Reset clears all captured log records.
func (s *LogHandlerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.records[:0]
}

// HasLog checks if there's a log record with the given level and message.
func (s *LogHandlerSpy) HasLog(level slog.Level, message string) bool {
	return s.HasLogWithMessage(level, message).Assert()
}

// SpyLogRecordMatcher provides a fluent interface for checking log record attributes.
// The chain passes if at least one captured record satisfies every check.
type SpyLogRecordMatcher struct {
	candidates []slog.Record
}

// HasLogWithMessage starts a fluent chain over all log records with the given level and message.
func (s *LogHandlerSpy) HasLogWithMessage(level slog.Level, message string) *SpyLogRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := make([]slog.Record, 0)
	for i := range s.records {
		if s.records[i].Level == level && s.records[i].Message == message {
			candidates = append(candidates, s.records[i].Clone())
		}
	}

	return &SpyLogRecordMatcher{candidates: candidates}
}

// HasDebugLogWithMessage starts a fluent chain to check a debug-level log record.
func (s *LogHandlerSpy) HasDebugLogWithMessage(message string) *SpyLogRecordMatcher {
	return s.HasLogWithMessage(slog.LevelDebug, message)
}

// HasInfoLogWithMessage starts a fluent chain to check an info-level log record.
func (s *LogHandlerSpy) HasInfoLogWithMessage(message string) *SpyLogRecordMatcher {
	return s.HasLogWithMessage(slog.LevelInfo, message)
}

// HasWarnLogWithMessage starts a fluent chain to check a warn-level log record.
func (s *LogHandlerSpy) HasWarnLogWithMessage(message string) *SpyLogRecordMatcher {
	return s.HasLogWithMessage(slog.LevelWarn, message)
}

// HasErrorLogWithMessage starts a fluent chain to check an error-level log record.
func (s *LogHandlerSpy) HasErrorLogWithMessage(message string) *SpyLogRecordMatcher {
	return s.HasLogWithMessage(slog.LevelError, message)
}

// WithAttr keeps only the records that have an attribute with the given key.
func (m *SpyLogRecordMatcher) WithAttr(key string) *SpyLogRecordMatcher {
	return m.narrow(func(attr slog.Attr) bool {
		return attr.Key == key
	})
}

// WithAttrValue keeps only the records that have an attribute with the given key and string representation.
func (m *SpyLogRecordMatcher) WithAttrValue(key string, value string) *SpyLogRecordMatcher {
	return m.narrow(func(attr slog.Attr) bool {
		return attr.Key == key && attr.Value.String() == value
	})
}

// WithDurationMS keeps only the records that have a duration_ms attribute with a non-negative value.
func (m *SpyLogRecordMatcher) WithDurationMS() *SpyLogRecordMatcher {
	return m.narrow(func(attr slog.Attr) bool {
		return attr.Key == "duration_ms" && attr.Value.Kind() == slog.KindFloat64 && attr.Value.Float64() >= 0
	})
}

// Assert returns whether at least one record passed all checks of the chain.
func (m *SpyLogRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

func (m *SpyLogRecordMatcher) narrow(matches func(attr slog.Attr) bool) *SpyLogRecordMatcher {
	kept := m.candidates[:0]
	for _, record := range m.candidates {
		hasAttr := false
		record.Attrs(func(attr slog.Attr) bool {
			if matches(attr) {
				hasAttr = true
				return false
			}

			return true
		})

		if hasAttr {
			kept = append(kept, record)
		}
	}

	m.candidates = kept

	return m
}
