// Package exampleenv sets up the example application on a throwaway SQLite database for feature tests.
package exampleenv

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/adapters"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/cqrs"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/sqlengine"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
	"github.com/AntonStoeckl/aggregate-eventstore-go/testutil/spies"
	"github.com/AntonStoeckl/aggregate-eventstore-go/testutil/sqlitedb"
)

// Env is a fully wired example application.
type Env struct {
	Ctx      context.Context
	Services shell.Services
	DB       *sql.DB
	Clock    *StepClock
	Logs     *spies.LogHandlerSpy
	Metrics  *spies.MetricsCollectorSpy
}

// New creates the schema on a fresh database and wires shell.Services with a StepClock,
// a log spy and a metrics spy. Extra options are applied after the defaults.
func New(t testing.TB, options ...shell.ServicesOption) Env {
	t.Helper()

	ctx := context.Background()
	db := sqlitedb.Open(t)

	provider, err := adapters.NewSQLDBProvider(db)
	require.NoError(t, err)

	clock := NewStepClock(time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC), time.Millisecond)
	logs := spies.NewLogHandlerSpy(false)
	metrics := spies.NewMetricsCollectorSpy()

	defaults := []shell.ServicesOption{
		shell.WithClock(clock.Now),
		shell.WithLogger(logs.Logger()),
		shell.WithMetrics(metrics),
	}

	services, err := shell.NewServices(provider, sqlengine.DialectSQLite, append(defaults, options...)...)
	require.NoError(t, err)
	require.NoError(t, services.ApplySchema(ctx))

	return Env{Ctx: ctx, Services: services, DB: db, Clock: clock, Logs: logs, Metrics: metrics}
}

// CountEvents returns the number of events in the event table of one aggregate type.
func (e Env) CountEvents(t testing.TB, table string, aggregateID string) int {
	t.Helper()

	return sqlitedb.CountRows(t, e.DB, table, "aggregate_id = ?", aggregateID)
}

// Read runs read on a plain connection of the env's scope and fails the test on error.
func Read[T any](t testing.TB, e Env, read func(ctx context.Context, q eventstore.DBQuerier) (T, error)) T {
	t.Helper()

	result, err := cqrs.RunQuery(e.Ctx, e.Services.Scope, read)
	require.NoError(t, err)

	return result
}

// StepClock returns a strictly increasing time on every call.
type StepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewStepClock creates a StepClock starting at start.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{next: start, step: step}
}

// Now returns the current time of the clock and advances it.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.next
	c.next = c.next.Add(c.step)

	return now
}

// Peek returns the time the next call to Now will return.
func (c *StepClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.next
}
