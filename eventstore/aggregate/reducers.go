package aggregate

import (
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
)

// EventMetadata is what a reducer learns about an event besides its payload.
// InsertedUTC is the store-assigned timestamp, so time-derived state is reproducible from the log alone.
type EventMetadata struct {
	AggregateID string
	InsertedUTC time.Time
	RowID       int64
}

// ReducerFunc folds one raw event payload into the prior state.
type ReducerFunc[S any] func(state S, payloadJSON []byte, metadata EventMetadata) (S, error)

// Registration binds one event type to its reducer. Build it with Register.
type Registration[S any] struct {
	eventType string
	reduce    ReducerFunc[S]
}

// Register creates a typed registration: the payload is decoded into P before reducer is applied.
// reducer must be pure, it must not read the clock or anything else outside its arguments.
func Register[S, P any](eventType string, reducer func(state S, payload P, metadata EventMetadata) S) Registration[S] {
	return Registration[S]{
		eventType: eventType,
		reduce: func(state S, payloadJSON []byte, metadata EventMetadata) (S, error) {
			var payload P
			if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload); err != nil {
				return state, err
			}

			return reducer(state, payload, metadata), nil
		},
	}
}

// Reducers is the immutable table of all event types one aggregate type can ever emit.
type Reducers[S any] struct {
	table      map[string]ReducerFunc[S]
	eventTypes []string
}

// NewReducers builds the reducer table. Empty and duplicate event types are rejected.
func NewReducers[S any](registrations ...Registration[S]) (Reducers[S], error) {
	if len(registrations) == 0 {
		return Reducers[S]{}, ErrEmptyReducerTable
	}

	table := make(map[string]ReducerFunc[S], len(registrations))
	eventTypes := make([]string, 0, len(registrations))

	for _, registration := range registrations {
		if registration.eventType == "" {
			return Reducers[S]{}, eventstore.ErrEmptyEventType
		}

		if _, exists := table[registration.eventType]; exists {
			return Reducers[S]{}, errors.Join(ErrDuplicateEventType, fmt.Errorf("event type %q", registration.eventType))
		}

		table[registration.eventType] = registration.reduce
		eventTypes = append(eventTypes, registration.eventType)
	}

	return Reducers[S]{table: table, eventTypes: eventTypes}, nil
}

// MustNewReducers is like NewReducers but panics on an invalid table.
// Meant for package-level tables that are fixed at compile time.
func MustNewReducers[S any](registrations ...Registration[S]) Reducers[S] {
	reducers, err := NewReducers(registrations...)
	if err != nil {
		panic(err)
	}

	return reducers
}

// Handles reports whether eventType has a registered reducer.
func (r Reducers[S]) Handles(eventType string) bool {
	_, ok := r.table[eventType]
	return ok
}

// EventTypes returns the registered event types in registration order.
func (r Reducers[S]) EventTypes() []string {
	eventTypes := make([]string, len(r.eventTypes))
	copy(eventTypes, r.eventTypes)

	return eventTypes
}
