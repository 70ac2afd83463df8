package aggregate

import (
	"errors"
	"fmt"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
)

// Aggregate is the materialized state of one aggregate. Version is the number of events folded.
// It is never persisted, only recomputed from the log.
type Aggregate[S any] struct {
	ID      string
	Version uint
	State   S
}

// Reduce folds an ordered event stream into an Aggregate.
//
// An empty stream yields found == false and no error. Otherwise the fold starts from the zero state
// with the id of the first event and applies the reducer of each event in order.
// The fold aborts with eventstore.ErrUnknownEventType when a reducer is missing,
// eventstore.ErrDecodingPayloadFailed when a payload does not decode,
// and eventstore.ErrMixedAggregateStream when the stream contains another aggregate's event.
func Reduce[S any](events eventstore.StoredEvents, reducers Reducers[S]) (Aggregate[S], bool, error) {
	if len(events) == 0 {
		return Aggregate[S]{}, false, nil
	}

	aggregate := Aggregate[S]{ID: events[0].AggregateID}

	for _, event := range events {
		if event.AggregateID != aggregate.ID {
			return Aggregate[S]{}, false, errors.Join(
				eventstore.ErrMixedAggregateStream,
				fmt.Errorf("expected aggregate %q, row %d belongs to %q", aggregate.ID, event.RowID, event.AggregateID),
			)
		}

		reduce, ok := reducers.table[event.EventType]
		if !ok {
			return Aggregate[S]{}, false, errors.Join(
				eventstore.ErrUnknownEventType,
				fmt.Errorf("event type %q at row %d of aggregate %q", event.EventType, event.RowID, event.AggregateID),
			)
		}

		metadata := EventMetadata{
			AggregateID: event.AggregateID,
			InsertedUTC: event.CreatedUTC,
			RowID:       event.RowID,
		}

		next, reduceErr := reduce(aggregate.State, event.PayloadJSON, metadata)
		if reduceErr != nil {
			return Aggregate[S]{}, false, errors.Join(
				eventstore.ErrDecodingPayloadFailed,
				fmt.Errorf("event type %q at row %d: %w", event.EventType, event.RowID, reduceErr),
			)
		}

		aggregate.State = next
		aggregate.Version++
	}

	return aggregate, true, nil
}
