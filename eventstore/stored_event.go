package eventstore

import (
	"time"
)

// StoredEvents is an alias type for a slice of StoredEvent.
type StoredEvents = []StoredEvent

// StoredEvent is one immutable row of an aggregate's event log.
//
// It is built on scalars so that the store stays agnostic of the domain payload types.
// RowID and CreatedUTC are assigned when the row is written and form its SequenceKey.
type StoredEvent struct {
	RowID       int64
	AggregateID string
	EventType   string
	PayloadJSON []byte
	CreatedUTC  time.Time
}

// SequenceKey returns the key that orders this event within its aggregate's log.
func (e StoredEvent) SequenceKey() SequenceKey {
	return SequenceKey{CreatedUTC: e.CreatedUTC, RowID: e.RowID}
}

// SequenceKey totally orders the events of one aggregate.
// RowID breaks ties when two events share a timestamp.
type SequenceKey struct {
	CreatedUTC time.Time
	RowID      int64
}

// Less reports whether k sorts before other.
func (k SequenceKey) Less(other SequenceKey) bool {
	if !k.CreatedUTC.Equal(other.CreatedUTC) {
		return k.CreatedUTC.Before(other.CreatedUTC)
	}

	return k.RowID < other.RowID
}

// ToCreatedUTC normalizes a timestamp the way the store persists it: UTC with microsecond precision.
func ToCreatedUTC(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
