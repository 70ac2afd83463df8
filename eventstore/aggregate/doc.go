// Package aggregate rehydrates aggregates from their event log and exposes a generic repository.
//
// An aggregate type is defined by its state type S and an immutable reducer table built once:
//
//	reducers, err := aggregate.NewReducers(
//		aggregate.Register(BasketCreatedV1, OnBasketCreated),
//		aggregate.Register(ItemAddedV1, OnItemAdded),
//	)
//
// Each reducer is a pure function (state, typed payload, metadata) -> state. Reduce folds an ordered
// event stream over that table; an event type without a reducer aborts the fold with
// eventstore.ErrUnknownEventType and is never skipped.
//
// Repository wraps an event store and a reducer table: GetByID reads and reduces, Create appends the
// creation event under a fresh id, Mutate and MutateAtVersion append follow-up events. The repository
// never returns new state from a write, callers reload with GetByID.
package aggregate
