// Package eventstore provides core abstractions and types for event-sourced aggregates
// with transactionally consistent read projections.
//
// An aggregate's state is never stored directly; it is derived by replaying the ordered,
// append-only log of its events. This package defines the types shared by all
// implementations:
//   - StoredEvent: one immutable row of an aggregate's event log
//   - SequenceKey: the (created_utc, row id) pair that totally orders the log of one aggregate
//   - DBQuerier, DBConn, DBTx, ConnProvider: the connection abstraction consumed from the environment
//   - Logger, MetricsCollector: optional, dependency-free observability hooks
//   - the sentinel errors of all packages below eventstore
//
// Common usage pattern:
//
//	store, _ := sqlengine.NewEventStore(sqlengine.WithTableName("basket_events"))
//	scope, _ := txscope.NewScope(adapters.NewPGXPoolProvider(pool))
//
//	_, err := txscope.WithConnection(ctx, scope, func(ctx context.Context, conn eventstore.DBConn) (cqrs.NoResult, error) {
//		return txscope.WithTransaction(ctx, scope, conn, func(ctx context.Context, tx eventstore.DBTx) (cqrs.NoResult, error) {
//			return cqrs.NoResult{}, store.Append(ctx, tx, basketID, "item_added_v1", []byte(`{"productId":"p1"}`))
//		})
//	})
package eventstore
