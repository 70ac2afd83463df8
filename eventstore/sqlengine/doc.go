// Package sqlengine provides an SQL implementation of the aggregate event store.
//
// Each aggregate owns an append-only stream of event rows in a shared table, keyed by aggregate_id
// and totally ordered by (created_utc, id). The EventStore itself holds no connection: every operation
// receives an eventstore.DBQuerier, which is either a plain connection or a transaction handed out by
// the txscope package. This keeps the event append and the projection update of one command in the
// same transaction.
//
// Supported dialects are PostgreSQL and SQLite. All statements are built with goqu in prepared mode,
// so the only dialect differences are placeholder style and the value casts Postgres needs inside
// INSERT ... SELECT.
//
// Usage examples:
//
//	// Postgres (default dialect)
//	store, _ := sqlengine.NewEventStore(sqlengine.WithLogger(slog.Default()))
//
//	// SQLite with a custom table name
//	store, _ := sqlengine.NewEventStore(
//		sqlengine.WithDialect(sqlengine.DialectSQLite),
//		sqlengine.WithTableName("basket_events"),
//	)
//
//	err := store.Append(ctx, tx, basketID, "item_added_v1", []byte(`{"productId":"p1"}`))
//	events, err := store.ReadOrdered(ctx, conn, basketID)
package sqlengine
