package cqrs

import (
	"context"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/aggregate"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/projection"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/txscope"
)

// Precheck runs idempotent precondition reads on a plain connection, outside any transaction.
// Whatever it returns (e.g. an owner's display name) is handed to the Write step.
// A violated precondition should be reported with ValidationError.
type Precheck[P any] func(ctx context.Context, q eventstore.DBQuerier) (P, error)

// Write runs inside the command's transaction: append, reload, project.
type Write[P, R any] func(ctx context.Context, tx eventstore.DBQuerier, prechecked P) (R, error)

// ExecuteCommand runs a command in the fixed order:
// acquire a connection, precheck, begin, write, commit, release.
// A precheck failure is returned verbatim and no transaction is opened.
// A write failure rolls back the transaction and is returned unchanged.
// precheck may be nil.
func ExecuteCommand[P, R any](
	ctx context.Context,
	scope txscope.Scope,
	precheck Precheck[P],
	write Write[P, R],
) (R, error) {

	return txscope.WithConnection(ctx, scope, func(ctx context.Context, conn eventstore.DBConn) (R, error) {
		var prechecked P

		if precheck != nil {
			result, err := precheck(ctx, conn)
			if err != nil {
				var zero R
				return zero, err
			}

			prechecked = result
		}

		return txscope.WithTransaction(ctx, scope, conn, func(ctx context.Context, tx eventstore.DBTx) (R, error) {
			return write(ctx, tx, prechecked)
		})
	})
}

// RunQuery gives a query a plain connection. It never opens a transaction.
func RunQuery[R any](
	ctx context.Context,
	scope txscope.Scope,
	read func(ctx context.Context, q eventstore.DBQuerier) (R, error),
) (R, error) {

	return txscope.WithConnection(ctx, scope, func(ctx context.Context, conn eventstore.DBConn) (R, error) {
		return read(ctx, conn)
	})
}

// ReloadAndProject rehydrates the aggregate after an append and feeds its canonical state to updater.
// It is meant to be called from a Write step, so the projection commits with the event.
func ReloadAndProject[S, E any](
	ctx context.Context,
	tx eventstore.DBQuerier,
	repository aggregate.Repository[S],
	id string,
	updater projection.Updater[S, E],
	enrichment E,
) (aggregate.Aggregate[S], error) {

	agg, err := repository.GetByIDOrFail(ctx, tx, id)
	if err != nil {
		return aggregate.Aggregate[S]{}, err
	}

	if err = updater.Update(ctx, tx, agg, enrichment); err != nil {
		return aggregate.Aggregate[S]{}, err
	}

	return agg, nil
}
