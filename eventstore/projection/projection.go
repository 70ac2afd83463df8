// Package projection defines how read models are kept in sync with aggregate state.
//
// A projection is written inside the same transaction as the event that changed its aggregate,
// so queries never observe an event without its projection or the other way around.
package projection

import (
	"context"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/aggregate"
)

// Updater writes the read model row(s) for one aggregate from its canonical, freshly rehydrated state
// plus enrichment data from other aggregates (e.g. an owner's display name).
// Update must be idempotent: writing the same (aggregate, enrichment) pair twice yields the same rows.
type Updater[S, E any] interface {
	Update(ctx context.Context, q eventstore.DBQuerier, agg aggregate.Aggregate[S], enrichment E) error
}

// UpdaterFunc adapts a function to the Updater interface.
type UpdaterFunc[S, E any] func(ctx context.Context, q eventstore.DBQuerier, agg aggregate.Aggregate[S], enrichment E) error

// Update calls f.
func (f UpdaterFunc[S, E]) Update(ctx context.Context, q eventstore.DBQuerier, agg aggregate.Aggregate[S], enrichment E) error {
	return f(ctx, q, agg, enrichment)
}

// NoEnrichment is the enrichment type of projections that only depend on their own aggregate.
type NoEnrichment struct{}
