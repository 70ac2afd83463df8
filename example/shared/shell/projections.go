package shell

import (
	"context"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/aggregate"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/projection"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/core"
)

// Projection table and column names.
const (
	BasketSummariesTable = "basket_summaries"
	UserLookupsTable     = "user_lookups"
	TeamLookupsTable     = "team_lookups"

	colID               = "id"
	colName             = "name"
	colEmail            = "email"
	colOwnerID          = "owner_id"
	colOwnerName        = "owner_name"
	colProductCount     = "product_count"
	colDistinctProducts = "distinct_products"
	colUpdatedUTC       = "updated_utc"
)

// TeamEnrichment is the cross-aggregate data a team lookup row needs besides the team itself.
type TeamEnrichment struct {
	OwnerName string
}

// BasketSummaryProjection keeps basket_summaries in sync with Basket aggregates.
type BasketSummaryProjection struct {
	upserter projection.Upserter
}

// UserLookupProjection keeps user_lookups in sync with User aggregates.
type UserLookupProjection struct {
	upserter projection.Upserter
}

// TeamLookupProjection keeps team_lookups in sync with Team aggregates, denormalizing the owner's name.
type TeamLookupProjection struct {
	upserter projection.Upserter
}

// Projections holds all projections of the example.
type Projections struct {
	BasketSummaries BasketSummaryProjection
	UserLookups     UserLookupProjection
	TeamLookups     TeamLookupProjection
}

// NewProjections creates the projections for dialect.
func NewProjections(dialect string, logger Logger) (Projections, error) {
	newUpserter := func(table string) (projection.Upserter, error) {
		options := []projection.UpserterOption{projection.WithDialect(dialect)}
		if logger != nil {
			options = append(options, projection.WithLogger(logger))
		}

		return projection.NewUpserter(table, colID, options...)
	}

	baskets, err := newUpserter(BasketSummariesTable)
	if err != nil {
		return Projections{}, err
	}

	users, err := newUpserter(UserLookupsTable)
	if err != nil {
		return Projections{}, err
	}

	teams, err := newUpserter(TeamLookupsTable)
	if err != nil {
		return Projections{}, err
	}

	return Projections{
		BasketSummaries: BasketSummaryProjection{upserter: baskets},
		UserLookups:     UserLookupProjection{upserter: users},
		TeamLookups:     TeamLookupProjection{upserter: teams},
	}, nil
}

// Update upserts the summary row of basket.
func (p BasketSummaryProjection) Update(
	ctx context.Context,
	q eventstore.DBQuerier,
	basket aggregate.Aggregate[core.Basket],
	_ projection.NoEnrichment,
) error {

	return p.upserter.Upsert(ctx, q, basket.ID, projection.Row{
		colProductCount:     basket.State.ProductCount(),
		colDistinctProducts: basket.State.DistinctProducts(),
		colUpdatedUTC:       basket.State.Updated,
	})
}

// Update upserts the lookup row of user.
func (p UserLookupProjection) Update(
	ctx context.Context,
	q eventstore.DBQuerier,
	user aggregate.Aggregate[core.User],
	_ projection.NoEnrichment,
) error {

	return p.upserter.Upsert(ctx, q, user.ID, projection.Row{
		colName:  user.State.Name,
		colEmail: user.State.Email,
	})
}

// Update upserts the lookup row of team.
func (p TeamLookupProjection) Update(
	ctx context.Context,
	q eventstore.DBQuerier,
	team aggregate.Aggregate[core.Team],
	enrichment TeamEnrichment,
) error {

	return p.upserter.Upsert(ctx, q, team.ID, projection.Row{
		colName:      team.State.Name,
		colOwnerID:   team.State.OwnerID,
		colOwnerName: enrichment.OwnerName,
	})
}
