package findteamsbyowners

import (
	"context"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/cqrs"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
)

// QueryHandler answers Query from the team_lookups projection.
type QueryHandler struct {
	services shell.Services
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(services shell.Services) QueryHandler {
	return QueryHandler{services: services}
}

// Handle returns the teams owned by the query's owners.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Result, error) {
	return cqrs.RunQuery(ctx, h.services.Scope, func(ctx context.Context, q eventstore.DBQuerier) (Result, error) {
		teams, err := h.services.Lookups.Teams.FindByOwnerIDs(ctx, q, query.OwnerIDs)
		if err != nil {
			return Result{}, err
		}

		return Result{Teams: teams, Count: len(teams)}, nil
	})
}
