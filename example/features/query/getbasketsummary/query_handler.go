package getbasketsummary

import (
	"context"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/cqrs"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
)

// QueryHandler answers Query from the basket_summaries projection.
type QueryHandler struct {
	services shell.Services
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(services shell.Services) QueryHandler {
	return QueryHandler{services: services}
}

// Handle returns the basket summary.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Result, error) {
	return cqrs.RunQuery(ctx, h.services.Scope, func(ctx context.Context, q eventstore.DBQuerier) (Result, error) {
		summary, found, err := h.services.Lookups.Baskets.FindByID(ctx, q, query.BasketID)
		if err != nil {
			return Result{}, err
		}

		return Result{Found: found, Summary: summary}, nil
	})
}
