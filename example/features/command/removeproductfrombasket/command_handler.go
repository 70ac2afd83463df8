package removeproductfrombasket

import (
	"context"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/cqrs"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/projection"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/core"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
)

// CommandHandler takes one unit of a product out of a basket.
type CommandHandler struct {
	services shell.Services
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(services shell.Services) CommandHandler {
	return CommandHandler{services: services}
}

// Handle checks that the basket exists, then appends the event and refreshes the basket summary.
func (h CommandHandler) Handle(ctx context.Context, command Command) (cqrs.NoResult, error) {
	return cqrs.ExecuteCommand(ctx, h.services.Scope,
		func(ctx context.Context, q eventstore.DBQuerier) (struct{}, error) {
			return struct{}{}, h.precheck(ctx, q, command)
		},
		func(ctx context.Context, tx eventstore.DBQuerier, _ struct{}) (cqrs.NoResult, error) {
			baskets := h.services.Repositories.Baskets

			err := baskets.Mutate(ctx, tx, command.BasketID, core.ItemRemovedV1, core.ItemRemoved{ProductID: command.ProductID})
			if err != nil {
				return cqrs.NoResult{}, err
			}

			_, err = cqrs.ReloadAndProject(
				ctx, tx, baskets, command.BasketID,
				h.services.Projections.BasketSummaries, projection.NoEnrichment{},
			)

			return cqrs.NoResult{}, err
		},
	)
}

func (h CommandHandler) precheck(ctx context.Context, q eventstore.DBQuerier, command Command) error {
	if command.ProductID == "" {
		return cqrs.ValidationError("product id must not be empty")
	}

	_, found, err := h.services.Lookups.Baskets.FindByID(ctx, q, command.BasketID)
	if err != nil {
		return err
	}

	if !found {
		return cqrs.ValidationError("basket " + command.BasketID + " does not exist")
	}

	return nil
}
