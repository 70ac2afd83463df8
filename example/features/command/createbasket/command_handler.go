package createbasket

import (
	"context"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/cqrs"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/projection"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/core"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
)

// CommandHandler creates baskets.
type CommandHandler struct {
	services shell.Services
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(services shell.Services) CommandHandler {
	return CommandHandler{services: services}
}

// Handle creates the basket and returns its id.
func (h CommandHandler) Handle(ctx context.Context, _ Command) (string, error) {
	return cqrs.ExecuteCommand[struct{}, string](ctx, h.services.Scope, nil,
		func(ctx context.Context, tx eventstore.DBQuerier, _ struct{}) (string, error) {
			baskets := h.services.Repositories.Baskets

			basketID, err := baskets.Create(ctx, tx, core.BasketCreated{})
			if err != nil {
				return "", err
			}

			_, err = cqrs.ReloadAndProject(
				ctx, tx, baskets, basketID,
				h.services.Projections.BasketSummaries, projection.NoEnrichment{},
			)
			if err != nil {
				return "", err
			}

			return basketID, nil
		},
	)
}
