package registeruser

import (
	"context"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/cqrs"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/projection"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/core"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
)

// CommandHandler registers users.
type CommandHandler struct {
	services shell.Services
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(services shell.Services) CommandHandler {
	return CommandHandler{services: services}
}

// Handle registers the user and returns its id.
func (h CommandHandler) Handle(ctx context.Context, command Command) (string, error) {
	return cqrs.ExecuteCommand(ctx, h.services.Scope,
		func(ctx context.Context, q eventstore.DBQuerier) (struct{}, error) {
			return struct{}{}, h.precheck(ctx, q, command)
		},
		func(ctx context.Context, tx eventstore.DBQuerier, _ struct{}) (string, error) {
			users := h.services.Repositories.Users

			userID, err := users.Create(ctx, tx, core.UserRegistered{Name: command.Name, Email: command.Email})
			if err != nil {
				return "", err
			}

			_, err = cqrs.ReloadAndProject(
				ctx, tx, users, userID,
				h.services.Projections.UserLookups, projection.NoEnrichment{},
			)
			if err != nil {
				return "", err
			}

			return userID, nil
		},
	)
}

func (h CommandHandler) precheck(ctx context.Context, q eventstore.DBQuerier, command Command) error {
	if command.Name == "" {
		return cqrs.ValidationError("user name must not be empty")
	}

	if command.Email == "" {
		return cqrs.ValidationError("user email must not be empty")
	}

	_, taken, err := h.services.Lookups.Users.FindByEmail(ctx, q, command.Email)
	if err != nil {
		return err
	}

	if taken {
		return cqrs.ValidationError("email " + command.Email + " is already registered")
	}

	return nil
}
