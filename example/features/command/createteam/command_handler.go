package createteam

import (
	"context"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/cqrs"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/core"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
)

// CommandHandler creates teams.
type CommandHandler struct {
	services shell.Services
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(services shell.Services) CommandHandler {
	return CommandHandler{services: services}
}

// Handle creates the team and returns its id.
func (h CommandHandler) Handle(ctx context.Context, command Command) (string, error) {
	return cqrs.ExecuteCommand(ctx, h.services.Scope,
		func(ctx context.Context, q eventstore.DBQuerier) (shell.TeamEnrichment, error) {
			return h.precheck(ctx, q, command)
		},
		func(ctx context.Context, tx eventstore.DBQuerier, enrichment shell.TeamEnrichment) (string, error) {
			teams := h.services.Repositories.Teams

			teamID, err := teams.Create(ctx, tx, core.TeamCreated{Name: command.Name, OwnerID: command.OwnerID})
			if err != nil {
				return "", err
			}

			_, err = cqrs.ReloadAndProject(ctx, tx, teams, teamID, h.services.Projections.TeamLookups, enrichment)
			if err != nil {
				return "", err
			}

			return teamID, nil
		},
	)
}

func (h CommandHandler) precheck(ctx context.Context, q eventstore.DBQuerier, command Command) (shell.TeamEnrichment, error) {
	if command.Name == "" {
		return shell.TeamEnrichment{}, cqrs.ValidationError("team name must not be empty")
	}

	_, taken, err := h.services.Lookups.Teams.FindByName(ctx, q, command.Name)
	if err != nil {
		return shell.TeamEnrichment{}, err
	}

	if taken {
		return shell.TeamEnrichment{}, cqrs.ValidationError("team name " + command.Name + " is already taken")
	}

	owner, found, err := h.services.Lookups.Users.FindByID(ctx, q, command.OwnerID)
	if err != nil {
		return shell.TeamEnrichment{}, err
	}

	if !found {
		return shell.TeamEnrichment{}, cqrs.ValidationError("owner " + command.OwnerID + " does not exist")
	}

	return shell.TeamEnrichment{OwnerName: owner.Name}, nil
}
