package renameteam

import (
	"context"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/aggregate"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/cqrs"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/core"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
)

// CommandHandler renames teams.
type CommandHandler struct {
	services     shell.Services
	retryOptions []cqrs.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...cqrs.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
// Without retry options, retries report to the services' metrics collector.
func NewCommandHandler(services shell.Services, opts ...Option) CommandHandler {
	handler := CommandHandler{services: services}

	if services.Metrics != nil {
		handler.retryOptions = []cqrs.RetryOption{cqrs.WithMetrics(services.Metrics, commandType)}
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

type decision struct {
	team       aggregate.Aggregate[core.Team]
	enrichment shell.TeamEnrichment
	unchanged  bool
}

// Handle renames the team, retrying on concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (cqrs.NoResult, error) {
	_, err := cqrs.RetryOnConcurrencyConflict(ctx, func(ctx context.Context) error {
		return h.executeCommand(ctx, command)
	}, h.retryOptions...)

	return cqrs.NoResult{}, err
}

// executeCommand contains the command processing that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) error {
	_, err := cqrs.ExecuteCommand(ctx, h.services.Scope,
		func(ctx context.Context, q eventstore.DBQuerier) (decision, error) {
			return h.precheck(ctx, q, command)
		},
		func(ctx context.Context, tx eventstore.DBQuerier, decided decision) (cqrs.NoResult, error) {
			if decided.unchanged {
				return cqrs.NoResult{}, nil
			}

			teams := h.services.Repositories.Teams

			err := teams.MutateAtVersion(
				ctx, tx, command.TeamID, decided.team.Version,
				core.TeamRenamedV1, core.TeamRenamed{Name: command.Name, UpdatedByID: command.UpdatedByID},
			)
			if err != nil {
				return cqrs.NoResult{}, err
			}

			_, err = cqrs.ReloadAndProject(
				ctx, tx, teams, command.TeamID,
				h.services.Projections.TeamLookups, decided.enrichment,
			)

			return cqrs.NoResult{}, err
		},
	)

	return err
}

func (h CommandHandler) precheck(ctx context.Context, q eventstore.DBQuerier, command Command) (decision, error) {
	if command.Name == "" {
		return decision{}, cqrs.ValidationError("team name must not be empty")
	}

	team, found, err := h.services.Repositories.Teams.GetByID(ctx, q, command.TeamID)
	if err != nil {
		return decision{}, err
	}

	if !found {
		return decision{}, cqrs.ValidationError("team " + command.TeamID + " does not exist")
	}

	if team.State.Name == command.Name {
		return decision{team: team, unchanged: true}, nil
	}

	other, taken, err := h.services.Lookups.Teams.FindByName(ctx, q, command.Name)
	if err != nil {
		return decision{}, err
	}

	if taken && other.ID != command.TeamID {
		return decision{}, cqrs.ValidationError("team name " + command.Name + " is already taken")
	}

	owner, found, err := h.services.Lookups.Users.FindByID(ctx, q, team.State.OwnerID)
	if err != nil {
		return decision{}, err
	}

	if !found {
		return decision{}, cqrs.ValidationError("owner " + team.State.OwnerID + " does not exist")
	}

	return decision{team: team, enrichment: shell.TeamEnrichment{OwnerName: owner.Name}}, nil
}
