package renameteam_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/aggregate"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/cqrs"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/createteam"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/registeruser"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/renameteam"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/core"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
	"github.com/AntonStoeckl/aggregate-eventstore-go/testutil/exampleenv"
)

// rivalStore commits a competing rename right after the handler has read the team,
// so the handler decides on a version that is stale by the time it appends.
type rivalStore struct {
	aggregate.EventStore
	rivalsLeft int
	reads      int
}

func (s *rivalStore) ReadOrdered(ctx context.Context, q eventstore.DBQuerier, aggregateID string) (eventstore.StoredEvents, error) {
	events, err := s.EventStore.ReadOrdered(ctx, q, aggregateID)
	if err != nil {
		return nil, err
	}

	s.reads++

	if s.rivalsLeft > 0 {
		s.rivalsLeft--

		if err = s.Append(ctx, q, aggregateID, core.TeamRenamedV1, []byte(`{"name":"Rival","updatedById":"rival"}`)); err != nil {
			return nil, err
		}
	}

	return events, nil
}

type fixture struct {
	env     exampleenv.Env
	ownerID string
	teamID  string
}

func givenTeam(t *testing.T, name string) fixture {
	t.Helper()

	env := exampleenv.New(t)

	ownerID, err := registeruser.NewCommandHandler(env.Services).
		Handle(env.Ctx, registeruser.BuildCommand("Linus", "linus@example.com"))
	require.NoError(t, err)

	teamID, err := createteam.NewCommandHandler(env.Services).
		Handle(env.Ctx, createteam.BuildCommand(name, ownerID))
	require.NoError(t, err)

	return fixture{env: env, ownerID: ownerID, teamID: teamID}
}

func (f fixture) withRivals(t *testing.T, rivals int) (shell.Services, *rivalStore) {
	t.Helper()

	store := &rivalStore{EventStore: f.env.Services.Stores.Teams, rivalsLeft: rivals}

	teams, err := aggregate.NewRepository[core.Team](store, core.TeamReducers, core.TeamCreatedV1)
	require.NoError(t, err)

	services := f.env.Services
	services.Repositories.Teams = teams

	return services, store
}

func (f fixture) teamRow(t *testing.T) shell.TeamRow {
	t.Helper()

	return exampleenv.Read(t, f.env, func(ctx context.Context, q eventstore.DBQuerier) (shell.TeamRow, error) {
		row, _, err := f.env.Services.Lookups.Teams.FindByID(ctx, q, f.teamID)
		return row, err
	})
}

func Test_CommandHandler_Handle_RenamesTeamAndLookup(t *testing.T) {
	// setup
	f := givenTeam(t, "Kernel")
	handler := renameteam.NewCommandHandler(f.env.Services)

	// act
	_, err := handler.Handle(f.env.Ctx, renameteam.BuildCommand(f.teamID, "Scheduler", f.ownerID))

	// assert
	require.NoError(t, err)
	assert.Equal(t, shell.TeamRow{ID: f.teamID, Name: "Scheduler", OwnerID: f.ownerID, OwnerName: "Linus"}, f.teamRow(t))
	assert.Equal(t, 2, f.env.CountEvents(t, shell.TeamEventsTable, f.teamID))
}

func Test_CommandHandler_Handle_When_NameIsUnchanged_Then_NothingIsAppended(t *testing.T) {
	// setup
	f := givenTeam(t, "Kernel")
	handler := renameteam.NewCommandHandler(f.env.Services)

	// act
	_, err := handler.Handle(f.env.Ctx, renameteam.BuildCommand(f.teamID, " Kernel ", f.ownerID))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, f.env.CountEvents(t, shell.TeamEventsTable, f.teamID))
}

func Test_CommandHandler_Handle_When_NameBelongsToAnotherTeam_Then_ValidationFails(t *testing.T) {
	// setup
	f := givenTeam(t, "Kernel")
	_, err := createteam.NewCommandHandler(f.env.Services).
		Handle(f.env.Ctx, createteam.BuildCommand("Drivers", f.ownerID))
	require.NoError(t, err)

	handler := renameteam.NewCommandHandler(f.env.Services)

	// act
	_, err = handler.Handle(f.env.Ctx, renameteam.BuildCommand(f.teamID, "Drivers", f.ownerID))

	// assert
	assert.ErrorIs(t, err, cqrs.ErrValidationFailed)
	assert.Equal(t, "Kernel", f.teamRow(t).Name)
}

func Test_CommandHandler_Handle_When_TeamDoesNotExist_Then_ValidationFails(t *testing.T) {
	// setup
	f := givenTeam(t, "Kernel")
	handler := renameteam.NewCommandHandler(f.env.Services)

	// act
	_, err := handler.Handle(f.env.Ctx, renameteam.BuildCommand("no-such-team", "Scheduler", f.ownerID))

	// assert
	assert.ErrorIs(t, err, cqrs.ErrValidationFailed)
}

func Test_CommandHandler_Handle_When_RivalRenameIsCommittedMeanwhile_Then_CommandIsRetriedOnFreshState(t *testing.T) {
	// setup
	f := givenTeam(t, "Kernel")
	services, store := f.withRivals(t, 1)
	handler := renameteam.NewCommandHandler(services)

	// act
	_, err := handler.Handle(f.env.Ctx, renameteam.BuildCommand(f.teamID, "Scheduler", f.ownerID))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, f.env.CountEvents(t, shell.TeamEventsTable, f.teamID), "created, rival, rename")
	assert.Equal(t, "Scheduler", f.teamRow(t).Name)
	assert.Equal(t, 3, store.reads, "precheck, retried precheck, reload")

	assert.Equal(t, 1, f.env.Metrics.CountCounterRecordsForMetric("eventstore_concurrency_conflicts_total"))
	assert.True(t, f.env.Metrics.HasCounterRecordForMetric("commandhandler_retries_total").
		WithLabel("command_type", "RenameTeam").
		Assert())
}

func Test_CommandHandler_Handle_When_ConflictsPersist_Then_ConcurrencyConflictIsReturned(t *testing.T) {
	// setup
	f := givenTeam(t, "Kernel")
	services, _ := f.withRivals(t, 10)
	handler := renameteam.NewCommandHandler(services, renameteam.WithRetryOptions(
		cqrs.WithMaxAttempts(2),
		cqrs.WithBaseDelay(time.Millisecond),
	))

	// act
	_, err := handler.Handle(f.env.Ctx, renameteam.BuildCommand(f.teamID, "Scheduler", f.ownerID))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 3, f.env.CountEvents(t, shell.TeamEventsTable, f.teamID), "created and two rivals")
	assert.Equal(t, "Kernel", f.teamRow(t).Name)
}
