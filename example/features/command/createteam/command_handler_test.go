package createteam_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/cqrs"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/createteam"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/registeruser"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
	"github.com/AntonStoeckl/aggregate-eventstore-go/testutil/exampleenv"
	"github.com/AntonStoeckl/aggregate-eventstore-go/testutil/sqlitedb"
)

func givenUser(t *testing.T, env exampleenv.Env, name string, email string) string {
	t.Helper()

	userID, err := registeruser.NewCommandHandler(env.Services).Handle(env.Ctx, registeruser.BuildCommand(name, email))
	require.NoError(t, err)

	return userID
}

func findTeam(t *testing.T, env exampleenv.Env, teamID string) (shell.TeamRow, bool) {
	t.Helper()

	type lookup struct {
		row   shell.TeamRow
		found bool
	}

	result := exampleenv.Read(t, env, func(ctx context.Context, q eventstore.DBQuerier) (lookup, error) {
		row, found, err := env.Services.Lookups.Teams.FindByID(ctx, q, teamID)
		return lookup{row: row, found: found}, err
	})

	return result.row, result.found
}

func Test_CommandHandler_Handle_CreatesTeamWithOwnerNameInLookup(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	ownerID := givenUser(t, env, "Grace Hopper", "grace@example.com")
	handler := createteam.NewCommandHandler(env.Services)

	// act
	teamID, err := handler.Handle(env.Ctx, createteam.BuildCommand("Compilers", ownerID))

	// assert
	require.NoError(t, err)

	row, found := findTeam(t, env, teamID)
	assert.True(t, found)
	assert.Equal(t, shell.TeamRow{ID: teamID, Name: "Compilers", OwnerID: ownerID, OwnerName: "Grace Hopper"}, row)
	assert.Equal(t, 1, env.CountEvents(t, shell.TeamEventsTable, teamID))
}

func Test_CommandHandler_Handle_When_NameIsTaken_Then_ValidationFails(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	ownerID := givenUser(t, env, "Grace Hopper", "grace@example.com")
	handler := createteam.NewCommandHandler(env.Services)

	_, err := handler.Handle(env.Ctx, createteam.BuildCommand("Compilers", ownerID))
	require.NoError(t, err)

	// act
	_, err = handler.Handle(env.Ctx, createteam.BuildCommand("Compilers", ownerID))

	// assert
	assert.ErrorIs(t, err, cqrs.ErrValidationFailed)
	assert.Equal(t, 1, sqlitedb.CountRows(t, env.DB, shell.TeamEventsTable, ""))
}

func Test_CommandHandler_Handle_When_OwnerDoesNotExist_Then_ValidationFails(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	handler := createteam.NewCommandHandler(env.Services)

	// act
	_, err := handler.Handle(env.Ctx, createteam.BuildCommand("Compilers", "no-such-user"))

	// assert
	assert.ErrorIs(t, err, cqrs.ErrValidationFailed)
	assert.ErrorContains(t, err, "owner no-such-user does not exist")
	assert.Equal(t, 0, sqlitedb.CountRows(t, env.DB, shell.TeamEventsTable, ""))
}

func Test_CommandHandler_Handle_When_ProjectionWriteFails_Then_EventIsRolledBack(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	ownerID := givenUser(t, env, "Grace Hopper", "grace@example.com")
	handler := createteam.NewCommandHandler(env.Services)

	_, err := env.DB.Exec(`CREATE TRIGGER reject_team_lookups BEFORE INSERT ON team_lookups
BEGIN
	SELECT RAISE(ABORT, 'team lookups are read-only');
END`)
	require.NoError(t, err)

	// act
	_, err = handler.Handle(env.Ctx, createteam.BuildCommand("Compilers", ownerID))

	// assert
	require.Error(t, err)
	assert.NotErrorIs(t, err, cqrs.ErrValidationFailed)
	assert.Equal(t, 0, sqlitedb.CountRows(t, env.DB, shell.TeamEventsTable, ""))
	assert.Equal(t, 0, sqlitedb.CountRows(t, env.DB, shell.TeamLookupsTable, ""))
	assert.Equal(t, 0, env.DB.Stats().InUse)
}
