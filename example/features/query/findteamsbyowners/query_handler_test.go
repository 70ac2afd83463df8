package findteamsbyowners_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/createteam"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/registeruser"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/renameteam"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/query/findteamsbyowners"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
	"github.com/AntonStoeckl/aggregate-eventstore-go/testutil/exampleenv"
)

type owners struct {
	linus string
	ada   string
	grace string
}

func givenTeams(t *testing.T, env exampleenv.Env) (owners, map[string]string) {
	t.Helper()

	register := registeruser.NewCommandHandler(env.Services)
	create := createteam.NewCommandHandler(env.Services)

	registerUser := func(name, email string) string {
		id, err := register.Handle(env.Ctx, registeruser.BuildCommand(name, email))
		require.NoError(t, err)
		return id
	}

	o := owners{
		linus: registerUser("Linus", "linus@example.com"),
		ada:   registerUser("Ada", "ada@example.com"),
		grace: registerUser("Grace", "grace@example.com"),
	}

	teams := map[string]string{}
	for _, team := range []struct{ name, ownerID string }{
		{"Kernel", o.linus},
		{"Analytical Engine", o.ada},
		{"Git", o.linus},
	} {
		id, err := create.Handle(env.Ctx, createteam.BuildCommand(team.name, team.ownerID))
		require.NoError(t, err)
		teams[team.name] = id
	}

	return o, teams
}

func Test_QueryHandler_Handle_ReturnsTeamsOfAllOwnersOrderedByName(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	o, teams := givenTeams(t, env)
	handler := findteamsbyowners.NewQueryHandler(env.Services)

	// act
	result, err := handler.Handle(env.Ctx, findteamsbyowners.BuildQuery(o.linus, o.ada, o.linus, ""))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, result.Count)
	assert.Equal(t, []shell.TeamRow{
		{ID: teams["Analytical Engine"], Name: "Analytical Engine", OwnerID: o.ada, OwnerName: "Ada"},
		{ID: teams["Git"], Name: "Git", OwnerID: o.linus, OwnerName: "Linus"},
		{ID: teams["Kernel"], Name: "Kernel", OwnerID: o.linus, OwnerName: "Linus"},
	}, result.Teams)
}

func Test_QueryHandler_Handle_When_TeamWasRenamed_Then_NewNameIsReturned(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	o, teams := givenTeams(t, env)

	_, err := renameteam.NewCommandHandler(env.Services).
		Handle(env.Ctx, renameteam.BuildCommand(teams["Kernel"], "Linux", o.linus))
	require.NoError(t, err)

	handler := findteamsbyowners.NewQueryHandler(env.Services)

	// act
	result, err := handler.Handle(env.Ctx, findteamsbyowners.BuildQuery(o.linus))

	// assert
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, "Git", result.Teams[0].Name)
	assert.Equal(t, "Linux", result.Teams[1].Name)
}

func Test_QueryHandler_Handle_When_OwnerHasNoTeams_Then_ResultIsEmpty(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	o, _ := givenTeams(t, env)
	handler := findteamsbyowners.NewQueryHandler(env.Services)

	// act
	result, err := handler.Handle(env.Ctx, findteamsbyowners.BuildQuery(o.grace))

	// assert
	require.NoError(t, err)
	assert.Zero(t, result.Count)
	assert.Empty(t, result.Teams)
}

func Test_QueryHandler_Handle_When_NoOwnersAreGiven_Then_ResultIsEmpty(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	givenTeams(t, env)
	handler := findteamsbyowners.NewQueryHandler(env.Services)

	// act
	result, err := handler.Handle(env.Ctx, findteamsbyowners.BuildQuery())

	// assert
	require.NoError(t, err)
	assert.Zero(t, result.Count)
	assert.Empty(t, result.Teams)
}

func Test_BuildQuery_DropsDuplicateAndEmptyOwnerIDs(t *testing.T) {
	// act
	query := findteamsbyowners.BuildQuery("b", "", "a", "b")

	// assert
	assert.Equal(t, []string{"b", "a"}, query.OwnerIDs)
}
