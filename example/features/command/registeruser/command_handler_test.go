package registeruser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/cqrs"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/registeruser"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
	"github.com/AntonStoeckl/aggregate-eventstore-go/testutil/exampleenv"
	"github.com/AntonStoeckl/aggregate-eventstore-go/testutil/sqlitedb"
)

func Test_CommandHandler_Handle_RegistersUserAndLookupRow(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	handler := registeruser.NewCommandHandler(env.Services)

	// act
	userID, err := handler.Handle(env.Ctx, registeruser.BuildCommand(" Ada Lovelace ", "Ada@Example.com"))

	// assert
	require.NoError(t, err)
	assert.NotEmpty(t, userID)

	row := exampleenv.Read(t, env, func(ctx context.Context, q eventstore.DBQuerier) (shell.UserRow, error) {
		row, found, err := env.Services.Lookups.Users.FindByEmail(ctx, q, "ada@example.com")
		assert.True(t, found)

		return row, err
	})
	assert.Equal(t, shell.UserRow{ID: userID, Name: "Ada Lovelace", Email: "ada@example.com"}, row)
}

func Test_CommandHandler_Handle_When_EmailIsTaken_Then_ValidationFailsAndNothingIsWritten(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	handler := registeruser.NewCommandHandler(env.Services)

	_, err := handler.Handle(env.Ctx, registeruser.BuildCommand("Ada", "ada@example.com"))
	require.NoError(t, err)

	// act
	_, err = handler.Handle(env.Ctx, registeruser.BuildCommand("Another Ada", "ADA@example.com"))

	// assert
	assert.ErrorIs(t, err, cqrs.ErrValidationFailed)
	assert.ErrorContains(t, err, "already registered")
	assert.Equal(t, 1, sqlitedb.CountRows(t, env.DB, shell.UserEventsTable, ""))
	assert.Equal(t, 1, sqlitedb.CountRows(t, env.DB, shell.UserLookupsTable, ""))
}

func Test_CommandHandler_Handle_When_InputIsIncomplete_Then_ValidationFails(t *testing.T) {
	testCases := []struct {
		name  string
		email string
	}{
		{name: "", email: "ada@example.com"},
		{name: "Ada", email: "  "},
	}

	for _, tc := range testCases {
		t.Run("name="+tc.name+",email="+tc.email, func(t *testing.T) {
			// setup
			env := exampleenv.New(t)
			handler := registeruser.NewCommandHandler(env.Services)

			// act
			_, err := handler.Handle(env.Ctx, registeruser.BuildCommand(tc.name, tc.email))

			// assert
			assert.ErrorIs(t, err, cqrs.ErrValidationFailed)
			assert.Equal(t, 0, sqlitedb.CountRows(t, env.DB, shell.UserEventsTable, ""))
		})
	}
}
