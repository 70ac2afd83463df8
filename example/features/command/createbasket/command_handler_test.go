package createbasket_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/createbasket"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
	"github.com/AntonStoeckl/aggregate-eventstore-go/testutil/exampleenv"
)

func Test_CommandHandler_Handle_CreatesEmptyBasketWithSummary(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	createdAt := env.Clock.Peek()
	handler := createbasket.NewCommandHandler(env.Services)

	// act
	basketID, err := handler.Handle(env.Ctx, createbasket.BuildCommand())

	// assert
	require.NoError(t, err)

	parsed, parseErr := uuid.Parse(basketID)
	require.NoError(t, parseErr)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	assert.Equal(t, 1, env.CountEvents(t, shell.BasketEventsTable, basketID))

	summary := exampleenv.Read(t, env, func(ctx context.Context, q eventstore.DBQuerier) (shell.BasketSummaryRow, error) {
		row, found, err := env.Services.Lookups.Baskets.FindByID(ctx, q, basketID)
		assert.True(t, found)

		return row, err
	})
	assert.Equal(t, shell.BasketSummaryRow{ID: basketID, UpdatedUTC: createdAt}, summary)
}

func Test_CommandHandler_Handle_EveryCallCreatesANewBasket(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	handler := createbasket.NewCommandHandler(env.Services)

	// act
	first, err := handler.Handle(env.Ctx, createbasket.BuildCommand())
	require.NoError(t, err)
	second, err := handler.Handle(env.Ctx, createbasket.BuildCommand())
	require.NoError(t, err)

	// assert
	assert.NotEqual(t, first, second)
	assert.True(t, env.Logs.HasInfoLogWithMessage("aggregate created").WithAttrValue("aggregate_id", second).Assert())
}
