package removeproductfrombasket_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/aggregate"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/cqrs"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/addproducttobasket"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/createbasket"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/features/command/removeproductfrombasket"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/core"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/shell"
	"github.com/AntonStoeckl/aggregate-eventstore-go/testutil/exampleenv"
)

func givenBasketWith(t *testing.T, env exampleenv.Env, productIDs ...string) string {
	t.Helper()

	basketID, err := createbasket.NewCommandHandler(env.Services).Handle(env.Ctx, createbasket.BuildCommand())
	require.NoError(t, err)

	add := addproducttobasket.NewCommandHandler(env.Services)
	for _, productID := range productIDs {
		_, err = add.Handle(env.Ctx, addproducttobasket.BuildCommand(basketID, productID))
		require.NoError(t, err)
	}

	return basketID
}

func getBasket(t *testing.T, env exampleenv.Env, basketID string) aggregate.Aggregate[core.Basket] {
	t.Helper()

	return exampleenv.Read(t, env, func(ctx context.Context, q eventstore.DBQuerier) (aggregate.Aggregate[core.Basket], error) {
		return env.Services.Repositories.Baskets.GetByIDOrFail(ctx, q, basketID)
	})
}

func Test_CommandHandler_Handle_When_LastUnitIsRemoved_Then_ProductLeavesBasket(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	handler := removeproductfrombasket.NewCommandHandler(env.Services)
	basketID := givenBasketWith(t, env, "p1", "p2", "p2")

	// act
	_, err := handler.Handle(env.Ctx, removeproductfrombasket.BuildCommand(basketID, "p1"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []core.ProductLine{{ProductID: "p2", Amount: 2}}, getBasket(t, env, basketID).State.Products)

	summary := exampleenv.Read(t, env, func(ctx context.Context, q eventstore.DBQuerier) (shell.BasketSummaryRow, error) {
		row, _, err := env.Services.Lookups.Baskets.FindByID(ctx, q, basketID)
		return row, err
	})
	assert.Equal(t, 2, summary.ProductCount)
	assert.Equal(t, 1, summary.DistinctProducts)
}

func Test_CommandHandler_Handle_When_ProductWasNeverAdded_Then_BasketIsUnchanged(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	handler := removeproductfrombasket.NewCommandHandler(env.Services)
	basketID := givenBasketWith(t, env, "p1")
	before := getBasket(t, env, basketID)

	// act
	_, err := handler.Handle(env.Ctx, removeproductfrombasket.BuildCommand(basketID, "p9"))

	// assert
	require.NoError(t, err)

	after := getBasket(t, env, basketID)
	assert.Equal(t, before.State, after.State)
	assert.Equal(t, before.Version+1, after.Version)
}

func Test_CommandHandler_Handle_When_BasketDoesNotExist_Then_ValidationFails(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	handler := removeproductfrombasket.NewCommandHandler(env.Services)

	// act
	_, err := handler.Handle(env.Ctx, removeproductfrombasket.BuildCommand("no-such-basket", "p1"))

	// assert
	assert.ErrorIs(t, err, cqrs.ErrValidationFailed)
}

func Test_CommandHandler_Handle_AddThenRemoveDiffersFromRemoveThenAdd(t *testing.T) {
	// setup
	env := exampleenv.New(t)
	add := addproducttobasket.NewCommandHandler(env.Services)
	remove := removeproductfrombasket.NewCommandHandler(env.Services)

	addThenRemove := givenBasketWith(t, env)
	removeThenAdd := givenBasketWith(t, env)

	// act
	_, err := add.Handle(env.Ctx, addproducttobasket.BuildCommand(addThenRemove, "p1"))
	require.NoError(t, err)
	_, err = remove.Handle(env.Ctx, removeproductfrombasket.BuildCommand(addThenRemove, "p1"))
	require.NoError(t, err)

	_, err = remove.Handle(env.Ctx, removeproductfrombasket.BuildCommand(removeThenAdd, "p1"))
	require.NoError(t, err)
	_, err = add.Handle(env.Ctx, addproducttobasket.BuildCommand(removeThenAdd, "p1"))
	require.NoError(t, err)

	// assert
	assert.Empty(t, getBasket(t, env, addThenRemove).State.Products)
	assert.Equal(t, []core.ProductLine{{ProductID: "p1", Amount: 1}}, getBasket(t, env, removeThenAdd).State.Products)
}
