package core_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/aggregate"
	"github.com/AntonStoeckl/aggregate-eventstore-go/example/shared/core"
)

const basketID = "0199e1a0-0000-7000-8000-000000000001"

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func basketStream(eventTypesAndProducts ...string) eventstore.StoredEvents {
	events := eventstore.StoredEvents{
		{RowID: 1, AggregateID: basketID, EventType: core.BasketCreatedV1, PayloadJSON: []byte(`{}`), CreatedUTC: t0},
	}

	for i := 0; i+1 < len(eventTypesAndProducts); i += 2 {
		events = append(events, eventstore.StoredEvent{
			RowID:       int64(len(events) + 1),
			AggregateID: basketID,
			EventType:   eventTypesAndProducts[i],
			PayloadJSON: []byte(fmt.Sprintf(`{"productId":%q}`, eventTypesAndProducts[i+1])),
			CreatedUTC:  t0.Add(time.Duration(len(events)) * time.Second),
		})
	}

	return events
}

func Test_Basket_When_ProductsAreAdded_Then_AmountsAccumulateInFirstAddedOrder(t *testing.T) {
	// arrange
	events := basketStream(
		core.ItemAddedV1, "p1",
		core.ItemAddedV1, "p2",
		core.ItemAddedV1, "p2",
	)

	// act
	basket, found, err := aggregate.Reduce(events, core.BasketReducers)

	// assert
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, basketID, basket.ID)
	assert.Equal(t, uint(4), basket.Version)
	assert.Equal(t, []core.ProductLine{{ProductID: "p1", Amount: 1}, {ProductID: "p2", Amount: 2}}, basket.State.Products)
	assert.Equal(t, 3, basket.State.ProductCount())
	assert.Equal(t, 2, basket.State.DistinctProducts())
	assert.Equal(t, t0, basket.State.Created)
	assert.Equal(t, t0.Add(3*time.Second), basket.State.Updated)
}

func Test_Basket_When_LastUnitIsRemoved_Then_ProductLineDisappears(t *testing.T) {
	// arrange
	events := basketStream(
		core.ItemAddedV1, "p1",
		core.ItemAddedV1, "p2",
		core.ItemAddedV1, "p2",
		core.ItemRemovedV1, "p1",
	)

	// act
	basket, _, err := aggregate.Reduce(events, core.BasketReducers)

	// assert
	require.NoError(t, err)
	assert.Equal(t, []core.ProductLine{{ProductID: "p2", Amount: 2}}, basket.State.Products)
	assert.Equal(t, 0, basket.State.AmountOf("p1"))
	assert.Equal(t, 2, basket.State.AmountOf("p2"))
}

func Test_Basket_When_OneOfSeveralUnitsIsRemoved_Then_AmountDecrements(t *testing.T) {
	// arrange
	events := basketStream(
		core.ItemAddedV1, "p2",
		core.ItemAddedV1, "p2",
		core.ItemRemovedV1, "p2",
	)

	// act
	basket, _, err := aggregate.Reduce(events, core.BasketReducers)

	// assert
	require.NoError(t, err)
	assert.Equal(t, []core.ProductLine{{ProductID: "p2", Amount: 1}}, basket.State.Products)
}

func Test_Basket_When_NeverAddedProductIsRemoved_Then_StateIsUnchanged(t *testing.T) {
	// arrange
	before, _, err := aggregate.Reduce(basketStream(core.ItemAddedV1, "p1"), core.BasketReducers)
	require.NoError(t, err)

	// act
	after, _, err := aggregate.Reduce(
		basketStream(core.ItemAddedV1, "p1", core.ItemRemovedV1, "p9"),
		core.BasketReducers,
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, before.State, after.State)
	assert.Equal(t, before.Version+1, after.Version)
}

func Test_Basket_When_OnlyCreated_Then_BasketIsEmpty(t *testing.T) {
	// act
	basket, found, err := aggregate.Reduce(basketStream(), core.BasketReducers)

	// assert
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, basket.State.Products)
	assert.NotNil(t, basket.State.Products)
	assert.Equal(t, 0, basket.State.ProductCount())
	assert.Equal(t, basket.State.Created, basket.State.Updated)
}

func Test_Basket_When_ReducedTwice_Then_EarlierStateIsNotAliased(t *testing.T) {
	// arrange
	short := basketStream(core.ItemAddedV1, "p1")
	long := basketStream(core.ItemAddedV1, "p1", core.ItemAddedV1, "p1")

	// act
	first, _, err := aggregate.Reduce(short, core.BasketReducers)
	require.NoError(t, err)
	second, _, err := aggregate.Reduce(long, core.BasketReducers)
	require.NoError(t, err)

	// assert
	assert.Equal(t, 1, first.State.AmountOf("p1"))
	assert.Equal(t, 2, second.State.AmountOf("p1"))
}

func Test_Basket_EventTypes(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{core.BasketCreatedV1, core.ItemAddedV1, core.ItemRemovedV1},
		core.BasketReducers.EventTypes(),
	)
}
