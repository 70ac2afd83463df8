package core

import (
	"slices"
	"time"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore/aggregate"
)

// Basket event types.
const (
	BasketCreatedV1 = "basket_created_v1"
	ItemAddedV1     = "item_added_v1"
	ItemRemovedV1   = "item_removed_v1"
)

// BasketCreated is the payload of BasketCreatedV1. A new basket carries no data.
type BasketCreated struct{}

// ItemAdded is the payload of ItemAddedV1: one unit of a product was put into the basket.
type ItemAdded struct {
	ProductID ProductIDString `json:"productId"`
}

// ItemRemoved is the payload of ItemRemovedV1: one unit of a product was taken out.
type ItemRemoved struct {
	ProductID ProductIDString `json:"productId"`
}

// ProductLine is one product in a basket with its amount. Amount is always > 0.
type ProductLine struct {
	ProductID ProductIDString `json:"productId"`
	Amount    int             `json:"amount"`
}

// Basket is the materialized state of a shopping basket.
// Products keep the order in which they were first added.
type Basket struct {
	Products []ProductLine
	Created  time.Time
	Updated  time.Time
}

// ProductCount returns the number of units in the basket.
func (b Basket) ProductCount() int {
	count := 0
	for _, line := range b.Products {
		count += line.Amount
	}

	return count
}

// DistinctProducts returns the number of different products in the basket.
func (b Basket) DistinctProducts() int {
	return len(b.Products)
}

// AmountOf returns how many units of productID are in the basket.
func (b Basket) AmountOf(productID ProductIDString) int {
	for _, line := range b.Products {
		if line.ProductID == productID {
			return line.Amount
		}
	}

	return 0
}

// BasketReducers is the reducer table of the Basket aggregate.
var BasketReducers = aggregate.MustNewReducers(
	aggregate.Register(BasketCreatedV1, onBasketCreated),
	aggregate.Register(ItemAddedV1, onItemAdded),
	aggregate.Register(ItemRemovedV1, onItemRemoved),
)

func onBasketCreated(state Basket, _ BasketCreated, metadata aggregate.EventMetadata) Basket {
	state.Products = []ProductLine{}
	state.Created = metadata.InsertedUTC
	state.Updated = metadata.InsertedUTC

	return state
}

func onItemAdded(state Basket, payload ItemAdded, metadata aggregate.EventMetadata) Basket {
	products := slices.Clone(state.Products)

	i := slices.IndexFunc(products, func(line ProductLine) bool { return line.ProductID == payload.ProductID })
	if i < 0 {
		products = append(products, ProductLine{ProductID: payload.ProductID, Amount: 1})
	} else {
		products[i].Amount++
	}

	state.Products = products
	state.Updated = metadata.InsertedUTC

	return state
}

// onItemRemoved drops one unit; the line disappears at zero. Removing a product that is not
// in the basket changes nothing, not even the updated timestamp.
func onItemRemoved(state Basket, payload ItemRemoved, metadata aggregate.EventMetadata) Basket {
	i := slices.IndexFunc(state.Products, func(line ProductLine) bool { return line.ProductID == payload.ProductID })
	if i < 0 {
		return state
	}

	products := slices.Clone(state.Products)
	products[i].Amount--

	if products[i].Amount == 0 {
		products = slices.Delete(products, i, i+1)
	}

	state.Products = products
	state.Updated = metadata.InsertedUTC

	return state
}
