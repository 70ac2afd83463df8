// Package removeproductfrombasket implements the "Remove Product from Basket" use case
// following Vertical Feature Slice architecture.
//
// Removing the last unit drops the product from the basket. Removing a product that is not in the basket
// is accepted and leaves the basket unchanged; the event is still recorded.
package removeproductfrombasket
