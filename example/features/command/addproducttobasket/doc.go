// Package addproducttobasket implements the "Add Product to Basket" use case
// following Vertical Feature Slice architecture.
//
// The basket must exist: the precheck reads basket_summaries outside the transaction.
// Adding a product already in the basket increments its amount.
package addproducttobasket
