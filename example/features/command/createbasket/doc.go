// Package createbasket implements the "Create Basket" use case following Vertical Feature Slice architecture.
//
// The CommandHandler appends basket_created_v1 for a new basket id and writes the empty basket summary
// in the same transaction. It returns the new basket id, the only value a command hands back.
package createbasket
