// Package getbasketsummary implements the "Get Basket Summary" query following Vertical Feature Slice architecture.
//
// The summary is read from basket_summaries. An unknown basket is an explicit absent result, not an error.
package getbasketsummary
