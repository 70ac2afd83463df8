// Package cqrs holds the command and query contracts and the fixed protocol every command follows.
//
// Commands return an id (creation) or NoResult, never domain state. ExecuteCommand runs them as:
// acquire a connection, run precondition reads outside any transaction, open a transaction,
// then append, reload and project inside it, and commit. A failure inside the transaction rolls
// everything back and the original error propagates unchanged.
//
// Queries read projections only. RunQuery hands them a plain connection, no transaction.
package cqrs

import (
	"context"
)

// Command represents the contract for all command types.
// CommandType identifies the command in logs and metrics.
type Command interface {
	CommandType() string
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// NoResult is the result type of commands that only mutate.
type NoResult struct{}

// CommandHandler processes one command type. R is an aggregate id for creation commands and NoResult otherwise.
type CommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// QueryHandler processes one query type and returns rows read from projections.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
