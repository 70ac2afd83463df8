// Package txscope owns connection and transaction lifetimes.
//
// WithConnection acquires one connection and releases it on every exit path, including panics.
// WithTransaction begins a transaction on such a connection, commits when fn succeeds and rolls back
// when fn fails or panics. An error returned by fn is passed through unchanged after a successful
// rollback, so callers can match it with errors.Is or compare identity.
package txscope

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/aggregate-eventstore-go/eventstore"
)

const (
	logMsgAcquireFailed  = "failed to acquire database connection"
	logMsgReleaseFailed  = "failed to release database connection"
	logMsgBeginFailed    = "failed to begin transaction"
	logMsgCommitFailed   = "failed to commit transaction"
	logMsgRollbackFailed = "failed to roll back transaction"
	logMsgRolledBack     = "transaction rolled back"
	logMsgPanicRecovered = "rolled back transaction after panic"
	logAttrError         = "error"
	logAttrCause         = "cause"
)

// Scope hands out connections from a ConnProvider.
type Scope struct {
	provider eventstore.ConnProvider
	logger   eventstore.Logger
}

// Option defines a functional option for configuring Scope.
type Option func(*Scope) error

// WithLogger sets the logger for the Scope.
// Rollbacks are logged at info level, release failures at warn level, failures to commit or roll back at error level.
func WithLogger(logger eventstore.Logger) Option {
	return func(s *Scope) error {
		s.logger = logger
		return nil
	}
}

// NewScope creates a Scope over provider.
func NewScope(provider eventstore.ConnProvider, options ...Option) (Scope, error) {
	if provider == nil {
		return Scope{}, eventstore.ErrNilDatabaseConnection
	}

	s := Scope{provider: provider}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Scope{}, err
		}
	}

	return s, nil
}

// WithConnection acquires a connection, runs fn with it, and releases it afterward.
// If fn succeeded but the release fails, eventstore.ErrReleasingConnectionFailed is returned.
// If fn failed, its error wins and a release failure is only logged.
func WithConnection[T any](
	ctx context.Context,
	scope Scope,
	fn func(ctx context.Context, conn eventstore.DBConn) (T, error),
) (result T, err error) {

	conn, acquireErr := scope.provider.Acquire(ctx)
	if acquireErr != nil {
		scope.logError(logMsgAcquireFailed, acquireErr)
		return result, errors.Join(eventstore.ErrAcquiringConnectionFailed, acquireErr)
	}

	defer func() {
		releaseErr := conn.Release()
		if releaseErr == nil {
			return
		}

		if scope.logger != nil {
			scope.logger.Warn(logMsgReleaseFailed, logAttrError, releaseErr.Error())
		}

		if err == nil {
			err = errors.Join(eventstore.ErrReleasingConnectionFailed, releaseErr)
		}
	}()

	return fn(ctx, conn)
}

// WithTransaction begins a transaction on conn, runs fn inside it, and commits on success.
//
// On failure of fn the transaction is rolled back and fn's error is returned as is.
// If the rollback fails too, the result joins fn's error with eventstore.ErrRollingBackTransactionFailed.
// A failing commit yields eventstore.ErrCommittingTransactionFailed.
// A panic in fn rolls back and re-panics.
func WithTransaction[T any](
	ctx context.Context,
	scope Scope,
	conn eventstore.DBConn,
	fn func(ctx context.Context, tx eventstore.DBTx) (T, error),
) (result T, err error) {

	var zero T

	tx, beginErr := conn.BeginTx(ctx)
	if beginErr != nil {
		scope.logError(logMsgBeginFailed, beginErr)
		return zero, errors.Join(eventstore.ErrBeginningTransactionFailed, beginErr)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				scope.logError(logMsgRollbackFailed, rollbackErr)
			}

			if scope.logger != nil {
				scope.logger.Error(logMsgPanicRecovered, logAttrCause, fmt.Sprint(recovered))
			}

			panic(recovered)
		}
	}()

	result, err = fn(ctx, tx)
	if err != nil {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			scope.logError(logMsgRollbackFailed, rollbackErr, logAttrCause, err.Error())
			return zero, errors.Join(err, eventstore.ErrRollingBackTransactionFailed, rollbackErr)
		}

		if scope.logger != nil {
			scope.logger.Info(logMsgRolledBack, logAttrCause, err.Error())
		}

		return zero, err
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		scope.logError(logMsgCommitFailed, commitErr)
		return zero, errors.Join(eventstore.ErrCommittingTransactionFailed, commitErr)
	}

	return result, nil
}

// InTransaction combines WithConnection and WithTransaction for callers that need no work outside the transaction.
func InTransaction[T any](
	ctx context.Context,
	scope Scope,
	fn func(ctx context.Context, tx eventstore.DBTx) (T, error),
) (T, error) {

	return WithConnection(ctx, scope, func(ctx context.Context, conn eventstore.DBConn) (T, error) {
		return WithTransaction(ctx, scope, conn, fn)
	})
}

func (s Scope) logError(message string, err error, args ...any) {
	if s.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		s.logger.Error(message, allArgs...)
	}
}
