package cqrs

import (
	"errors"
	"fmt"
)

// ErrValidationFailed marks a violated business precondition.
// It is raised before any transaction is started, so nothing needs to be rolled back.
var ErrValidationFailed = errors.New("validation failed")

// ValidationError creates an error matching ErrValidationFailed with a human-readable reason.
func ValidationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, reason)
}

// Retry configuration errors.
var (
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")
	ErrEmptyCommandType    = errors.New("command type must not be empty")
	ErrInvalidMaxAttempts  = errors.New("max attempts must be positive")
	ErrNegativeBaseDelay   = errors.New("base delay must not be negative")
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)
