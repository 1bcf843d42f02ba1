package apperrors

import (
	"fmt"
	"time"
)

// Process exit statuses.
const (
	ExitSuccess       = 0
	ExitErrorGeneric  = 1
	ExitErrorTimeout  = 2
	ExitErrorMismatch = 3 // exact results of two backends differ
	ExitErrorConfig   = 4
	ExitErrorOverflow = 5 // a checked backend could not represent F(n)
	ExitErrorCanceled = 130
)

// ConfigError is a problem with flags or environment values. It maps to
// ExitErrorConfig.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError formats a ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// TimeoutError reports that Operation ran past Limit.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError rejects one input field, for example an index above a
// backend's limit.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// OverflowError is returned by the checked backends when F(N) does not fit
// in Type. Cause holds the arithmetic fault, when there is one.
type OverflowError struct {
	Type  string
	N     uint64
	Cause error
}

func (e OverflowError) Error() string {
	return fmt.Sprintf("F(%d) overflows the %s backend", e.N, e.Type)
}

func (e OverflowError) Unwrap() error { return e.Cause }
