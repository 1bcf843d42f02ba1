package fibonacci

import (
	"errors"
	"fmt"
)

// ErrNegativeIndex is reported when a Fibonacci index is below zero.
var ErrNegativeIndex = errors.New("fibonacci: negative index")

// IndexError describes a rejected index. It wraps ErrNegativeIndex.
type IndexError struct {
	// Index is the formatted value of the rejected index.
	Index string
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("fibonacci: negative index %s", e.Index)
}

// Unwrap returns ErrNegativeIndex.
func (e *IndexError) Unwrap() error { return ErrNegativeIndex }

func negativeIndex(n any) *IndexError {
	return &IndexError{Index: fmt.Sprint(n)}
}
