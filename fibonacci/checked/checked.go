// Package checked provides fixed-width integers whose arithmetic panics on
// overflow instead of wrapping.
//
// The kernel evaluates F(k+1) alongside F(k), so a checked type faults one
// index below the largest F(n) it can hold: Uint64 supports n <= 92, Int64
// n <= 91 and U128 n <= 185. Compute and Range turn the overflow panic into
// an *OverflowError.
package checked

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/agbru/quickfib/fibonacci"
)

// ErrOverflow is wrapped by every *OverflowError.
var ErrOverflow = errors.New("checked: arithmetic overflow")

// Largest indices the checked types evaluate without faulting.
const (
	MaxIndexUint64 = fibonacci.MaxIndexUint64 - 1
	MaxIndexInt64  = fibonacci.MaxIndexInt64 - 1
	MaxIndexU128   = fibonacci.MaxIndexU128 - 1
)

// OverflowError records which operation left the representable range.
type OverflowError struct {
	Type string // "uint64", "int64", "u128"
	Op   string // "add", "sub", "mul", "quo"
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("checked: %s %s overflows", e.Type, e.Op)
}

func (e *OverflowError) Unwrap() error { return ErrOverflow }

func overflow(typ, op string) {
	panic(&OverflowError{Type: typ, Op: op})
}

// Compute returns F(n), converting an overflow panic into an error.
// Negative indices are reported as fibonacci.ErrNegativeIndex.
func Compute[T fibonacci.Number[T]](n T) (result T, err error) {
	defer recoverOverflow(&err)
	return fibonacci.ComputeOf(n)
}

// ComputeContext is Compute with cancellation, see fibonacci.ComputeContext.
func ComputeContext[T fibonacci.Number[T]](ctx context.Context, n T) (result T, err error) {
	defer recoverOverflow(&err)
	return fibonacci.ComputeContext(ctx, n)
}

// Range is fibonacci.RangeOf with overflow reported as an error. On error
// the partial results are discarded.
func Range[T fibonacci.Number[T]](indices iter.Seq[T]) (out []T, err error) {
	defer func() {
		if err != nil {
			out = nil
		}
	}()
	defer recoverOverflow(&err)
	out = make([]T, 0)
	for n := range indices {
		f, err := fibonacci.ComputeOf(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// recoverOverflow must be deferred directly so that recover takes effect.
func recoverOverflow(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(*OverflowError); ok {
		*err = e
		return
	}
	panic(r)
}
