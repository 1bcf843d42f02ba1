package calculator

import (
	"context"
	"math"
	"math/big"

	"github.com/agbru/quickfib/internal/progress"
)

// Unbounded is the MaxIndex of arbitrary-precision backends.
const Unbounded = math.MaxUint64

// Result is one computed Fibonacci value.
type Result struct {
	// Value is F(n) as returned by the backend, wrapped or exact.
	Value *big.Int
	// Overflowed reports that n is past the backend's largest fitting index,
	// so Value is F(n) reduced modulo the type width.
	Overflowed bool
}

// Calculator evaluates Fibonacci numbers in one numeric backend.
type Calculator interface {
	// Name is the identifier accepted by --algo, e.g. "u64".
	Name() string
	// Description is a one-line human summary of the backend.
	Description() string
	// MaxIndex is the largest n whose F(n) the backend returns exactly, or
	// Unbounded.
	MaxIndex() uint64
	// Calculate computes F(n). Progress updates are sent on progressChan
	// without blocking; progressChan may be nil. It returns ctx.Err() when
	// ctx ends first.
	Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, calcIndex int, n uint64) (Result, error)
	// CalculateRange computes F(from) .. F(to) inclusive.
	CalculateRange(ctx context.Context, from, to uint64) ([]Result, error)
}

type outcome[T any] struct {
	v   T
	err error
}

// run evaluates fn in its own goroutine and returns early when ctx ends.
// fn must observe ctx itself so the goroutine stops soon after. Nothing fn
// does may outlive the call, progress reports included: callers report
// completion after run returns.
func run[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	done := make(chan outcome[T], 1)
	go func() {
		v, err := fn()
		done <- outcome[T]{v, err}
	}()
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case o := <-done:
		return o.v, o.err
	}
}

func reporter(ch chan<- progress.ProgressUpdate, calcIndex int) progress.ProgressCallback {
	if ch == nil {
		return func(float64) {}
	}
	obs := progress.NewChannelObserver(ch)
	return func(p float64) { obs.Update(calcIndex, p) }
}
