package calculator

import (
	"context"
	"fmt"
	"math/big"

	"github.com/agbru/quickfib/fibonacci"
	apperrors "github.com/agbru/quickfib/internal/errors"
	"github.com/agbru/quickfib/internal/progress"
)

// native evaluates F(n) in a built-in integer type with wrapping arithmetic.
type native[T fibonacci.Integer] struct {
	name     string
	bits     int
	maxIndex uint64
}

func newNative[T fibonacci.Integer](name string, bits int) *native[T] {
	return &native[T]{name: name, bits: bits, maxIndex: FitIndex(bits, isSigned[T]())}
}

func (c *native[T]) Name() string { return c.name }

func (c *native[T]) Description() string {
	kind := "unsigned"
	if isSigned[T]() {
		kind = "signed"
	}
	return fmt.Sprintf("%d-bit %s, wraps past F(%d)", c.bits, kind, c.maxIndex)
}

func (c *native[T]) MaxIndex() uint64 { return c.maxIndex }

func (c *native[T]) Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, calcIndex int, n uint64) (Result, error) {
	k, err := c.index(n)
	if err != nil {
		return Result{}, err
	}
	report := reporter(progressChan, calcIndex)
	report(0)
	res, err := run(ctx, func() (Result, error) {
		v := fibonacci.Fibonacci(k)
		return Result{Value: intToBig(v), Overflowed: n > c.maxIndex}, nil
	})
	if err != nil {
		return Result{}, err
	}
	report(1)
	return res, nil
}

func (c *native[T]) CalculateRange(ctx context.Context, from, to uint64) ([]Result, error) {
	first, err := c.index(from)
	if err != nil {
		return nil, err
	}
	last, err := c.index(to)
	if err != nil {
		return nil, err
	}
	return run(ctx, func() ([]Result, error) {
		out := make([]Result, 0)
		i := from
		for k := range fibonacci.Indices(first, last) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out = append(out, Result{Value: intToBig(fibonacci.Fibonacci(k)), Overflowed: i > c.maxIndex})
			i++
		}
		return out, nil
	})
}

// index converts n to T, rejecting indices outside the domain of T.
func (c *native[T]) index(n uint64) (T, error) {
	k := T(n)
	if k < 0 || uint64(k) != n {
		return 0, apperrors.ValidationError{
			Field:   "n",
			Message: fmt.Sprintf("index %d is out of range for the %s backend", n, c.name),
		}
	}
	return k, nil
}

func isSigned[T fibonacci.Integer]() bool {
	var x T
	x--
	return x < 0
}

func intToBig[T fibonacci.Integer](v T) *big.Int {
	if v < 0 {
		return big.NewInt(int64(v))
	}
	return new(big.Int).SetUint64(uint64(v))
}
