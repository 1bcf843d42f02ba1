package calculator

import (
	"context"
	"errors"
	"math/big"

	"github.com/agbru/quickfib/fibonacci"
	"github.com/agbru/quickfib/fibonacci/bignum"
	"github.com/agbru/quickfib/fibonacci/checked"
	"github.com/agbru/quickfib/fibonacci/u128"
	apperrors "github.com/agbru/quickfib/internal/errors"
	"github.com/agbru/quickfib/internal/progress"
)

// numeric evaluates F(n) in a fibonacci.Number type.
type numeric[T fibonacci.Number[T]] struct {
	name     string
	desc     string
	maxIndex uint64
	// checked backends report overflow through an *checked.OverflowError
	// instead of wrapping.
	checked bool
	conv    func(uint64) T
	toBig   func(T) *big.Int
}

func (c *numeric[T]) Name() string        { return c.name }
func (c *numeric[T]) Description() string { return c.desc }
func (c *numeric[T]) MaxIndex() uint64    { return c.maxIndex }

func (c *numeric[T]) Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, calcIndex int, n uint64) (Result, error) {
	report := reporter(progressChan, calcIndex)
	report(0)
	res, err := run(ctx, func() (Result, error) {
		v, err := c.compute(ctx, c.conv(n))
		if err != nil {
			return Result{}, c.wrapErr(err, n)
		}
		return Result{Value: c.toBig(v), Overflowed: n > c.maxIndex}, nil
	})
	if err != nil {
		return Result{}, err
	}
	report(1)
	return res, nil
}

func (c *numeric[T]) CalculateRange(ctx context.Context, from, to uint64) ([]Result, error) {
	return run(ctx, func() ([]Result, error) {
		out := make([]Result, 0)
		for n := range fibonacci.Indices(from, to) {
			v, err := c.compute(ctx, c.conv(n))
			if err != nil {
				return nil, c.wrapErr(err, n)
			}
			out = append(out, Result{Value: c.toBig(v), Overflowed: n > c.maxIndex})
		}
		return out, nil
	})
}

// compute evaluates F(n), stopping early when ctx ends.
func (c *numeric[T]) compute(ctx context.Context, n T) (T, error) {
	if c.checked {
		return checked.ComputeContext(ctx, n)
	}
	return fibonacci.ComputeContext(ctx, n)
}

func (c *numeric[T]) wrapErr(err error, n uint64) error {
	if errors.Is(err, checked.ErrOverflow) {
		return apperrors.OverflowError{Type: c.name, N: n, Cause: err}
	}
	return err
}

func newU128() Calculator {
	return &numeric[u128.U128]{
		name:     "u128",
		desc:     "128-bit unsigned, wraps past F(186)",
		maxIndex: FitIndex(128, false),
		conv:     u128.From64,
		toBig:    u128.U128.Big,
	}
}

func newChecked64() Calculator {
	return &numeric[checked.Uint64]{
		name:     "checked64",
		desc:     "64-bit unsigned, fails on overflow past F(92)",
		maxIndex: checked.MaxIndexUint64,
		checked:  true,
		conv:     checked.NewUint64,
		toBig:    func(v checked.Uint64) *big.Int { return new(big.Int).SetUint64(v.Value()) },
	}
}

func newChecked128() Calculator {
	return &numeric[checked.U128]{
		name:     "checked128",
		desc:     "128-bit unsigned, fails on overflow past F(185)",
		maxIndex: checked.MaxIndexU128,
		checked:  true,
		conv:     checked.U128From64,
		toBig:    checked.U128.Big,
	}
}

func newBig() Calculator {
	return &numeric[bignum.Int]{
		name:     "big",
		desc:     "arbitrary precision (math/big, FFT multiplication for large operands)",
		maxIndex: Unbounded,
		conv:     bignum.FromUint64,
		toBig:    bignum.Int.Big,
	}
}
