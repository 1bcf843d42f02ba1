package calculator

import (
	"context"

	"github.com/agbru/quickfib/fibonacci/bignum"
	"github.com/agbru/quickfib/internal/progress"
)

// iterative is the arbitrary-precision bit-scan variant. It is the only
// backend with fine-grained progress and in-flight cancellation.
type iterative struct{}

func newBigIterative() Calculator { return iterative{} }

func (iterative) Name() string { return "big-iterative" }

func (iterative) Description() string {
	return "arbitrary precision, iterative bit scan with progress"
}

func (iterative) MaxIndex() uint64 { return Unbounded }

func (iterative) Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, calcIndex int, n uint64) (Result, error) {
	v, err := bignum.Iterative(ctx, n, reporter(progressChan, calcIndex))
	if err != nil {
		return Result{}, err
	}
	return Result{Value: v}, nil
}

func (iterative) CalculateRange(ctx context.Context, from, to uint64) ([]Result, error) {
	if from > to {
		return []Result{}, nil
	}
	out := make([]Result, 0, min(to-from+1, 1<<16))
	for n := from; ; n++ {
		v, err := bignum.Iterative(ctx, n, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, Result{Value: v})
		if n == to {
			return out, nil
		}
	}
}
