package fibonacci

import (
	"context"
	"iter"
)

// ComputeContext is ComputeOf with cancellation. ctx is checked before each
// product of a doubling step, so a cancelled evaluation stops within one
// multiplication and returns ctx.Err().
func ComputeContext[T Number[T]](ctx context.Context, n T) (T, error) {
	var zero T
	if err := checkSign(n); err != nil {
		return zero, err
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	f, _, err := newLiterals[T]().pairContext(ctx, n)
	if err != nil {
		return zero, err
	}
	return f, nil
}

// RangeContext is RangeOf with cancellation checked between indices and
// inside each evaluation. On error the partial results are discarded.
func RangeContext[T Number[T]](ctx context.Context, indices iter.Seq[T]) ([]T, error) {
	out := make([]T, 0)
	for n := range indices {
		f, err := ComputeContext(ctx, n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (l literals[T]) pairContext(ctx context.Context, k T) (T, T, error) {
	var zero T
	if k.Equal(l.zero) {
		return l.zero, l.one, nil
	}
	a, b, err := l.pairContext(ctx, k.Quo(l.two))
	if err != nil {
		return zero, zero, err
	}
	if err := ctx.Err(); err != nil {
		return zero, zero, err
	}
	c := a.Mul(b.Mul(l.two).Sub(a))
	if err := ctx.Err(); err != nil {
		return zero, zero, err
	}
	aa := a.Mul(a)
	if err := ctx.Err(); err != nil {
		return zero, zero, err
	}
	bb := b.Mul(b)
	d := aa.Add(bb)
	if k.Rem(l.two).Equal(l.zero) {
		return c, d, nil
	}
	return d, c.Add(d), nil
}
