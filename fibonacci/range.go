package fibonacci

import "iter"

// Range evaluates Fibonacci for every index produced by indices, in order.
// Each element is computed from scratch; nothing is shared between them.
// The returned slice is freshly allocated and has one entry per index.
//
// Any finite sequence works: Indices for a contiguous range, slices.Values
// for an arbitrary collection.
//
//	fibonacci.Range(fibonacci.Indices(0, 9)) // [0 1 1 2 3 5 8 13 21 34]
func Range[T Integer](indices iter.Seq[T]) []T {
	out := make([]T, 0)
	for n := range indices {
		out = append(out, Fibonacci(n))
	}
	return out
}

// RangeOf is Range for Number types.
func RangeOf[T Number[T]](indices iter.Seq[T]) []T {
	out := make([]T, 0)
	for n := range indices {
		out = append(out, Of(n))
	}
	return out
}

// Indices yields from, from+1, ..., to. It yields nothing when from > to and
// stops at to even when to is the largest value of T.
func Indices[T Integer](from, to T) iter.Seq[T] {
	return func(yield func(T) bool) {
		if from > to {
			return
		}
		for i := from; ; i++ {
			if !yield(i) || i == to {
				return
			}
		}
	}
}
