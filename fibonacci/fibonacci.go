package fibonacci

import "golang.org/x/exp/constraints"

// Integer is the set of built-in integer types usable as both index and
// result. Named types with an integer underlying type are included.
type Integer interface {
	constraints.Integer
}

// Fibonacci returns F(n), 0-indexed: F(0)=0, F(1)=1, F(2)=1.
//
// The result is exact while T can represent it. Past that point the result
// is whatever T's wrapping arithmetic produces. Fibonacci panics with an
// *IndexError when n is negative.
//
// Example:
//
//	fibonacci.Fibonacci(20)          // 6765
//	fibonacci.Fibonacci[uint64](93)  // 12200160415121876738
func Fibonacci[T Integer](n T) T {
	if n < 0 {
		panic(negativeIndex(n))
	}
	f, _ := pair(n)
	return f
}

// Compute is Fibonacci with the negative-index check reported as an error
// instead of a panic.
func Compute[T Integer](n T) (T, error) {
	if n < 0 {
		return 0, negativeIndex(n)
	}
	f, _ := pair(n)
	return f, nil
}

// pair returns (F(k), F(k+1)). The recursion depth is the bit length of k.
func pair[T Integer](k T) (T, T) {
	if k == 0 {
		return 0, 1
	}
	a, b := pair(k / 2)
	c := a * (b*2 - a) // F(2j) with j = k/2
	d := a*a + b*b     // F(2j+1)
	if k%2 == 0 {
		return c, d
	}
	return d, c + d
}
