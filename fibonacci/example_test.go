package fibonacci_test

import (
	"errors"
	"fmt"
	"slices"

	"github.com/agbru/quickfib/fibonacci"
	"github.com/agbru/quickfib/fibonacci/bignum"
	"github.com/agbru/quickfib/fibonacci/u128"
)

func ExampleFibonacci() {
	fmt.Println(fibonacci.Fibonacci(10))
	fmt.Println(fibonacci.Fibonacci[uint64](93))
	fmt.Println(fibonacci.Fibonacci[uint64](94)) // wraps modulo 2^64
	// Output:
	// 55
	// 12200160415121876738
	// 1293530146158671551
}

func ExampleCompute() {
	_, err := fibonacci.Compute(-3)
	fmt.Println(err)
	fmt.Println(errors.Is(err, fibonacci.ErrNegativeIndex))
	// Output:
	// fibonacci: negative index -3
	// true
}

func ExampleRange() {
	fmt.Println(fibonacci.Range(fibonacci.Indices(0, 9)))
	fmt.Println(fibonacci.Range(slices.Values([]uint8{5, 0, 10})))
	// Output:
	// [0 1 1 2 3 5 8 13 21 34]
	// [5 0 55]
}

func ExampleOf() {
	fmt.Println(fibonacci.Of(u128.From64(100)))
	fmt.Println(fibonacci.Of(u128.From64(fibonacci.MaxIndexU128)))
	// Output:
	// 354224848179261915075
	// 332825110087067562321196029789634457848
}

func ExampleRangeOf() {
	for _, f := range fibonacci.RangeOf(slices.Values([]bignum.Int{bignum.New(200), bignum.New(7)})) {
		fmt.Println(f)
	}
	// Output:
	// 280571172992510140037611932413038677189525
	// 13
}
