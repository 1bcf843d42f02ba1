//go:build gmp

package gmpnum_test

import (
	"errors"
	"testing"

	"github.com/agbru/quickfib/fibonacci"
	"github.com/agbru/quickfib/fibonacci/bignum"
	"github.com/agbru/quickfib/fibonacci/gmpnum"
)

func TestFibonacci_MatchesBignum(t *testing.T) {
	t.Parallel()

	for _, n := range []uint64{0, 1, 2, 50, 100, 1000, 10000} {
		if got, want := fibonacci.Of(gmpnum.FromUint64(n)).Big(), bignum.Fibonacci(n); got.Cmp(want) != 0 {
			t.Errorf("F(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestInt_Arithmetic(t *testing.T) {
	t.Parallel()

	const digits = "-123456789012345678901234567890"
	x, err := gmpnum.Parse(digits)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if x.Big().String() != digits || x.Sign() != -1 {
		t.Errorf("x = %s, sign %d", x.Big(), x.Sign())
	}
	if r := gmpnum.New(-15).Rem(gmpnum.New(7)).String(); r != "-1" {
		t.Errorf("-15 %% 7 = %s, want -1", r)
	}
	if q := gmpnum.New(-15).Quo(gmpnum.New(7)).String(); q != "-2" {
		t.Errorf("-15 / 7 = %s, want -2", q)
	}

	var z gmpnum.Int
	if z.String() != "0" {
		t.Errorf("zero value = %s", z.String())
	}

	if _, err := fibonacci.ComputeOf(gmpnum.New(-1)); !errors.Is(err, fibonacci.ErrNegativeIndex) {
		t.Errorf("expected ErrNegativeIndex, got %v", err)
	}
}
