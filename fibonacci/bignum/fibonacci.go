package bignum

import (
	"context"
	"errors"
	"math/big"
	"math/bits"
	"strings"

	"github.com/agbru/quickfib/fibonacci"
	"github.com/agbru/quickfib/internal/progress"
)

// ErrInvalidModulus is returned by FibonacciMod for a nil or non-positive modulus.
var ErrInvalidModulus = errors.New("bignum: modulus must be positive")

// Fibonacci returns the exact F(n) computed by the generic kernel.
func Fibonacci(n uint64) *big.Int {
	return fibonacci.Of(FromUint64(n)).Big()
}

// Iterative returns the exact F(n) by scanning the bits of n from the most
// significant down, reusing the same registers across steps. progress, if
// not nil, receives the completed fraction in [0, 1], weighted by the cost of
// each doubling step, and always 1 at the end. The context is checked once
// per bit.
//
//	F(2k)   = F(k) * (2*F(k+1) - F(k))
//	F(2k+1) = F(k+1)² + F(k)²
func Iterative(ctx context.Context, n uint64, report func(float64)) (*big.Int, error) {
	fk := big.NewInt(0)  // F(k)
	fk1 := big.NewInt(1) // F(k+1)
	// Sized for the final value so Lsh and Sub on t do not reallocate.
	t := new(big.Int).SetBits(make([]big.Word, 0, fibonacci.EstimateBits(n)/bits.UintSize+1))

	numBits := bits.Len64(n)
	totalWork := progress.CalcTotalWork(numBits)
	powers := progress.PrecomputePowers4(numBits)
	var workDone, lastReported float64

	for i := numBits - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// F(2k)
		t.Lsh(fk1, 1)
		t.Sub(t, fk)
		f2k := mul(fk, t)

		// F(2k+1)
		f2k1 := mul(fk1, fk1)
		f2k1.Add(f2k1, mul(fk, fk))

		if (n>>uint(i))&1 == 1 {
			f2k.Add(f2k, f2k1)
			fk, fk1 = f2k1, f2k
		} else {
			fk, fk1 = f2k, f2k1
		}

		if report != nil {
			workDone = progress.ReportStepProgress(report, &lastReported, totalWork, workDone, i, numBits, powers)
		}
	}
	if report != nil && numBits == 0 {
		report(1)
	}
	return fk, nil
}

// FibonacciMod computes F(n) mod m. Memory use is O(log m) regardless of n,
// which makes it suitable for the last K digits of F(n) for very large n.
func FibonacciMod(n uint64, m *big.Int) (*big.Int, error) {
	if m == nil || m.Sign() <= 0 {
		return nil, ErrInvalidModulus
	}

	fk := big.NewInt(0)
	fk1 := big.NewInt(1)
	t1 := new(big.Int)
	t2 := new(big.Int)

	for i := bits.Len64(n) - 1; i >= 0; i-- {
		// F(2k) = F(k) * (2*F(k+1) - F(k)) mod m
		t1.Lsh(fk1, 1)
		t1.Sub(t1, fk)
		t1.Mod(t1, m) // Mod is Euclidean, so t1 is non-negative
		t1.Mul(t1, fk)
		t1.Mod(t1, m)

		// F(2k+1) = F(k+1)² + F(k)² mod m
		t2.Mul(fk1, fk1)
		fk.Mul(fk, fk)
		t2.Add(t2, fk)
		t2.Mod(t2, m)

		fk.Set(t1)
		fk1.Set(t2)

		if (n>>uint(i))&1 == 1 {
			t1.Add(fk, fk1)
			t1.Mod(t1, m)
			fk.Set(fk1)
			fk1.Set(t1)
		}
	}

	return fk.Mod(fk, m), nil
}

// LastDigits returns the last k decimal digits of F(n), left-padded with
// zeros to exactly k digits.
func LastDigits(n uint64, k int) (string, error) {
	if k <= 0 {
		return "", ErrInvalidModulus
	}
	mod := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(k)), nil)
	r, err := FibonacciMod(n, mod)
	if err != nil {
		return "", err
	}
	s := r.String()
	if pad := k - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s, nil
}
