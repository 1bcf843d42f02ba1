// Package u128 provides an unsigned 128-bit integer with wrapping
// arithmetic that satisfies fibonacci.Number.
//
// Arithmetic is modulo 2^128, matching the behaviour of Go's built-in
// unsigned integers. Every F(n) with n <= fibonacci.MaxIndexU128 is therefore
// computed exactly.
package u128

import (
	"errors"
	"fmt"
	"math/big"

	"lukechampine.com/uint128"
)

// ErrRange is returned when a value does not fit in 128 unsigned bits.
var ErrRange = errors.New("u128: value out of range")

// U128 is an immutable unsigned 128-bit integer. The zero value is 0.
type U128 struct {
	v uint128.Uint128
}

var (
	// Zero is the U128 value 0.
	Zero = U128{}
	// Max is the largest U128 value, 2^128 - 1.
	Max = U128{uint128.Max}
)

// From64 converts a uint64.
func From64(v uint64) U128 { return U128{uint128.From64(v)} }

// New builds a U128 from its low and high 64-bit halves.
func New(lo, hi uint64) U128 { return U128{uint128.New(lo, hi)} }

// FromBig converts b, failing when it is negative or wider than 128 bits.
func FromBig(b *big.Int) (U128, error) {
	if b.Sign() < 0 || b.BitLen() > 128 {
		return Zero, fmt.Errorf("%w: %s", ErrRange, b)
	}
	return U128{uint128.FromBig(b)}, nil
}

// Parse reads a base-10 representation.
func Parse(s string) (U128, error) {
	v, err := uint128.FromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrRange, s)
	}
	return U128{v}, nil
}

// Must panics if err is non-nil. It is meant for constants in tests and
// package-level variables.
func Must(u U128, err error) U128 {
	if err != nil {
		panic(err)
	}
	return u
}

func (U128) FromUint8(v uint8) U128 { return From64(uint64(v)) }

func (x U128) Add(y U128) U128 { return U128{x.v.AddWrap(y.v)} }

func (x U128) Sub(y U128) U128 { return U128{x.v.SubWrap(y.v)} }

func (x U128) Mul(y U128) U128 { return U128{x.v.MulWrap(y.v)} }

// Quo panics when y is zero.
func (x U128) Quo(y U128) U128 { return U128{x.v.Div(y.v)} }

// Rem panics when y is zero.
func (x U128) Rem(y U128) U128 { return U128{x.v.Mod(y.v)} }

func (x U128) Equal(y U128) bool { return x.v.Equals(y.v) }

// Cmp compares x and y and returns -1, 0 or +1.
func (x U128) Cmp(y U128) int { return x.v.Cmp(y.v) }

func (x U128) IsZero() bool { return x.v.IsZero() }

// Len returns the minimum number of bits required to represent x.
func (x U128) Len() int { return x.v.Len() }

// Halves returns the low and high 64-bit words of x.
func (x U128) Halves() (lo, hi uint64) { return x.v.Lo, x.v.Hi }

// Big returns x as a newly allocated *big.Int.
func (x U128) Big() *big.Int { return x.v.Big() }

func (x U128) String() string { return x.v.String() }

// MarshalText implements encoding.TextMarshaler using the decimal form.
func (x U128) MarshalText() ([]byte, error) { return []byte(x.v.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (x *U128) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*x = v
	return nil
}
