//go:build gmp

package gmpnum

import (
	"fmt"
	"math/big"

	"github.com/ncw/gmp"
)

// Int is an immutable GMP integer. The zero value is 0.
type Int struct {
	v *gmp.Int
}

var zero = gmp.NewInt(0)

// New returns an Int holding v.
func New(v int64) Int { return Int{gmp.NewInt(v)} }

// FromUint64 returns an Int holding v.
func FromUint64(v uint64) Int { return Int{new(gmp.Int).SetUint64(v)} }

// Parse reads a base-10 integer.
func Parse(s string) (Int, error) {
	v, ok := new(gmp.Int).SetString(s, 10)
	if !ok {
		return Int{}, fmt.Errorf("gmpnum: invalid integer %q", s)
	}
	return Int{v}, nil
}

func (x Int) raw() *gmp.Int {
	if x.v == nil {
		return zero
	}
	return x.v
}

func (Int) FromUint8(v uint8) Int { return Int{gmp.NewInt(int64(v))} }

func (x Int) Add(y Int) Int { return Int{new(gmp.Int).Add(x.raw(), y.raw())} }

func (x Int) Sub(y Int) Int { return Int{new(gmp.Int).Sub(x.raw(), y.raw())} }

func (x Int) Mul(y Int) Int { return Int{new(gmp.Int).Mul(x.raw(), y.raw())} }

func (x Int) Quo(y Int) Int { return Int{new(gmp.Int).Quo(x.raw(), y.raw())} }

func (x Int) Rem(y Int) Int { return Int{new(gmp.Int).Rem(x.raw(), y.raw())} }

func (x Int) Equal(y Int) bool { return x.raw().Cmp(y.raw()) == 0 }

func (x Int) Sign() int { return x.raw().Sign() }

// Big converts x to a standard library big.Int.
func (x Int) Big() *big.Int {
	b := new(big.Int).SetBytes(x.raw().Bytes())
	if x.Sign() < 0 {
		b.Neg(b)
	}
	return b
}

func (x Int) String() string { return x.raw().String() }
