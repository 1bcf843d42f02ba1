package checked

import (
	"math/big"

	"github.com/agbru/quickfib/fibonacci/u128"
)

// U128 is a u128.U128 whose arithmetic panics with *OverflowError.
type U128 struct {
	v u128.U128
}

func NewU128(v u128.U128) U128 { return U128{v} }

func U128From64(v uint64) U128 { return U128{u128.From64(v)} }

// Value returns the underlying wrapping value.
func (x U128) Value() u128.U128 { return x.v }

func (U128) FromUint8(v uint8) U128 { return U128{u128.From64(uint64(v))} }

func (x U128) Add(y U128) U128 {
	s := x.v.Add(y.v)
	if s.Cmp(x.v) < 0 {
		overflow("u128", "add")
	}
	return U128{s}
}

func (x U128) Sub(y U128) U128 {
	if x.v.Cmp(y.v) < 0 {
		overflow("u128", "sub")
	}
	return U128{x.v.Sub(y.v)}
}

func (x U128) Mul(y U128) U128 {
	if x.v.IsZero() || y.v.IsZero() {
		return U128{}
	}
	p := x.v.Mul(y.v)
	if x.v.Len()+y.v.Len() > 129 || !p.Quo(x.v).Equal(y.v) {
		overflow("u128", "mul")
	}
	return U128{p}
}

func (x U128) Quo(y U128) U128 { return U128{x.v.Quo(y.v)} }

func (x U128) Rem(y U128) U128 { return U128{x.v.Rem(y.v)} }

func (x U128) Equal(y U128) bool { return x.v.Equal(y.v) }

func (x U128) Big() *big.Int { return x.v.Big() }

func (x U128) String() string { return x.v.String() }
