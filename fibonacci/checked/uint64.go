package checked

import (
	"math/bits"
	"strconv"
)

// Uint64 is a uint64 whose arithmetic panics with *OverflowError.
type Uint64 struct {
	v uint64
}

func NewUint64(v uint64) Uint64 { return Uint64{v} }

// Value returns the underlying uint64.
func (x Uint64) Value() uint64 { return x.v }

func (Uint64) FromUint8(v uint8) Uint64 { return Uint64{uint64(v)} }

func (x Uint64) Add(y Uint64) Uint64 {
	s, carry := bits.Add64(x.v, y.v, 0)
	if carry != 0 {
		overflow("uint64", "add")
	}
	return Uint64{s}
}

func (x Uint64) Sub(y Uint64) Uint64 {
	d, borrow := bits.Sub64(x.v, y.v, 0)
	if borrow != 0 {
		overflow("uint64", "sub")
	}
	return Uint64{d}
}

func (x Uint64) Mul(y Uint64) Uint64 {
	hi, lo := bits.Mul64(x.v, y.v)
	if hi != 0 {
		overflow("uint64", "mul")
	}
	return Uint64{lo}
}

func (x Uint64) Quo(y Uint64) Uint64 { return Uint64{x.v / y.v} }

func (x Uint64) Rem(y Uint64) Uint64 { return Uint64{x.v % y.v} }

func (x Uint64) Equal(y Uint64) bool { return x.v == y.v }

func (x Uint64) String() string { return strconv.FormatUint(x.v, 10) }
