package checked

import (
	"math"
	"strconv"
)

// Int64 is an int64 whose arithmetic panics with *OverflowError.
// It implements Sign, so negative indices are rejected.
type Int64 struct {
	v int64
}

func NewInt64(v int64) Int64 { return Int64{v} }

// Value returns the underlying int64.
func (x Int64) Value() int64 { return x.v }

func (Int64) FromUint8(v uint8) Int64 { return Int64{int64(v)} }

func (x Int64) Add(y Int64) Int64 {
	s := x.v + y.v
	if (x.v^s)&(y.v^s) < 0 {
		overflow("int64", "add")
	}
	return Int64{s}
}

func (x Int64) Sub(y Int64) Int64 {
	d := x.v - y.v
	if (x.v^y.v)&(x.v^d) < 0 {
		overflow("int64", "sub")
	}
	return Int64{d}
}

func (x Int64) Mul(y Int64) Int64 {
	if x.v == 0 || y.v == 0 {
		return Int64{}
	}
	p := x.v * y.v
	if (x.v == -1 && y.v == math.MinInt64) || (y.v == -1 && x.v == math.MinInt64) || p/y.v != x.v {
		overflow("int64", "mul")
	}
	return Int64{p}
}

func (x Int64) Quo(y Int64) Int64 {
	if x.v == math.MinInt64 && y.v == -1 {
		overflow("int64", "quo")
	}
	return Int64{x.v / y.v}
}

func (x Int64) Rem(y Int64) Int64 {
	if y.v == -1 {
		return Int64{}
	}
	return Int64{x.v % y.v}
}

func (x Int64) Equal(y Int64) bool { return x.v == y.v }

func (x Int64) Sign() int {
	switch {
	case x.v < 0:
		return -1
	case x.v > 0:
		return 1
	}
	return 0
}

func (x Int64) String() string { return strconv.FormatInt(x.v, 10) }
