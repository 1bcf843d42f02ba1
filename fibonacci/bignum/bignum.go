// Package bignum adapts math/big to fibonacci.Number so the generic kernel can
// produce exact Fibonacci numbers of any size.
//
// Products whose operands both reach FFTThreshold bits are computed with
// Schönhage-Strassen multiplication from github.com/remyoudompheng/bigfft;
// smaller products use math/big (Karatsuba).
package bignum

import (
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/remyoudompheng/bigfft"
)

// DefaultFFTThreshold is the operand size, in bits, from which multiplication
// switches to FFT. Below it math/big's lower constant factors win.
const DefaultFFTThreshold = 500_000

var fftThreshold atomic.Int64

func init() {
	fftThreshold.Store(DefaultFFTThreshold)
}

// SetFFTThreshold changes the FFT crossover for every subsequent
// multiplication. A value <= 0 disables FFT multiplication.
func SetFFTThreshold(bits int) {
	fftThreshold.Store(int64(bits))
}

// FFTThreshold reports the current FFT crossover in bits.
func FFTThreshold() int {
	return int(fftThreshold.Load())
}

// mul returns x*y in a new big.Int.
func mul(x, y *big.Int) *big.Int {
	if t := fftThreshold.Load(); t > 0 &&
		x.Sign() > 0 && y.Sign() > 0 &&
		int64(x.BitLen()) >= t && int64(y.BitLen()) >= t {
		return bigfft.Mul(x, y)
	}
	return new(big.Int).Mul(x, y)
}

// Int is an immutable arbitrary-precision integer. The zero value is 0.
// The wrapped *big.Int is never modified after construction.
type Int struct {
	v *big.Int
}

var zero = new(big.Int)

// New returns an Int holding v.
func New(v int64) Int { return Int{big.NewInt(v)} }

// FromUint64 returns an Int holding v.
func FromUint64(v uint64) Int { return Int{new(big.Int).SetUint64(v)} }

// FromBig returns an Int holding a copy of b.
func FromBig(b *big.Int) Int { return Int{new(big.Int).Set(b)} }

// Parse reads a base-10 integer.
func Parse(s string) (Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int{}, fmt.Errorf("bignum: invalid integer %q", s)
	}
	return Int{v}, nil
}

func (x Int) big() *big.Int {
	if x.v == nil {
		return zero
	}
	return x.v
}

func (Int) FromUint8(v uint8) Int { return Int{big.NewInt(int64(v))} }

func (x Int) Add(y Int) Int { return Int{new(big.Int).Add(x.big(), y.big())} }

func (x Int) Sub(y Int) Int { return Int{new(big.Int).Sub(x.big(), y.big())} }

func (x Int) Mul(y Int) Int { return Int{mul(x.big(), y.big())} }

// Quo truncates toward zero. It panics when y is zero.
func (x Int) Quo(y Int) Int { return Int{new(big.Int).Quo(x.big(), y.big())} }

// Rem has the sign of x. It panics when y is zero.
func (x Int) Rem(y Int) Int { return Int{new(big.Int).Rem(x.big(), y.big())} }

func (x Int) Equal(y Int) bool { return x.big().Cmp(y.big()) == 0 }

func (x Int) Cmp(y Int) int { return x.big().Cmp(y.big()) }

func (x Int) Sign() int { return x.big().Sign() }

// BitLen returns the length of |x| in bits.
func (x Int) BitLen() int { return x.big().BitLen() }

// Big returns a copy of x as a *big.Int the caller may modify.
func (x Int) Big() *big.Int { return new(big.Int).Set(x.big()) }

func (x Int) String() string { return x.big().String() }

// MarshalText implements encoding.TextMarshaler using the decimal form.
func (x Int) MarshalText() ([]byte, error) { return x.big().MarshalText() }
