package fibonacci

// Number is the arithmetic contract for index/result types that cannot use
// Go operators. Implementations are immutable values: every method returns
// a new value and leaves its receiver and argument untouched.
//
// FromUint8 builds a small constant. It is called on the zero value of T and
// must not depend on the receiver.
//
// Quo and Rem truncate toward zero, like Go's / and % operators.
//
// A type that also implements Sign() int has negative indices rejected by
// Of, ComputeOf and RangeOf.
type Number[T any] interface {
	FromUint8(v uint8) T
	Add(y T) T
	Sub(y T) T
	Mul(y T) T
	Quo(y T) T
	Rem(y T) T
	Equal(y T) bool
}

type signer interface {
	Sign() int
}

// Of returns F(n) for a Number type. Overflow behaviour is that of T.
// It panics with an *IndexError when T reports a negative sign for n.
func Of[T Number[T]](n T) T {
	if err := checkSign(n); err != nil {
		panic(err)
	}
	f, _ := newLiterals[T]().pair(n)
	return f
}

// ComputeOf is Of with the negative-index check reported as an error.
func ComputeOf[T Number[T]](n T) (T, error) {
	if err := checkSign(n); err != nil {
		var zero T
		return zero, err
	}
	f, _ := newLiterals[T]().pair(n)
	return f, nil
}

func checkSign[T any](n T) error {
	if s, ok := any(n).(signer); ok && s.Sign() < 0 {
		return negativeIndex(n)
	}
	return nil
}

// literals caches the constants 0, 1 and 2 of T for one evaluation.
type literals[T Number[T]] struct {
	zero, one, two T
}

func newLiterals[T Number[T]]() literals[T] {
	var t T
	return literals[T]{zero: t.FromUint8(0), one: t.FromUint8(1), two: t.FromUint8(2)}
}

func (l literals[T]) pair(k T) (T, T) {
	if k.Equal(l.zero) {
		return l.zero, l.one
	}
	a, b := l.pair(k.Quo(l.two))
	c := a.Mul(b.Mul(l.two).Sub(a))
	d := a.Mul(a).Add(b.Mul(b))
	if k.Rem(l.two).Equal(l.zero) {
		return c, d
	}
	return d, c.Add(d)
}
