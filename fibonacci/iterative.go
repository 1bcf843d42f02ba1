package fibonacci

// Iterative returns F(n) like Fibonacci but scans the bits of n from the most
// significant to the least instead of recursing, so its stack usage does not
// depend on n. It panics with an *IndexError when n is negative.
func Iterative[T Integer](n T) T {
	if n < 0 {
		panic(negativeIndex(n))
	}

	var a, b T = 0, 1 // F(k), F(k+1)
	for i := bitLen(n) - 1; i >= 0; i-- {
		c := a * (b*2 - a)
		d := a*a + b*b
		if (n>>uint(i))&1 == 0 {
			a, b = c, d
		} else {
			a, b = d, c+d
		}
	}
	return a
}

// bitLen returns the number of bits needed to represent a non-negative n.
func bitLen[T Integer](n T) int {
	l := 0
	for ; n > 0; n >>= 1 {
		l++
	}
	return l
}
