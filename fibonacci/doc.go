// Package fibonacci computes Fibonacci numbers with the fast doubling method.
//
// The identities
//
//	F(2k)   = F(k) * (2*F(k+1) - F(k))
//	F(2k+1) = F(k)² + F(k+1)²
//
// halve the index at every step, so F(n) costs O(log n) arithmetic
// operations on the numeric type.
//
// The index and the result share one type T. Two contracts are offered:
//
//   - [Integer] covers the built-in integer kinds and uses Go operators. See
//     [Fibonacci], [Iterative], [Compute] and [Range].
//   - [Number] is a method set for types that cannot use operators, such as
//     128-bit or arbitrary-precision integers. See [Of], [ComputeOf] and
//     [RangeOf]. Adapters live in the u128, checked, bignum and gmpnum
//     subpackages.
//
// Overflow is a property of T: built-in integers wrap, the checked
// subpackage panics, bignum never overflows. The kernel neither detects nor
// guards against it. Because wrapping arithmetic is exact modulo 2^bits, a
// result that fits T is exact even when intermediate values wrap.
//
// Every function in this package is pure and safe for concurrent use. The
// single-value functions do not allocate.
package fibonacci
