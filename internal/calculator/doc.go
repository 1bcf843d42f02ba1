// Package calculator adapts the generic fast-doubling kernel to the
// application: each Calculator evaluates F(n) for a uint64 index in one
// numeric backend and normalises the result to *big.Int for presentation.
//
// Wrapping backends (u8 ... u128) flag results past their largest fitting
// index as overflowed; checked backends report an apperrors.OverflowError
// instead; arbitrary-precision backends are exact for every index.
package calculator
