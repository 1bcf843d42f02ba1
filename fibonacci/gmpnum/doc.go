// Package gmpnum adapts GMP integers (github.com/ncw/gmp) to
// fibonacci.Number.
//
// The implementation is compiled only with the "gmp" build tag, which
// requires libgmp and cgo:
//
//	go build -tags=gmp ./...
//
// System requirements:
//   - Linux: apt-get install libgmp-dev
//   - macOS: brew install gmp
package gmpnum
