package calculator

import (
	"sync"

	"github.com/agbru/quickfib/fibonacci/bignum"
)

type fitKey struct {
	bits   int
	signed bool
}

var (
	fitMu    sync.Mutex
	fitCache = map[fitKey]uint64{}
)

// FitIndex returns the largest n such that F(n) is representable in an
// integer of the given width. It scans exact values, so it is the reference
// for the MaxIndex constants of package fibonacci. Results are cached.
func FitIndex(bits int, signed bool) uint64 {
	key := fitKey{bits, signed}
	fitMu.Lock()
	defer fitMu.Unlock()
	if n, ok := fitCache[key]; ok {
		return n
	}

	limit := bits
	if signed {
		limit--
	}
	var n uint64
	for bignum.Fibonacci(n+1).BitLen() <= limit {
		n++
	}
	fitCache[key] = n
	return n
}
