//go:build gmp

package calculator

import (
	"math/big"

	"github.com/agbru/quickfib/fibonacci/gmpnum"
)

func init() {
	extraBackends = append(extraBackends, func() Calculator {
		return &numeric[gmpnum.Int]{
			name:     "gmp",
			desc:     "arbitrary precision (GMP)",
			maxIndex: Unbounded,
			conv:     gmpnum.FromUint64,
			toBig:    func(v gmpnum.Int) *big.Int { return v.Big() },
		}
	})
}
