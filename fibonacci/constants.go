package fibonacci

// ─────────────────────────────────────────────────────────────────────────────
// Width Limits
// ─────────────────────────────────────────────────────────────────────────────
//
// Largest n such that F(n) is representable in the given width. Built-in
// integers still return the exact F(n) up to these indices; past them the
// result wraps.

const (
	MaxIndexInt8   = 11  // F(11) = 89
	MaxIndexUint8  = 13  // F(13) = 233
	MaxIndexInt16  = 23  // F(23) = 28657
	MaxIndexUint16 = 24  // F(24) = 46368
	MaxIndexInt32  = 46  // F(46) = 1836311903
	MaxIndexUint32 = 47  // F(47) = 2971215073
	MaxIndexInt64  = 92  // F(92) = 7540113804746346429
	MaxIndexUint64 = 93  // F(93) = 12200160415121876738
	MaxIndexU128   = 186 // F(186) = 332825110087067562321196029789634457848
)

// ─────────────────────────────────────────────────────────────────────────────
// Growth Estimation
// ─────────────────────────────────────────────────────────────────────────────

const (
	// GrowthFactor is log2(phi), where phi ≈ 1.618 (golden ratio).
	// F(n) has roughly n*GrowthFactor bits.
	GrowthFactor = 0.69424
)

// EstimateBits returns an upper estimate of the bit length of F(n).
func EstimateBits(n uint64) uint64 {
	return uint64(float64(n)*GrowthFactor) + 1
}
