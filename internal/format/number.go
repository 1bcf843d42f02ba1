package format

import (
	"fmt"
	"strings"
)

// FormatNumberString inserts thousands separators into a decimal string.
// A leading minus sign is preserved.
func FormatNumberString(s string) string {
	if s == "" {
		return s
	}
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	b.Grow(len(sign) + len(s) + len(s)/3)
	b.WriteString(sign)
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatBytes renders a byte count with binary units (KiB, MiB, ...).
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// TruncateDigits shortens a long decimal string to its first and last k
// digits joined by "...". Strings of at most 2k digits are returned as is.
func TruncateDigits(s string, k int) string {
	if k <= 0 || len(s) <= 2*k {
		return s
	}
	return s[:k] + "..." + s[len(s)-k:]
}
