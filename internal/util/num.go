package util

import "math"

// Numerical guard constants used throughout the share and price math.
const (
	// TinyNumber guards divisions where a denominator may legitimately
	// approach zero (e.g. the non-fixed share pool when fixed shares
	// saturate the market).
	TinyNumber = 1e-24

	// SmallNumber is the tolerance for share comparisons: a share is only
	// "over" a capacity limit if it exceeds it by more than this.
	SmallNumber = 1e-6
)

// IsValidNumber reports whether v is finite and not NaN.
func IsValidNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
