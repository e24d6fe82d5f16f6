package titration

import "math"

// RoundToIncrement rounds x to the nearest multiple of increment.
// A remainder of exactly half an increment rounds up.
func RoundToIncrement(x, increment float64) float64 {
	quotient := math.Floor(x / increment)
	remainder := x - quotient*increment
	base := quotient * increment
	if remainder < increment/2 {
		return base
	}
	return base + increment
}
