// Package titration evaluates the Yale insulin infusion protocol.
//
// Every function here is a pure computation over its arguments: no I/O, no
// clocks, no retained state. History such as the previous BG reading, the
// consecutive-in-target streak or a pending ramp belongs to the caller.
package titration

// Increment is the smallest clinical dose step in units/hr.
const Increment = 0.5

// Target range in mg/dL, inclusive on both ends.
const (
	TargetLowBG  = 120
	TargetHighBG = 160
)

// IsAtTarget reports whether bg lies in the inclusive target range.
func IsAtTarget(bg int) bool {
	return bg >= TargetLowBG && bg <= TargetHighBG
}

// InitialDose returns the first bolus, which is also the first infusion rate,
// for an initial BG reading.
func InitialDose(bg int) float64 {
	return RoundToIncrement(float64(bg)/100, Increment)
}
