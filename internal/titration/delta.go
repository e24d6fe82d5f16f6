package titration

// deltaBand covers rates strictly below upTo.
type deltaBand struct {
	upTo  float64
	delta float64
}

// The protocol table leaves 6-6.5, 9.5-10, 14.5-15 and 19.5-20 undefined.
// Each band here runs up to the start of the next one, so a rate in a gap
// keeps the lower band's step.
var deltaSchedule = []deltaBand{
	{upTo: 3, delta: Increment},
	{upTo: 6.5, delta: Increment * 2},
	{upTo: 10, delta: Increment * 3},
	{upTo: 15, delta: Increment * 4},
	{upTo: 20, delta: Increment * 6},
}

const topDelta = Increment * 8

// DeltaForRate returns the step size in units/hr used to adjust an infusion
// currently running at rate.
func DeltaForRate(rate float64) float64 {
	for _, b := range deltaSchedule {
		if rate < b.upTo {
			return b.delta
		}
	}
	return topDelta
}
