package titration

// RampDelayMinutes is how long the infusion stays off before a
// stop-then-ramp resumes at the reduced rate.
const RampDelayMinutes = 30

// StopBelowBG is the BG floor under which insulin is held entirely.
const StopBelowBG = 100

type outcome int

const (
	increaseTwoSteps outcome = iota
	increaseOneStep
	holdRate
	decreaseOneStep
	stopThenRamp
)

// rule pairs an hourly-change predicate with the outcome it selects.
type rule struct {
	match func(change int) bool
	then  outcome
}

// zone holds the rules for BG values at or above minBG. Rules are tried in
// order and the first match wins.
type zone struct {
	minBG int
	rules []rule
}

func above(n int) func(int) bool {
	return func(c int) bool { return c > n }
}

func below(n int) func(int) bool {
	return func(c int) bool { return c < n }
}

func within(lo, hi int) func(int) bool {
	return func(c int) bool { return c >= lo && c <= hi }
}

// zones is ordered from the highest BG floor down.
var zones = []zone{
	{minBG: 200, rules: []rule{
		{above(0), increaseTwoSteps},
		{within(-20, 0), increaseOneStep},
		{within(-60, -21), holdRate},
		{within(-80, -61), decreaseOneStep},
		{below(-80), stopThenRamp},
	}},
	{minBG: 160, rules: []rule{
		{above(60), increaseTwoSteps},
		{within(0, 60), increaseOneStep},
		{within(-40, -1), holdRate},
		{within(-60, -41), decreaseOneStep},
		{below(-60), stopThenRamp},
	}},
	{minBG: 120, rules: []rule{
		{above(40), increaseOneStep},
		{within(-20, 40), holdRate},
		{within(-40, -21), decreaseOneStep},
		{below(-40), stopThenRamp},
	}},
	{minBG: StopBelowBG, rules: []rule{
		{above(0), holdRate},
		{within(-20, 0), decreaseOneStep},
		{below(-20), stopThenRamp},
	}},
}

// Adjust selects the next infusion rate for a patient at bg whose infusion
// runs at rate and whose BG moved by change mg/dL over the last hour.
// Computed rates never go below zero.
func Adjust(rate float64, bg, change int) Adjustment {
	if bg < StopBelowBG {
		return Immediate(0)
	}
	for _, z := range zones {
		if bg < z.minBG {
			continue
		}
		return apply(evaluate(z.rules, change), rate)
	}
	return Immediate(0)
}

func evaluate(rules []rule, change int) outcome {
	for _, r := range rules {
		if r.match(change) {
			return r.then
		}
	}
	// every zone ends with an open-ended predicate, so this is unreachable
	return holdRate
}

func apply(o outcome, rate float64) Adjustment {
	d := DeltaForRate(rate)
	switch o {
	case increaseTwoSteps:
		return Immediate(floorZero(rate + 2*d))
	case increaseOneStep:
		return Immediate(floorZero(rate + d))
	case decreaseOneStep:
		return Immediate(floorZero(rate - d))
	case stopThenRamp:
		return DelayedRamp(0, RampDelayMinutes, floorZero(rate-2*d))
	default:
		return Immediate(floorZero(rate))
	}
}

func floorZero(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	return rate
}
