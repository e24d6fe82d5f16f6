package titration

// Recheck intervals in minutes.
const (
	RecheckLowBG    = 15
	RecheckDefault  = 60
	RecheckStable   = 120
	lowBGRecheckCut = 90
	stableStreak    = 2
)

// NextCheckMinutes returns the wait before the next BG measurement.
// Two consecutive in-target readings earn a two hour interval.
func NextCheckMinutes(bg, consecutiveInTarget int) int {
	switch {
	case bg < lowBGRecheckCut:
		return RecheckLowBG
	case IsAtTarget(bg) && consecutiveInTarget == stableStreak:
		return RecheckStable
	default:
		return RecheckDefault
	}
}
