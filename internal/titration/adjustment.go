package titration

import (
	"encoding/json"
	"fmt"
)

// Kind tells an immediate rate change apart from a stop-then-ramp.
type Kind int

const (
	// KindImmediate sets the rate now.
	KindImmediate Kind = iota
	// KindRamp holds a rate for a while, then switches to another.
	KindRamp
)

func (k Kind) String() string {
	switch k {
	case KindImmediate:
		return "immediate"
	case KindRamp:
		return "ramp"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Adjustment is the outcome of one titration step.
//
// For KindImmediate, Rate applies now and the ramp fields are zero. For
// KindRamp, Rate is held (usually 0, i.e. infusion stopped) until RampAfter
// minutes have elapsed, then RampRate applies. The caller re-evaluates once
// the ramp is due.
type Adjustment struct {
	Kind      Kind
	Rate      float64
	RampAfter int
	RampRate  float64
}

// Immediate applies rate now.
func Immediate(rate float64) Adjustment {
	return Adjustment{Kind: KindImmediate, Rate: rate}
}

// DelayedRamp holds at hold until afterMinutes, then switches to next.
func DelayedRamp(hold float64, afterMinutes int, next float64) Adjustment {
	return Adjustment{Kind: KindRamp, Rate: hold, RampAfter: afterMinutes, RampRate: next}
}

// IsStop reports whether the infusion is off right now.
func (a Adjustment) IsStop() bool {
	return a.Rate == 0
}

// Segment is one (delay_minutes, rate) pair.
type Segment struct {
	DelayMinutes int
	Rate         float64
}

// MarshalJSON encodes the segment as a two element array.
func (s Segment) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{s.DelayMinutes, s.Rate})
}

// UnmarshalJSON decodes a [delay_minutes, rate] array.
func (s *Segment) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("segment must be [delay_minutes, rate]: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("segment must be [delay_minutes, rate], got %d values", len(pair))
	}
	s.DelayMinutes = int(pair[0])
	s.Rate = pair[1]
	return nil
}

// Segments renders the adjustment as the ordered pair list used on the wire.
func (a Adjustment) Segments() []Segment {
	if a.Kind == KindRamp {
		return []Segment{
			{DelayMinutes: 0, Rate: a.Rate},
			{DelayMinutes: a.RampAfter, Rate: a.RampRate},
		}
	}
	return []Segment{{DelayMinutes: 0, Rate: a.Rate}}
}

// MarshalJSON encodes the adjustment as its segment list.
func (a Adjustment) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Segments())
}

// UnmarshalJSON accepts one segment (immediate) or two (ramp).
func (a *Adjustment) UnmarshalJSON(b []byte) error {
	var segs []Segment
	if err := json.Unmarshal(b, &segs); err != nil {
		return err
	}
	switch len(segs) {
	case 1:
		*a = Immediate(segs[0].Rate)
	case 2:
		*a = DelayedRamp(segs[0].Rate, segs[1].DelayMinutes, segs[1].Rate)
	default:
		return fmt.Errorf("rate adjustment needs 1 or 2 segments, got %d", len(segs))
	}
	return nil
}
