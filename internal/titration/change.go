package titration

import (
	"fmt"
	"math"
)

// BgReading is a BG value in mg/dL taken at Minute on a clock that is
// monotonic within one patient's case.
type BgReading struct {
	BG     int
	Minute float64
}

func (r BgReading) validate(name string) error {
	if r.BG < 0 {
		return fmt.Errorf("%s reading has negative bg %d: %w", name, r.BG, ErrInvalidInput)
	}
	if math.IsNaN(r.Minute) || math.IsInf(r.Minute, 0) {
		return fmt.Errorf("%s reading has non-finite timestamp: %w", name, ErrInvalidInput)
	}
	return nil
}

// HourlyChange converts two readings into a BG change in mg/dL per hour,
// truncated toward zero. The order of the timestamps does not matter, only
// the order of the BG values.
func HourlyChange(current, previous BgReading) (int, error) {
	if err := current.validate("current"); err != nil {
		return 0, err
	}
	if err := previous.validate("previous"); err != nil {
		return 0, err
	}
	hours := math.Abs(current.Minute-previous.Minute) / 60
	if hours == 0 {
		return 0, fmt.Errorf("readings share timestamp %v: %w", current.Minute, ErrInvalidInput)
	}
	return int(math.Trunc(float64(current.BG-previous.BG) / hours)), nil
}
