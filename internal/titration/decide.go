package titration

import (
	"fmt"
	"math"
)

// Request is a normalized titration request. A nil CurrentRate selects the
// initial-dose path; otherwise the trend fields must be present too.
type Request struct {
	CurrentBG           int      `json:"current_bg"`
	CurrentRate         *float64 `json:"current_rate,omitempty"`
	HourlyBGChange      *int     `json:"hourly_bg_change,omitempty"`
	ConsecutiveInTarget *int     `json:"consecutive_in_target_count,omitempty"`
}

// InitialRequest builds a request for a patient not yet on an infusion.
func InitialRequest(bg int) Request {
	return Request{CurrentBG: bg}
}

// OngoingRequest builds a request for a running infusion.
func OngoingRequest(bg int, rate float64, hourlyChange, consecutiveInTarget int) Request {
	return Request{
		CurrentBG:           bg,
		CurrentRate:         &rate,
		HourlyBGChange:      &hourlyChange,
		ConsecutiveInTarget: &consecutiveInTarget,
	}
}

// IsInitial reports whether the request takes the initial-dose path.
func (r Request) IsInitial() bool {
	return r.CurrentRate == nil
}

// Result is the decision for one request. Dose is set on the initial path
// only, where it is both the bolus and the starting rate.
type Result struct {
	Adjustment       Adjustment `json:"rate_adjustment"`
	AtTarget         bool       `json:"at_target"`
	NextCheckMinutes int        `json:"next_check_minutes"`
	Dose             *float64   `json:"dose,omitempty"`
}

// Decide validates req and routes it to the initial-dose rule or to the rule
// matrix and recheck scheduler.
func Decide(req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	if req.IsInitial() {
		dose := InitialDose(req.CurrentBG)
		return Result{
			Adjustment:       Immediate(dose),
			AtTarget:         IsAtTarget(req.CurrentBG),
			NextCheckMinutes: NextCheckMinutes(req.CurrentBG, 0),
			Dose:             &dose,
		}, nil
	}

	return Result{
		Adjustment:       Adjust(*req.CurrentRate, req.CurrentBG, *req.HourlyBGChange),
		AtTarget:         IsAtTarget(req.CurrentBG),
		NextCheckMinutes: NextCheckMinutes(req.CurrentBG, *req.ConsecutiveInTarget),
	}, nil
}

// Validate checks field presence for the selected mode and value ranges.
func (r Request) Validate() error {
	if r.CurrentBG < 0 {
		return fmt.Errorf("current_bg %d is negative: %w", r.CurrentBG, ErrInvalidInput)
	}
	if r.IsInitial() {
		return nil
	}

	var missing []string
	if r.HourlyBGChange == nil {
		missing = append(missing, "hourly_bg_change")
	}
	if r.ConsecutiveInTarget == nil {
		missing = append(missing, "consecutive_in_target_count")
	}
	if len(missing) > 0 {
		return &FieldError{Fields: missing}
	}

	rate := *r.CurrentRate
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return fmt.Errorf("current_rate %v must be a finite non-negative number: %w", rate, ErrInvalidInput)
	}
	if *r.ConsecutiveInTarget < 0 {
		return fmt.Errorf("consecutive_in_target_count %d is negative: %w", *r.ConsecutiveInTarget, ErrInvalidInput)
	}
	return nil
}
