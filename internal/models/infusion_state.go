package models

import "time"

// InfusionState is the latest persisted snapshot of one patient's insulin drip.
type InfusionState struct {
	PatientID      string     `json:"patient_id"`
	IsRunning      bool       `json:"is_running"`
	Rate           float64    `json:"rate"`                   // units/hr running now
	PendingRate    *float64   `json:"pending_rate,omitempty"` // rate a scheduled ramp switches to
	RampAt         *time.Time `json:"ramp_at,omitempty"`      // when the pending ramp is due
	LastBG         int        `json:"last_bg"`                // mg/dL
	LastReadingAt  time.Time  `json:"last_reading_at"`
	InTargetStreak int        `json:"in_target_streak"`
	AtTarget       bool       `json:"at_target"`
	NextCheckAt    time.Time  `json:"next_check_at"`
	StartedAt      time.Time  `json:"started_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// HasPendingRamp reports whether a stop-then-ramp is still waiting to resume.
func (s InfusionState) HasPendingRamp() bool {
	return s.PendingRate != nil && s.RampAt != nil
}
