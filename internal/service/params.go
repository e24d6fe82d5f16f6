package service

import (
	"errors"
	"fmt"
	"time"

	"insulin_drip/internal/models"
	"insulin_drip/internal/titration"
)

// ReadingParams is a bedside BG measurement. A zero At means "now".
type ReadingParams struct {
	BG int
	At time.Time
}

// LogFilter supports history filtering by patient, time range and type.
type LogFilter struct {
	PatientID string
	From      time.Time // inclusive; zero means no lower bound
	To        time.Time // inclusive; zero means no upper bound
	Type      string
}

// Recommendation is a core decision plus its coded order and advisory text.
type Recommendation struct {
	titration.Result
	Order      Order    `json:"order"`
	Advisories []string `json:"advisories,omitempty"`
}

// Decision is a recommendation applied to a patient's persisted infusion.
type Decision struct {
	Recommendation
	HourlyBGChange *int                 `json:"hourly_bg_change,omitempty"`
	State          models.InfusionState `json:"state"`
}

// Event types written to the infusion log.
const (
	EventInitialDose     = "INITIAL_DOSE"
	EventRateChange      = "RATE_CHANGE"
	EventRateHold        = "RATE_HOLD"
	EventInsulinOff      = "INSULIN_OFF"
	EventRampScheduled   = "RAMP_SCHEDULED"
	EventRampApplied     = "RAMP_APPLIED"
	EventInfusionStopped = "INFUSION_STOPPED"
)

var (
	ErrPatientIDRequired  = errors.New("patient id is required")
	ErrPatientNotFound    = errors.New("no infusion recorded for patient")
	ErrInfusionRunning    = errors.New("infusion already running for patient")
	ErrInfusionNotRunning = errors.New("infusion is not running for patient")
	ErrReadingOutOfOrder  = fmt.Errorf("reading must be newer than the previous one: %w", titration.ErrInvalidInput)
)
