package models

import "time"

// InfusionEvent is a single audit log entry for a patient's infusion.
type InfusionEvent struct {
	EventID     string    `json:"event_id"`
	PatientID   string    `json:"patient_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // see service.Event* constants
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
