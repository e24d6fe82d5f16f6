package models

import "time"

// BgEntry is a stored bedside BG measurement.
type BgEntry struct {
	ID         string    `json:"id"`
	PatientID  string    `json:"patient_id"`
	BG         int       `json:"bg"` // mg/dL
	MeasuredAt time.Time `json:"measured_at"`
}
