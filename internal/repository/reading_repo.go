package repository

import (
	"context"
	"database/sql"
	"fmt"

	"insulin_drip/internal/models"

	"github.com/google/uuid"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

const (
	insertReadingSQL = `INSERT INTO bg_readings (id, patient_id, bg, measured_at) VALUES (?, ?, ?, ?)`
	selectReadingSQL = `SELECT id, patient_id, bg, measured_at FROM bg_readings
		WHERE patient_id = ? ORDER BY measured_at DESC LIMIT ?`
)

const defaultReadingLimit = 50

// Append stores a reading, generating an ID when one is not supplied.
func (r *ReadingSQLite) Append(ctx context.Context, e models.BgEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, insertReadingSQL, e.ID, e.PatientID, e.BG, utcOrNow(e.MeasuredAt))
	if err != nil {
		return fmt.Errorf("insert reading for %q: %w", e.PatientID, err)
	}
	return nil
}

// ListByPatient returns the newest readings first. A non-positive limit
// falls back to defaultReadingLimit.
func (r *ReadingSQLite) ListByPatient(ctx context.Context, patientID string, limit int) ([]models.BgEntry, error) {
	if limit <= 0 {
		limit = defaultReadingLimit
	}
	rows, err := r.db.QueryContext(ctx, selectReadingSQL, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list readings for %q: %w", patientID, err)
	}
	defer rows.Close()

	var out []models.BgEntry
	for rows.Next() {
		var e models.BgEntry
		if err := rows.Scan(&e.ID, &e.PatientID, &e.BG, &e.MeasuredAt); err != nil {
			return nil, err
		}
		e.MeasuredAt = e.MeasuredAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
