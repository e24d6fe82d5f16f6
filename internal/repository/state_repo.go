package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"insulin_drip/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	stateColumns = `patient_id, running, rate, pending_rate, ramp_at, last_bg, last_reading_at,
		in_target_streak, at_target, next_check_at, started_at, updated_at`

	upsertStateSQL = `
		INSERT INTO infusion_state (` + stateColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(patient_id) DO UPDATE SET
			running=excluded.running,
			rate=excluded.rate,
			pending_rate=excluded.pending_rate,
			ramp_at=excluded.ramp_at,
			last_bg=excluded.last_bg,
			last_reading_at=excluded.last_reading_at,
			in_target_streak=excluded.in_target_streak,
			at_target=excluded.at_target,
			next_check_at=excluded.next_check_at,
			started_at=excluded.started_at,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `SELECT ` + stateColumns + ` FROM infusion_state WHERE patient_id = ?`

	selectDueRampsSQL = `SELECT ` + stateColumns + ` FROM infusion_state
		WHERE running = 1 AND pending_rate IS NOT NULL AND ramp_at <= ?
		ORDER BY ramp_at ASC`
)

// utcOrNow keeps persisted timestamps in UTC and fills in zero values.
func utcOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// Save upserts the snapshot for s.PatientID.
func (r *StateSQLite) Save(ctx context.Context, s models.InfusionState) error {
	if s.PatientID == "" {
		return errors.New("save infusion state: empty patient id")
	}
	_, err := r.db.ExecContext(ctx, upsertStateSQL,
		s.PatientID,
		s.IsRunning,
		s.Rate,
		s.PendingRate,
		utcPtr(s.RampAt),
		s.LastBG,
		s.LastReadingAt.UTC(),
		s.InTargetStreak,
		s.AtTarget,
		s.NextCheckAt.UTC(),
		s.StartedAt.UTC(),
		utcOrNow(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save infusion state for %q: %w", s.PatientID, err)
	}
	return nil
}

// Load returns a zero value and nil error when the patient has no snapshot yet.
func (r *StateSQLite) Load(ctx context.Context, patientID string) (models.InfusionState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, patientID)
	s, err := scanState(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.InfusionState{}, nil
		}
		return models.InfusionState{}, fmt.Errorf("load infusion state for %q: %w", patientID, err)
	}
	return s, nil
}

// ListDueRamps returns running infusions whose scheduled ramp is due at now.
func (r *StateSQLite) ListDueRamps(ctx context.Context, now time.Time) ([]models.InfusionState, error) {
	rows, err := r.db.QueryContext(ctx, selectDueRampsSQL, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("list due ramps: %w", err)
	}
	defer rows.Close()

	var out []models.InfusionState
	for rows.Next() {
		s, err := scanState(rows)
		if err != nil {
			return nil, fmt.Errorf("scan due ramp: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanState(row rowScanner) (models.InfusionState, error) {
	var (
		s       models.InfusionState
		pending sql.NullFloat64
		rampAt  sql.NullTime
	)
	if err := row.Scan(
		&s.PatientID,
		&s.IsRunning,
		&s.Rate,
		&pending,
		&rampAt,
		&s.LastBG,
		&s.LastReadingAt,
		&s.InTargetStreak,
		&s.AtTarget,
		&s.NextCheckAt,
		&s.StartedAt,
		&s.UpdatedAt,
	); err != nil {
		return models.InfusionState{}, err
	}
	if pending.Valid {
		v := pending.Float64
		s.PendingRate = &v
	}
	if rampAt.Valid {
		t := rampAt.Time.UTC()
		s.RampAt = &t
	}
	s.LastReadingAt = s.LastReadingAt.UTC()
	s.NextCheckAt = s.NextCheckAt.UTC()
	s.StartedAt = s.StartedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
