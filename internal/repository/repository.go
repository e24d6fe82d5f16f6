package repository

import (
	"context"
	"database/sql"
	"time"

	"insulin_drip/internal/models"
)

// Authorization stores clinician credentials.
type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// StateRepo persists one infusion snapshot per patient.
type StateRepo interface {
	Save(ctx context.Context, s models.InfusionState) error
	Load(ctx context.Context, patientID string) (models.InfusionState, error)
	ListDueRamps(ctx context.Context, now time.Time) ([]models.InfusionState, error)
}

// EventQuery filters the infusion audit log. Zero values mean "no filter".
type EventQuery struct {
	PatientID string
	From      time.Time
	To        time.Time
	Type      string
}

type EventRepo interface {
	Append(ctx context.Context, e models.InfusionEvent) error
	List(ctx context.Context, q EventQuery) ([]models.InfusionEvent, error)
}

type ReadingRepo interface {
	Append(ctx context.Context, r models.BgEntry) error
	ListByPatient(ctx context.Context, patientID string, limit int) ([]models.BgEntry, error)
}

type Repository struct {
	StateRepo   StateRepo
	EventRepo   EventRepo
	ReadingRepo ReadingRepo
	Auth        Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo:   NewStateSQLite(db),
		EventRepo:   NewEventSQLite(db),
		ReadingRepo: NewReadingSQLite(db),
		Auth:        NewUserRepository(db),
	}
}
