package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"insulin_drip/internal/models"
)

// ClinicianRepository stores the accounts allowed to start and titrate drips.
type ClinicianRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *ClinicianRepository {
	return &ClinicianRepository{db: db}
}

var _ Authorization = (*ClinicianRepository)(nil)

const (
	insertClinicianSQL           = `INSERT INTO clinicians (username, password_hash) VALUES (?, ?)`
	selectClinicianByUsernameSQL = `SELECT id, username, password_hash FROM clinicians WHERE username = ?`
)

// Create inserts a clinician and returns the new row id.
func (r *ClinicianRepository) Create(ctx context.Context, username, passwordHash string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertClinicianSQL, username, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert clinician %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for clinician %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername returns (nil, nil) when no clinician has that username.
func (r *ClinicianRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectClinicianByUsernameSQL, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select clinician %q: %w", username, err)
	}
	return &u, nil
}
