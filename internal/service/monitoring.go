package service

import (
	"context"
	"time"

	"insulin_drip/internal/models"
	"insulin_drip/internal/repository"
)

type MonitoringService struct {
	stateRepo   repository.StateRepo
	readingRepo repository.ReadingRepo
}

func NewMonitoringService(stateRepo repository.StateRepo, readingRepo repository.ReadingRepo) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo, readingRepo: readingRepo}
}

// GetState returns the latest persisted infusion state for a patient.
// A patient with no history gets a baseline, stopped snapshot.
func (s *MonitoringService) GetState(ctx context.Context, patientID string) (models.InfusionState, error) {
	patientID, err := normalizePatientID(patientID)
	if err != nil {
		return models.InfusionState{}, err
	}
	state, err := s.stateRepo.Load(ctx, patientID)
	if err != nil {
		return models.InfusionState{}, err
	}
	if state.PatientID == "" {
		return models.InfusionState{PatientID: patientID}, nil
	}
	state.UpdatedAt = toUTC(state.UpdatedAt)
	state.LastReadingAt = toUTC(state.LastReadingAt)
	state.NextCheckAt = toUTC(state.NextCheckAt)
	return state, nil
}

// Readings returns the newest readings first. limit <= 0 uses the store default.
func (s *MonitoringService) Readings(ctx context.Context, patientID string, limit int) ([]models.BgEntry, error) {
	patientID, err := normalizePatientID(patientID)
	if err != nil {
		return nil, err
	}
	return s.readingRepo.ListByPatient(ctx, patientID, limit)
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
