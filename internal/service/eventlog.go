package service

import (
	"context"
	"fmt"
	"strings"

	"insulin_drip/internal/models"
	"insulin_drip/internal/repository"
	"insulin_drip/internal/titration"
)

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var ErrInvalidTimeRange = fmt.Errorf("invalid time range: from must be <= to: %w", titration.ErrInvalidInput)

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeFilter prepares query parameters and validates the time range.
func normalizeFilter(f LogFilter) (repository.EventQuery, error) {
	q := repository.EventQuery{
		PatientID: strings.TrimSpace(f.PatientID),
		From:      toUTC(f.From),
		To:        toUTC(f.To),
		Type:      normalizeEventType(f.Type),
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return repository.EventQuery{}, ErrInvalidTimeRange
	}
	return q, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.InfusionEvent, error) {
	q, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list infusion events: %w", err)
	}
	return events, nil
}
