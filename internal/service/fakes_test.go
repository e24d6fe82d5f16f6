package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"insulin_drip/internal/models"
	"insulin_drip/internal/repository"
)

// memStore is an in-memory stand-in for the state, event and reading
// repositories.
type memStore struct {
	mu       sync.Mutex
	states   map[string]models.InfusionState
	events   []models.InfusionEvent
	readings []models.BgEntry

	saveErr   error
	appendErr error
	listErr   error
}

func newMemStore() *memStore {
	return &memStore{states: map[string]models.InfusionState{}}
}

type memStates struct{ *memStore }
type memEvents struct{ *memStore }
type memReadings struct{ *memStore }

func (m memStates) Save(_ context.Context, s models.InfusionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.states[s.PatientID] = s
	return nil
}

func (m memStates) Load(_ context.Context, id string) (models.InfusionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[id], nil
}

func (m memStates) ListDueRamps(_ context.Context, now time.Time) ([]models.InfusionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.InfusionState
	for _, s := range m.states {
		if s.IsRunning && s.HasPendingRamp() && !s.RampAt.After(now) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RampAt.Before(*out[j].RampAt) })
	return out, nil
}

func (m memEvents) Append(_ context.Context, e models.InfusionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.events = append(m.events, e)
	return nil
}

func (m memEvents) List(_ context.Context, q repository.EventQuery) ([]models.InfusionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.InfusionEvent
	for _, e := range m.events {
		if q.PatientID != "" && e.PatientID != q.PatientID {
			continue
		}
		if !q.From.IsZero() && e.OccurredAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && e.OccurredAt.After(q.To) {
			continue
		}
		if q.Type != "" && !strings.EqualFold(e.Type, q.Type) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m memReadings) Append(_ context.Context, r models.BgEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings = append(m.readings, r)
	return nil
}

func (m memReadings) ListByPatient(_ context.Context, id string, limit int) ([]models.BgEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.BgEntry
	for i := len(m.readings) - 1; i >= 0; i-- {
		if m.readings[i].PatientID == id {
			out = append(out, m.readings[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestInfusion(store *memStore, now time.Time) *InfusionService {
	s := NewInfusionService(memStates{store}, memEvents{store}, memReadings{store})
	s.now = func() time.Time { return now }
	return s
}
