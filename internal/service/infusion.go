package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"insulin_drip/internal/models"
	"insulin_drip/internal/repository"
	"insulin_drip/internal/titration"

	"github.com/google/uuid"
)

// maxStreak is where the in-target count saturates; the recheck scheduler
// only distinguishes "fewer than two" from "two".
const maxStreak = 2

type InfusionService struct {
	stateRepo   repository.StateRepo
	eventRepo   repository.EventRepo
	readingRepo repository.ReadingRepo
	locks       *patientLocks
	now         func() time.Time
}

func NewInfusionService(stateRepo repository.StateRepo, eventRepo repository.EventRepo, readingRepo repository.ReadingRepo) *InfusionService {
	return &InfusionService{
		stateRepo:   stateRepo,
		eventRepo:   eventRepo,
		readingRepo: readingRepo,
		locks:       newPatientLocks(),
		now:         time.Now,
	}
}

// Start takes the first BG of a new infusion and applies the initial dose.
func (s *InfusionService) Start(ctx context.Context, patientID string, p ReadingParams) (Decision, error) {
	patientID, err := normalizePatientID(patientID)
	if err != nil {
		return Decision{}, err
	}
	defer s.locks.lock(patientID)()

	st, err := s.stateRepo.Load(ctx, patientID)
	if err != nil {
		return Decision{}, err
	}
	if st.IsRunning {
		return Decision{}, ErrInfusionRunning
	}

	req := titration.InitialRequest(p.BG)
	res, err := titration.Decide(req)
	if err != nil {
		return Decision{}, err
	}

	at := s.readingTime(p)
	if err := s.storeReading(ctx, patientID, p.BG, at); err != nil {
		return Decision{}, err
	}

	streak := 0
	if res.AtTarget {
		streak = 1
	}
	st = models.InfusionState{
		PatientID:      patientID,
		IsRunning:      true,
		Rate:           res.Adjustment.Rate,
		LastBG:         p.BG,
		LastReadingAt:  at,
		InTargetStreak: streak,
		AtTarget:       res.AtTarget,
		NextCheckAt:    at.Add(minutes(res.NextCheckMinutes)),
		StartedAt:      at,
		UpdatedAt:      at,
	}
	if err := s.stateRepo.Save(ctx, st); err != nil {
		return Decision{}, err
	}

	rec := recommend(p.BG, true, res)
	err = s.eventRepo.Append(ctx, models.InfusionEvent{
		EventID:     uuid.NewString(),
		PatientID:   patientID,
		OccurredAt:  at,
		Type:        EventInitialDose,
		Description: fmt.Sprintf("Initial bolus and infusion %.1f U/h at BG %d", *res.Dose, p.BG),
		Metadata: map[string]any{
			"bg":         p.BG,
			"bolus":      *res.Dose,
			"rate":       res.Adjustment.Rate,
			"advisories": rec.Advisories,
		},
	})
	if err != nil {
		return Decision{}, err
	}

	return Decision{Recommendation: rec, State: st}, nil
}

// RecordReading takes a follow-up BG for a running infusion and applies the
// protocol step. A pending ramp that is already due is applied first; one
// that is not yet due is superseded by the new decision. Nothing is written
// unless the reading passes validation.
func (s *InfusionService) RecordReading(ctx context.Context, patientID string, p ReadingParams) (Decision, error) {
	patientID, err := normalizePatientID(patientID)
	if err != nil {
		return Decision{}, err
	}
	defer s.locks.lock(patientID)()

	st, err := s.loadRunning(ctx, patientID)
	if err != nil {
		return Decision{}, err
	}

	at := s.readingTime(p)
	if !at.After(st.LastReadingAt) {
		return Decision{}, ErrReadingOutOfOrder
	}

	prevRate := st.Rate
	var resumed *models.InfusionEvent
	if st.HasPendingRamp() && !st.RampAt.After(at) {
		ev := rampAppliedEvent(st, *st.RampAt)
		resumed = &ev
		prevRate = *st.PendingRate
	}

	change, err := titration.HourlyChange(
		titration.BgReading{BG: p.BG, Minute: at.Sub(st.StartedAt).Minutes()},
		titration.BgReading{BG: st.LastBG, Minute: st.LastReadingAt.Sub(st.StartedAt).Minutes()},
	)
	if err != nil {
		return Decision{}, err
	}

	streak := 0
	if titration.IsAtTarget(p.BG) {
		streak = min(st.InTargetStreak+1, maxStreak)
	}

	req := titration.OngoingRequest(p.BG, prevRate, change, streak)
	res, err := titration.Decide(req)
	if err != nil {
		return Decision{}, err
	}

	if resumed != nil {
		if err := s.eventRepo.Append(ctx, *resumed); err != nil {
			return Decision{}, err
		}
	}
	if err := s.storeReading(ctx, patientID, p.BG, at); err != nil {
		return Decision{}, err
	}

	adj := res.Adjustment
	st.Rate = adj.Rate
	st.PendingRate, st.RampAt = nil, nil
	if adj.Kind == titration.KindRamp {
		next := adj.RampRate
		rampAt := at.Add(minutes(adj.RampAfter))
		st.PendingRate, st.RampAt = &next, &rampAt
	}
	st.LastBG = p.BG
	st.LastReadingAt = at
	st.InTargetStreak = streak
	st.AtTarget = res.AtTarget
	st.NextCheckAt = at.Add(minutes(res.NextCheckMinutes))
	st.UpdatedAt = at
	if err := s.stateRepo.Save(ctx, st); err != nil {
		return Decision{}, err
	}

	typ, desc := classify(prevRate, adj)
	err = s.eventRepo.Append(ctx, models.InfusionEvent{
		EventID:     uuid.NewString(),
		PatientID:   patientID,
		OccurredAt:  at,
		Type:        typ,
		Description: desc,
		Metadata: map[string]any{
			"bg":               p.BG,
			"hourly_bg_change": change,
			"previous_rate":    prevRate,
			"rate_adjustment":  adj.Segments(),
			"in_target_streak": streak,
		},
	})
	if err != nil {
		return Decision{}, err
	}

	return Decision{
		Recommendation: recommend(p.BG, false, res),
		HourlyBGChange: &change,
		State:          st,
	}, nil
}

// Stop turns the infusion off and drops any pending ramp.
func (s *InfusionService) Stop(ctx context.Context, patientID string) (models.InfusionState, error) {
	patientID, err := normalizePatientID(patientID)
	if err != nil {
		return models.InfusionState{}, err
	}
	defer s.locks.lock(patientID)()

	st, err := s.loadRunning(ctx, patientID)
	if err != nil {
		return models.InfusionState{}, err
	}

	now := s.now().UTC()
	prevRate := st.Rate
	st.IsRunning = false
	st.Rate = 0
	st.PendingRate, st.RampAt = nil, nil
	st.UpdatedAt = now
	if err := s.stateRepo.Save(ctx, st); err != nil {
		return models.InfusionState{}, err
	}

	err = s.eventRepo.Append(ctx, models.InfusionEvent{
		EventID:     uuid.NewString(),
		PatientID:   patientID,
		OccurredAt:  now,
		Type:        EventInfusionStopped,
		Description: "Insulin infusion stopped",
		Metadata:    map[string]any{"previous_rate": prevRate},
	})
	if err != nil {
		return models.InfusionState{}, err
	}
	return st, nil
}

func (s *InfusionService) loadRunning(ctx context.Context, patientID string) (models.InfusionState, error) {
	st, err := s.stateRepo.Load(ctx, patientID)
	if err != nil {
		return models.InfusionState{}, err
	}
	if st.PatientID == "" {
		return models.InfusionState{}, ErrPatientNotFound
	}
	if !st.IsRunning {
		return models.InfusionState{}, ErrInfusionNotRunning
	}
	return st, nil
}

func (s *InfusionService) storeReading(ctx context.Context, patientID string, bg int, at time.Time) error {
	return s.readingRepo.Append(ctx, models.BgEntry{
		ID:         uuid.NewString(),
		PatientID:  patientID,
		BG:         bg,
		MeasuredAt: at,
	})
}

func (s *InfusionService) readingTime(p ReadingParams) time.Time {
	if p.At.IsZero() {
		return s.now().UTC()
	}
	return p.At.UTC()
}

// classify maps an adjustment to its log event type and description.
func classify(prevRate float64, adj titration.Adjustment) (string, string) {
	switch {
	case adj.Kind == titration.KindRamp:
		return EventRampScheduled, fmt.Sprintf("Infusion held at %.1f U/h, resume at %.1f U/h in %d min", adj.Rate, adj.RampRate, adj.RampAfter)
	case adj.IsStop():
		return EventInsulinOff, "Insulin infusion off"
	case adj.Rate == prevRate:
		return EventRateHold, fmt.Sprintf("Rate held at %.1f U/h", adj.Rate)
	default:
		return EventRateChange, fmt.Sprintf("Rate changed from %.1f to %.1f U/h", prevRate, adj.Rate)
	}
}

func rampAppliedEvent(st models.InfusionState, at time.Time) models.InfusionEvent {
	return models.InfusionEvent{
		EventID:     uuid.NewString(),
		PatientID:   st.PatientID,
		OccurredAt:  at,
		Type:        EventRampApplied,
		Description: fmt.Sprintf("Infusion resumed at %.1f U/h", *st.PendingRate),
		Metadata: map[string]any{
			"previous_rate": st.Rate,
			"rate":          *st.PendingRate,
		},
	}
}

func normalizePatientID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrPatientIDRequired
	}
	return id, nil
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
