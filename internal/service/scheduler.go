package service

import (
	"context"
	"fmt"
	"time"

	"insulin_drip/internal/logger"
	"insulin_drip/internal/repository"
)

// RampSchedulerService switches held infusions to their ramp rate once the
// stop-then-ramp delay has elapsed.
type RampSchedulerService struct {
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	locks     *patientLocks
	log       *logger.Logger
}

func NewRampSchedulerService(stateRepo repository.StateRepo, eventRepo repository.EventRepo, log *logger.Logger) *RampSchedulerService {
	if log == nil {
		log = logger.Nop()
	}
	return &RampSchedulerService{
		stateRepo: stateRepo,
		eventRepo: eventRepo,
		locks:     newPatientLocks(),
		log:       log,
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *RampSchedulerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := s.ApplyDueRamps(ctx, now)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.log.Errorw("ramp_apply_failed", "err", err)
				continue
			}
			if n > 0 {
				s.log.Infow("ramps_applied", "count", n)
			}
		}
	}
}

// ApplyDueRamps resumes every running infusion whose ramp is due at now and
// returns how many were switched.
func (s *RampSchedulerService) ApplyDueRamps(ctx context.Context, now time.Time) (int, error) {
	now = now.UTC()
	due, err := s.stateRepo.ListDueRamps(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due ramps: %w", err)
	}

	applied := 0
	for _, cand := range due {
		ok, err := s.applyRamp(ctx, cand.PatientID, now)
		if err != nil {
			return applied, err
		}
		if ok {
			applied++
		}
	}
	return applied, nil
}

// applyRamp re-reads the patient's state under its lock, since a reading may
// have applied or superseded the ramp after it was listed.
func (s *RampSchedulerService) applyRamp(ctx context.Context, patientID string, now time.Time) (bool, error) {
	defer s.locks.lock(patientID)()

	st, err := s.stateRepo.Load(ctx, patientID)
	if err != nil {
		return false, fmt.Errorf("load state for %s: %w", patientID, err)
	}
	if !st.IsRunning || !st.HasPendingRamp() || st.RampAt.After(now) {
		return false, nil
	}
	ev := rampAppliedEvent(st, *st.RampAt)

	st.Rate = *st.PendingRate
	st.PendingRate, st.RampAt = nil, nil
	st.UpdatedAt = now
	if err := s.stateRepo.Save(ctx, st); err != nil {
		return false, fmt.Errorf("save state for %s: %w", patientID, err)
	}
	if err := s.eventRepo.Append(ctx, ev); err != nil {
		return false, fmt.Errorf("append ramp event for %s: %w", patientID, err)
	}
	return true, nil
}
