package service

import (
	"context"
	"time"

	"insulin_drip/internal/logger"
	"insulin_drip/internal/models"
	"insulin_drip/internal/repository"
	"insulin_drip/internal/titration"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Calculator runs the protocol without touching any patient history.
type Calculator interface {
	Recommend(req titration.Request) (Recommendation, error)
}

// Infusion drives one patient's drip: first dose, readings, stop.
type Infusion interface {
	Start(ctx context.Context, patientID string, p ReadingParams) (Decision, error)
	RecordReading(ctx context.Context, patientID string, p ReadingParams) (Decision, error)
	Stop(ctx context.Context, patientID string) (models.InfusionState, error)
}

// Monitoring exposes read-only infusion state and reading history.
type Monitoring interface {
	GetState(ctx context.Context, patientID string) (models.InfusionState, error)
	Readings(ctx context.Context, patientID string, limit int) ([]models.BgEntry, error)
}

// EventLog exposes the append-only infusion audit log.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.InfusionEvent, error)
}

// RampScheduler resumes infusions whose stop-then-ramp delay has elapsed.
// Stop it via context cancellation.
type RampScheduler interface {
	Run(ctx context.Context, tick time.Duration)
	ApplyDueRamps(ctx context.Context, now time.Time) (int, error)
}

type Service struct {
	Calculator
	Infusion
	Monitoring
	EventLog
	RampScheduler
	Authorization
}

// Options carries the settings services read from configuration.
type Options struct {
	SigningKey string
	TokenTTL   time.Duration
	Log        *logger.Logger
}

func NewService(repos *repository.Repository, opts Options) *Service {
	infusion := NewInfusionService(repos.StateRepo, repos.EventRepo, repos.ReadingRepo)
	scheduler := NewRampSchedulerService(repos.StateRepo, repos.EventRepo, opts.Log)
	// readings and ramp ticks for one patient must not interleave
	scheduler.locks = infusion.locks

	return &Service{
		Calculator:    NewCalculatorService(),
		Infusion:      infusion,
		Monitoring:    NewMonitoringService(repos.StateRepo, repos.ReadingRepo),
		EventLog:      NewEventLogService(repos.EventRepo),
		RampScheduler: scheduler,
		Authorization: NewAuthService(repos.Auth, opts.SigningKey, opts.TokenTTL),
	}
}
