package service

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/salesloop/reengage/internal/config"
	"github.com/salesloop/reengage/internal/escalation"
	"github.com/salesloop/reengage/internal/gateway"
	"github.com/salesloop/reengage/internal/generator"
	"github.com/salesloop/reengage/internal/hours"
	"github.com/salesloop/reengage/internal/metrics"
	"github.com/salesloop/reengage/internal/monitor"
	"github.com/salesloop/reengage/internal/repository"
)

// Service bundles every business operation exposed to the HTTP layer and the
// background loops.
type Service struct {
	FollowUp     FollowUpService
	Executor     ExecutorService
	Conversation ConversationService
	Monitor      *monitor.Monitor
	Health       HealthService
}

// Deps are the external collaborators the service layer is built from.
type Deps struct {
	Repo    repository.Repository
	Redis   *redis.Client
	Sender  gateway.Sender
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// NewService wires the full service graph from configuration.
func NewService(deps Deps) *Service {
	cfg := deps.Config

	window := hours.Window{
		WeekdayStart:  cfg.BusinessHours.WeekdayStart,
		WeekdayEnd:    cfg.BusinessHours.WeekdayEnd,
		SaturdayStart: cfg.BusinessHours.SaturdayStart,
		SaturdayEnd:   cfg.BusinessHours.SaturdayEnd,
		DaysOpen:      hours.DefaultWindow().DaysOpen,
	}
	calc := hours.NewCalculator(window, cfg.Reengagement.FirstDelay(), cfg.Reengagement.SecondDelay())

	policy := escalation.NewPolicy(deps.Repo.FollowUp(), cfg.Reengagement.MaxAttempts)
	gen := generator.NewTemplateGenerator(nil)

	followUps := NewFollowUpService(deps.Repo, policy, calc, gen,
		&cfg.Reengagement, deps.Logger, deps.Metrics, nil)

	executor := NewExecutorService(deps.Repo, deps.Sender, gen, followUps,
		deps.Redis, &cfg.Reengagement, &cfg.Gateway, deps.Logger, deps.Metrics, nil)

	mon := monitor.New(
		monitor.Config{
			TickInterval:    time.Duration(cfg.Reengagement.MonitorTickSeconds) * time.Second,
			FirstThreshold:  time.Duration(cfg.Reengagement.InactivityFirstMinutes) * time.Minute,
			SecondThreshold: time.Duration(cfg.Reengagement.InactivitySecondHours) * time.Hour,
			DropAfter:       time.Duration(cfg.Reengagement.InactivityDropDays) * 24 * time.Hour,
		},
		deps.Repo.Conversation(),
		func(ctx context.Context, leadID, trigger string) error {
			_, err := followUps.Schedule(ctx, leadID, trigger)
			return err
		},
		deps.Logger,
		deps.Metrics,
		nil,
	)

	return &Service{
		FollowUp:     followUps,
		Executor:     executor,
		Conversation: NewConversationService(deps.Repo, mon, deps.Logger, deps.Metrics, nil),
		Monitor:      mon,
		Health:       NewHealthService(deps.Repo, deps.Redis, deps.Sender, executor, mon),
	}
}
