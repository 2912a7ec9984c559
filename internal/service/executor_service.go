package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/salesloop/reengage/internal/analyzer"
	"github.com/salesloop/reengage/internal/config"
	"github.com/salesloop/reengage/internal/gateway"
	"github.com/salesloop/reengage/internal/generator"
	"github.com/salesloop/reengage/internal/metrics"
	"github.com/salesloop/reengage/internal/models"
	"github.com/salesloop/reengage/internal/repository"
	"github.com/salesloop/reengage/internal/scheduler"
)

// providerIDTTL bounds how long delivered message IDs stay cached for
// operator lookups.
const providerIDTTL = 24 * time.Hour

// attemptResult is the JSON stored in the follow-up's result column.
type attemptResult struct {
	ProviderID string `json:"provider_id,omitempty"`
	Error      string `json:"error,omitempty"`
	Transient  bool   `json:"transient,omitempty"`
}

type executorService struct {
	repo       repository.Repository
	sender     gateway.Sender
	generator  generator.Generator
	followUps  FollowUpService
	redis      *redis.Client
	cfg        *config.ReengagementConfig
	gatewayCfg *config.GatewayConfig
	logger     *zap.Logger
	metrics    *metrics.Metrics
	loop       *scheduler.Loop
	now        func() time.Time
}

// NewExecutorService creates the executor and its tick loop. A nil now
// function defaults to time.Now.
func NewExecutorService(
	repo repository.Repository,
	sender gateway.Sender,
	gen generator.Generator,
	followUps FollowUpService,
	redisClient *redis.Client,
	cfg *config.ReengagementConfig,
	gatewayCfg *config.GatewayConfig,
	logger *zap.Logger,
	m *metrics.Metrics,
	now func() time.Time,
) ExecutorService {
	if now == nil {
		now = time.Now
	}

	s := &executorService{
		repo:       repo,
		sender:     sender,
		generator:  gen,
		followUps:  followUps,
		redis:      redisClient,
		cfg:        cfg,
		gatewayCfg: gatewayCfg,
		logger:     logger,
		metrics:    m,
		now:        now,
	}
	// No per-tick deadline: a full batch of slow sends may legitimately take
	// longer than one tick interval. Each delivery is bounded by sendTimeout
	// instead, and ticks never overlap.
	s.loop = scheduler.NewLoop("followup-executor", logger,
		time.Duration(cfg.ExecutorTickSeconds)*time.Second, 0, s.ExecuteDue)
	return s
}

func (s *executorService) Start(ctx context.Context) error { return s.loop.Start(ctx) }
func (s *executorService) Stop() error                     { return s.loop.Stop() }
func (s *executorService) IsRunning() bool                 { return s.loop.IsRunning() }

// ExecuteDue runs one pass: release orphaned claims, claim a batch of due
// follow-ups, then deliver them through a bounded worker pool.
func (s *executorService) ExecuteDue(ctx context.Context) error {
	now := s.now()

	released, err := s.repo.FollowUp().ReleaseStale(ctx, now.Add(-s.cfg.StaleThreshold()))
	if err != nil {
		s.logger.Error("Failed to release stale claims", zap.Error(err))
	} else if released > 0 {
		s.metrics.FollowUpsReclaimed.Add(float64(released))
		s.logger.Warn("Re-queued stale PROCESSING follow-ups", zap.Int64("count", released))
	}

	due, err := s.repo.FollowUp().ClaimDue(ctx, s.cfg.ClaimBatchSize, now)
	if err != nil {
		return fmt.Errorf("failed to claim due follow-ups: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	workers := s.cfg.SendConcurrency
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan *models.FollowUp)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for followUp := range jobs {
				s.process(ctx, followUp)
			}
		}()
	}

	for _, followUp := range due {
		jobs <- followUp
	}
	close(jobs)
	wg.Wait()

	s.logger.Info("Executor pass finished", zap.Int("processed", len(due)))
	return nil
}

// process delivers one claimed follow-up and records the terminal outcome.
func (s *executorService) process(ctx context.Context, followUp *models.FollowUp) {
	lead, err := s.repo.Lead().GetByID(ctx, followUp.LeadID)
	if err != nil {
		s.finish(ctx, followUp, nil, fmt.Errorf("failed to load lead: %w", err))
		return
	}

	text := followUp.Message
	if text == "" {
		// Rows created before message resolution existed carry no text.
		if text, err = s.generator.Resolve(ctx, analyzer.TemplateGenericReengagement, lead); err != nil {
			s.finish(ctx, followUp, nil, fmt.Errorf("failed to resolve fallback message: %w", err))
			return
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout())
	start := time.Now()
	result, err := s.sender.Send(sendCtx, lead.Phone, text)
	cancel()
	s.metrics.SendDuration.Observe(time.Since(start).Seconds())

	s.finish(ctx, followUp, result, err)
}

// finish records the attempt outcome and hands the lead back to the
// scheduling pipeline for the next tier or the give-up path.
func (s *executorService) finish(ctx context.Context, followUp *models.FollowUp, result *gateway.Result, sendErr error) {
	if sendErr != nil {
		outcome, _ := json.Marshal(attemptResult{
			Error:     sendErr.Error(),
			Transient: gateway.IsTransient(sendErr),
		})
		if err := s.repo.FollowUp().MarkFailed(ctx, followUp.ID, string(outcome)); err != nil {
			s.logMarkError(followUp, err)
			return
		}
		s.metrics.FollowUpsFailed.Inc()
		s.logger.Error("Follow-up delivery failed",
			zap.Int64("followup_id", followUp.ID),
			zap.String("lead_id", followUp.LeadID),
			zap.Bool("transient", gateway.IsTransient(sendErr)),
			zap.Error(sendErr))
	} else {
		outcome, _ := json.Marshal(attemptResult{ProviderID: result.ProviderID})
		if err := s.repo.FollowUp().MarkExecuted(ctx, followUp.ID, string(outcome)); err != nil {
			s.logMarkError(followUp, err)
			return
		}
		s.metrics.FollowUpsExecuted.Inc()
		s.cacheProviderID(ctx, followUp.ID, result.ProviderID)
		s.logger.Info("Follow-up delivered",
			zap.Int64("followup_id", followUp.ID),
			zap.String("lead_id", followUp.LeadID),
			zap.String("provider_id", result.ProviderID))
	}

	s.scheduleNextTier(ctx, followUp.LeadID)
}

// scheduleNextTier requests the next follow-up after a terminal attempt. A
// max-attempts skip is the signal that every tier is spent; that closes the
// lead.
func (s *executorService) scheduleNextTier(ctx context.Context, leadID string) {
	outcome, err := s.followUps.Schedule(ctx, leadID, TriggerPostAttempt)
	if err != nil {
		s.logger.Error("Failed to schedule next tier",
			zap.String("lead_id", leadID), zap.Error(err))
		return
	}

	if outcome.Skipped && outcome.Reason == SkipReasonMaxAttempts {
		if err := s.repo.Lead().SetInterested(ctx, leadID, false); err != nil {
			s.logger.Error("Failed to mark lead not interested",
				zap.String("lead_id", leadID), zap.Error(err))
		}
		if _, err := s.followUps.CancelForLead(ctx, leadID, SkipReasonMaxAttempts); err != nil {
			s.logger.Error("Failed to cancel remaining follow-ups",
				zap.String("lead_id", leadID), zap.Error(err))
		}
		s.logger.Info("Lead exhausted all follow-up tiers", zap.String("lead_id", leadID))
	}
}

func (s *executorService) logMarkError(followUp *models.FollowUp, err error) {
	if errors.Is(err, repository.ErrInvalidTransition) {
		// The stale sweep or a concurrent cancel took the row; the other
		// writer's outcome stands.
		s.logger.Warn("Lost claim while recording outcome",
			zap.Int64("followup_id", followUp.ID))
		return
	}
	s.logger.Error("Failed to record follow-up outcome",
		zap.Int64("followup_id", followUp.ID), zap.Error(err))
}

// cacheProviderID keeps the provider message ID available for operator
// lookups without a table scan. Cache failures never fail the attempt.
func (s *executorService) cacheProviderID(ctx context.Context, followUpID int64, providerID string) {
	if s.redis == nil || providerID == "" {
		return
	}
	key := fmt.Sprintf("followup:provider_id:%d", followUpID)
	if err := s.redis.Set(ctx, key, providerID, providerIDTTL).Err(); err != nil {
		s.logger.Warn("Failed to cache provider message ID",
			zap.Int64("followup_id", followUpID), zap.Error(err))
	}
}

// sendTimeout bounds one delivery including the gateway's internal retries
// and backoff sleeps.
func (s *executorService) sendTimeout() time.Duration {
	attempts := s.gatewayCfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	perAttempt := time.Duration(s.gatewayCfg.TimeoutSeconds) * time.Second
	return perAttempt*time.Duration(attempts) + 10*time.Second
}
