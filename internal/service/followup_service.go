package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/salesloop/reengage/internal/analyzer"
	"github.com/salesloop/reengage/internal/config"
	"github.com/salesloop/reengage/internal/escalation"
	"github.com/salesloop/reengage/internal/generator"
	"github.com/salesloop/reengage/internal/hours"
	"github.com/salesloop/reengage/internal/metrics"
	"github.com/salesloop/reengage/internal/models"
	"github.com/salesloop/reengage/internal/repository"
)

type followUpService struct {
	repo      repository.Repository
	policy    *escalation.Policy
	calc      *hours.Calculator
	generator generator.Generator
	cfg       *config.ReengagementConfig
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewFollowUpService creates the scheduling service. A nil now function
// defaults to time.Now.
func NewFollowUpService(
	repo repository.Repository,
	policy *escalation.Policy,
	calc *hours.Calculator,
	gen generator.Generator,
	cfg *config.ReengagementConfig,
	logger *zap.Logger,
	m *metrics.Metrics,
	now func() time.Time,
) FollowUpService {
	if now == nil {
		now = time.Now
	}
	return &followUpService{
		repo:      repo,
		policy:    policy,
		calc:      calc,
		generator: gen,
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
		now:       now,
	}
}

// Schedule runs the full scheduling pipeline: eligibility, tier selection,
// conversation analysis, timing, message resolution, persistence.
func (s *followUpService) Schedule(ctx context.Context, leadID, trigger string) (*ScheduleOutcome, error) {
	lead, err := s.repo.Lead().GetByID(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lead: %w", err)
	}

	if lead.Stage.IsTerminal() || !lead.Interested {
		// A closed lead keeps no pending work around.
		if cancelled, cancelErr := s.repo.FollowUp().CancelPending(ctx, leadID, SkipReasonLeadClosed); cancelErr != nil {
			s.logger.Error("Failed to cancel pending follow-ups for closed lead",
				zap.String("lead_id", leadID), zap.Error(cancelErr))
		} else if cancelled > 0 {
			s.metrics.FollowUpsCancelled.Add(float64(cancelled))
		}
		return s.skip(leadID, trigger, SkipReasonLeadClosed), nil
	}

	giveUp, err := s.policy.ShouldGiveUp(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if giveUp {
		return s.skip(leadID, trigger, SkipReasonMaxAttempts), nil
	}

	attempt, err := s.policy.NextAttemptNumber(ctx, leadID)
	if err != nil {
		return nil, err
	}

	followUpType, err := s.policy.SelectType(attempt, lead.Stage)
	if err != nil {
		if errors.Is(err, escalation.ErrMaxAttemptsExceeded) {
			return s.skip(leadID, trigger, SkipReasonMaxAttempts), nil
		}
		return nil, err
	}

	signals := s.analyzeConversation(ctx, leadID)

	lastInteraction := s.now()
	if lead.LastInteractionAt.Valid {
		lastInteraction = lead.LastInteractionAt.Time
	}
	scheduledAt := s.calc.NextAttemptTime(attempt, lastInteraction, s.now(), escalation.DelayScale(signals.InterestLevel))

	text, err := s.generator.Resolve(ctx, analyzer.SelectTemplateKey(signals), lead)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve message template: %w", err)
	}

	followUp := &models.FollowUp{
		LeadID:        leadID,
		Type:          followUpType,
		Status:        models.FollowUpStatusPending,
		ScheduledAt:   scheduledAt,
		Message:       text,
		AttemptNumber: attempt,
	}

	if err := s.repo.FollowUp().Create(ctx, followUp); err != nil {
		if errors.Is(err, repository.ErrActiveFollowUpExists) {
			// Another caller won the race; their follow-up stands.
			return s.skip(leadID, trigger, SkipReasonAlreadyActive), nil
		}
		return nil, fmt.Errorf("failed to create follow-up: %w", err)
	}

	s.metrics.FollowUpsScheduled.WithLabelValues(string(followUpType)).Inc()
	s.logger.Info("Follow-up scheduled",
		zap.String("lead_id", leadID),
		zap.String("trigger", trigger),
		zap.String("type", string(followUpType)),
		zap.Int("attempt", attempt),
		zap.Int("interest_level", signals.InterestLevel),
		zap.Time("scheduled_at", scheduledAt))

	return &ScheduleOutcome{FollowUp: followUp}, nil
}

// analyzeConversation extracts signals from the lead's recent messages. A lead
// with no active conversation analyzes as empty, which selects the generic
// template at default timing.
func (s *followUpService) analyzeConversation(ctx context.Context, leadID string) analyzer.Signals {
	conversation, err := s.repo.Conversation().GetActiveByLead(ctx, leadID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Failed to load active conversation",
				zap.String("lead_id", leadID), zap.Error(err))
		}
		return analyzer.Signals{}
	}

	messages, err := s.repo.Conversation().RecentMessages(ctx, conversation.ID, s.cfg.ContextWindowMessages)
	if err != nil {
		s.logger.Warn("Failed to load recent messages",
			zap.String("conversation_id", conversation.ID), zap.Error(err))
		return analyzer.Signals{}
	}

	return analyzer.Analyze(messages)
}

func (s *followUpService) skip(leadID, trigger, reason string) *ScheduleOutcome {
	s.metrics.SchedulesSkipped.WithLabelValues(reason).Inc()
	s.logger.Debug("Scheduling skipped",
		zap.String("lead_id", leadID),
		zap.String("trigger", trigger),
		zap.String("reason", reason))
	return &ScheduleOutcome{Skipped: true, Reason: reason}
}

func (s *followUpService) CancelForLead(ctx context.Context, leadID, reason string) (int64, error) {
	cancelled, err := s.repo.FollowUp().CancelPending(ctx, leadID, reason)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel pending follow-ups: %w", err)
	}
	if cancelled > 0 {
		s.metrics.FollowUpsCancelled.Add(float64(cancelled))
		s.logger.Info("Pending follow-ups cancelled",
			zap.String("lead_id", leadID),
			zap.String("reason", reason),
			zap.Int64("count", cancelled))
	}
	return cancelled, nil
}

func (s *followUpService) History(ctx context.Context, leadID string) ([]*models.FollowUp, error) {
	return s.repo.FollowUp().History(ctx, leadID)
}
