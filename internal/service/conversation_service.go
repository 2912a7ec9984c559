package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/salesloop/reengage/internal/metrics"
	"github.com/salesloop/reengage/internal/models"
	"github.com/salesloop/reengage/internal/monitor"
	"github.com/salesloop/reengage/internal/repository"
)

type conversationService struct {
	repo    repository.Repository
	monitor *monitor.Monitor
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewConversationService creates the intake service. A nil now function
// defaults to time.Now.
func NewConversationService(
	repo repository.Repository,
	mon *monitor.Monitor,
	logger *zap.Logger,
	m *metrics.Metrics,
	now func() time.Time,
) ConversationService {
	if now == nil {
		now = time.Now
	}
	return &conversationService{
		repo:    repo,
		monitor: mon,
		logger:  logger,
		metrics: m,
		now:     now,
	}
}

// RegisterInbound appends one conversation turn. A user turn also refreshes
// the lead's last-interaction timestamp and resets the inactivity clock.
func (s *conversationService) RegisterInbound(ctx context.Context, leadID string, role models.MessageRole, content string) error {
	lead, err := s.repo.Lead().GetByID(ctx, leadID)
	if err != nil {
		return fmt.Errorf("failed to load lead: %w", err)
	}

	conversation, err := s.repo.Conversation().GetActiveByLead(ctx, leadID)
	if err != nil {
		return fmt.Errorf("failed to load active conversation: %w", err)
	}

	msg := &models.Message{
		ConversationID: conversation.ID,
		Role:           role,
		Content:        content,
	}
	if err := s.repo.Conversation().AppendMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	if role == models.MessageRoleUser {
		if err := s.repo.Lead().UpdateLastInteraction(ctx, leadID, s.now()); err != nil {
			// Tracking still resets; the stored timestamp catches up on the
			// next turn.
			s.logger.Warn("Failed to update last interaction",
				zap.String("lead_id", leadID), zap.Error(err))
		}
	}

	s.monitor.RegisterMessage(lead.Phone, leadID, role == models.MessageRoleUser)
	return nil
}
