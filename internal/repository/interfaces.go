package repository

import (
	"context"
	"time"

	"github.com/salesloop/reengage/internal/models"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// Repository interface defines all repository operations.
type Repository interface {
	// Ping checks database connectivity
	Ping() error

	// FollowUp returns the follow-up repository
	FollowUp() FollowUpRepository

	// Lead returns the lead repository
	Lead() LeadRepository

	// Conversation returns the conversation repository
	Conversation() ConversationRepository
}

// FollowUpRepository persists follow-up records and their status transitions.
type FollowUpRepository interface {
	// Create inserts a PENDING follow-up. Fails with ErrActiveFollowUpExists
	// when the lead already has a PENDING or PROCESSING row.
	Create(ctx context.Context, followUp *models.FollowUp) error

	// ClaimDue atomically transitions up to limit due PENDING rows to
	// PROCESSING and returns them. Safe under concurrent callers; each row is
	// claimed by exactly one caller.
	ClaimDue(ctx context.Context, limit int, now time.Time) ([]*models.FollowUp, error)

	// MarkExecuted transitions a PROCESSING row to EXECUTED.
	MarkExecuted(ctx context.Context, id int64, result string) error

	// MarkFailed transitions a PROCESSING row to FAILED.
	MarkFailed(ctx context.Context, id int64, result string) error

	// CancelPending transitions all PENDING rows for the lead to CANCELLED
	// and returns how many it touched. Idempotent.
	CancelPending(ctx context.Context, leadID, reason string) (int64, error)

	// CountByLead counts the lead's follow-ups in the given statuses.
	CountByLead(ctx context.Context, leadID string, statuses []models.FollowUpStatus) (int, error)

	// MaxAttemptNumber returns the highest attempt_number among the lead's
	// follow-ups in the given statuses, or zero when there are none.
	MaxAttemptNumber(ctx context.Context, leadID string, statuses []models.FollowUpStatus) (int, error)

	// History returns the lead's follow-ups ordered by created_at descending.
	History(ctx context.Context, leadID string) ([]*models.FollowUp, error)

	// ReleaseStale re-queues PROCESSING rows older than the given cutoff back
	// to PENDING and returns how many it touched.
	ReleaseStale(ctx context.Context, olderThan time.Time) (int64, error)
}

// LeadRepository reads and mutates leads.
type LeadRepository interface {
	GetByID(ctx context.Context, id string) (*models.Lead, error)
	GetByPhone(ctx context.Context, phone string) (*models.Lead, error)
	SetInterested(ctx context.Context, id string, interested bool) error
	UpdateLastInteraction(ctx context.Context, id string, at time.Time) error
}

// ConversationRepository reads the conversation log and appends inbound turns.
type ConversationRepository interface {
	GetActiveByLead(ctx context.Context, leadID string) (*models.Conversation, error)
	RecentMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error)
	AppendMessage(ctx context.Context, msg *models.Message) error
	LastInboundPerActive(ctx context.Context) ([]models.LastInbound, error)
}
