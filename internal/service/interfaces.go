// Package service implements the business operations of the re-engagement
// engine: scheduling follow-ups, executing due ones, conversation intake and
// health reporting.
package service

import (
	"context"

	"github.com/salesloop/reengage/internal/models"
)

// Trigger reason codes recorded when a follow-up is requested.
const (
	TriggerManual      = "manual"
	TriggerPostAttempt = "post_attempt"
)

// Skip reasons reported in a ScheduleOutcome.
const (
	SkipReasonMaxAttempts   = "max_attempts"
	SkipReasonAlreadyActive = "already_active"
	SkipReasonLeadClosed    = "lead_closed"
)

// ScheduleOutcome reports what a scheduling request produced. A skip is a
// normal outcome, not an error: the request was valid but no new follow-up
// was warranted.
type ScheduleOutcome struct {
	FollowUp *models.FollowUp `json:"follow_up,omitempty"`
	Skipped  bool             `json:"skipped"`
	Reason   string           `json:"reason,omitempty"`
}

// FollowUpService schedules and cancels follow-ups for leads.
type FollowUpService interface {
	// Schedule requests the next follow-up tier for a lead. Returns a skip
	// outcome when the lead is closed, already has an active follow-up, or
	// has exhausted all tiers.
	Schedule(ctx context.Context, leadID, trigger string) (*ScheduleOutcome, error)

	// CancelForLead cancels all PENDING follow-ups for the lead.
	CancelForLead(ctx context.Context, leadID, reason string) (int64, error)

	// History returns the lead's follow-ups, newest first.
	History(ctx context.Context, leadID string) ([]*models.FollowUp, error)
}

// ExecutorService claims due follow-ups and delivers them.
type ExecutorService interface {
	// ExecuteDue runs one executor pass: recover stale claims, claim a batch
	// of due follow-ups and send them.
	ExecuteDue(ctx context.Context) error

	Start(ctx context.Context) error
	Stop() error
	IsRunning() bool
}

// ConversationService handles inbound conversation traffic.
type ConversationService interface {
	// RegisterInbound appends a message to the lead's active conversation and
	// updates the activity tracking that drives inactivity follow-ups.
	RegisterInbound(ctx context.Context, leadID string, role models.MessageRole, content string) error
}

// HealthStatus is the aggregate health report.
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// HealthService reports on the engine's dependencies and loops.
type HealthService interface {
	Check(ctx context.Context) *HealthStatus
}
