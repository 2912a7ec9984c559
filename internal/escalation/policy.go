// Package escalation decides the follow-up tier for a lead, when to stop
// trying, and how interest shortens the delay before the next tier.
package escalation

import (
	"context"
	"errors"
	"fmt"

	"github.com/salesloop/reengage/internal/models"
	"github.com/salesloop/reengage/internal/repository"
)

// ErrMaxAttemptsExceeded is returned when scheduling is requested past the
// last escalation tier. The caller is expected to mark the lead not
// interested.
var ErrMaxAttemptsExceeded = errors.New("maximum follow-up attempts exceeded")

// DefaultMaxAttempts is the number of tiers before giving up on a lead.
const DefaultMaxAttempts = 2

// Policy is the escalation state machine over attempt tiers:
// REMINDER -> REENGAGEMENT -> give up.
type Policy struct {
	followUps   repository.FollowUpRepository
	maxAttempts int
}

// NewPolicy creates a policy over the follow-up history.
func NewPolicy(followUps repository.FollowUpRepository, maxAttempts int) *Policy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Policy{
		followUps:   followUps,
		maxAttempts: maxAttempts,
	}
}

// nonCancelled are the statuses that count toward attempt numbering.
var nonCancelled = []models.FollowUpStatus{
	models.FollowUpStatusPending,
	models.FollowUpStatusProcessing,
	models.FollowUpStatusExecuted,
	models.FollowUpStatusFailed,
}

// NextAttemptNumber returns one past the count of the lead's non-cancelled
// follow-ups, keeping attempt numbers strictly increasing per lead.
func (p *Policy) NextAttemptNumber(ctx context.Context, leadID string) (int, error) {
	count, err := p.followUps.CountByLead(ctx, leadID, nonCancelled)
	if err != nil {
		return 0, fmt.Errorf("failed to count follow-up attempts: %w", err)
	}
	return count + 1, nil
}

// ShouldGiveUp reports whether the lead has exhausted all escalation tiers.
// It only answers; marking the lead not interested is the caller's move.
func (p *Policy) ShouldGiveUp(ctx context.Context, leadID string) (bool, error) {
	terminal, err := p.followUps.CountByLead(ctx, leadID, models.TerminalAttemptStatuses)
	if err != nil {
		return false, fmt.Errorf("failed to count terminal follow-ups: %w", err)
	}
	if terminal >= p.maxAttempts {
		return true, nil
	}

	highest, err := p.followUps.MaxAttemptNumber(ctx, leadID, models.TerminalAttemptStatuses)
	if err != nil {
		return false, fmt.Errorf("failed to get highest attempt number: %w", err)
	}
	return highest >= p.maxAttempts, nil
}

// SelectType maps an attempt number and lead stage to a follow-up type.
// A lead caught mid-scheduling gets the rescue type on the first attempt.
func (p *Policy) SelectType(attemptNumber int, stage models.LeadStage) (models.FollowUpType, error) {
	if attemptNumber > p.maxAttempts {
		return "", fmt.Errorf("attempt %d with max %d: %w", attemptNumber, p.maxAttempts, ErrMaxAttemptsExceeded)
	}

	switch attemptNumber {
	case 1:
		if stage == models.LeadStageScheduling {
			return models.FollowUpTypeHotLeadRescue, nil
		}
		return models.FollowUpTypeReminder, nil
	case 2:
		return models.FollowUpTypeReengagement, nil
	default:
		return models.FollowUpTypeNurture, nil
	}
}

// DelayScale converts an interest level (0..10) into a multiplier for the
// delay before the next tier. Higher interest means sooner re-contact, with a
// floor at half the base delay.
func DelayScale(interestLevel int) float64 {
	scale := 1 - float64(interestLevel)*0.05
	if scale < 0.5 {
		return 0.5
	}
	return scale
}

// MaxAttempts exposes the configured tier limit.
func (p *Policy) MaxAttempts() int {
	return p.maxAttempts
}
