// Package models defines data structures used throughout the application.
package models

import (
	"database/sql"
	"time"
)

// FollowUpStatus is the lifecycle state of a follow-up attempt.
type FollowUpStatus string

const (
	FollowUpStatusPending    FollowUpStatus = "PENDING"
	FollowUpStatusProcessing FollowUpStatus = "PROCESSING"
	FollowUpStatusExecuted   FollowUpStatus = "EXECUTED"
	FollowUpStatusFailed     FollowUpStatus = "FAILED"
	FollowUpStatusCancelled  FollowUpStatus = "CANCELLED"
)

// IsTerminal reports whether the status admits no further transitions.
func (s FollowUpStatus) IsTerminal() bool {
	switch s {
	case FollowUpStatusExecuted, FollowUpStatusFailed, FollowUpStatusCancelled:
		return true
	}
	return false
}

// FollowUpType is the escalation tier of a follow-up.
type FollowUpType string

const (
	FollowUpTypeReminder      FollowUpType = "REMINDER"
	FollowUpTypeReengagement  FollowUpType = "REENGAGEMENT"
	FollowUpTypeHotLeadRescue FollowUpType = "HOT_LEAD_RESCUE"
	FollowUpTypeNurture       FollowUpType = "NURTURE"
)

// ActiveStatuses are the statuses that count as an outstanding follow-up.
// At most one follow-up per lead may hold one of these at any time.
var ActiveStatuses = []FollowUpStatus{FollowUpStatusPending, FollowUpStatusProcessing}

// TerminalAttemptStatuses are the statuses that count toward the give-up threshold.
var TerminalAttemptStatuses = []FollowUpStatus{FollowUpStatusExecuted, FollowUpStatusFailed}

// FollowUp represents one scheduled or executed re-engagement attempt.
type FollowUp struct {
	ID            int64          `db:"id" json:"id"`
	LeadID        string         `db:"lead_id" json:"lead_id"`
	Type          FollowUpType   `db:"type" json:"type"`
	Status        FollowUpStatus `db:"status" json:"status"`
	ScheduledAt   time.Time      `db:"scheduled_at" json:"scheduled_at"`
	ExecutedAt    sql.NullTime   `db:"executed_at" json:"executed_at,omitempty"`
	Message       string         `db:"message" json:"message"`
	AttemptNumber int            `db:"attempt_number" json:"attempt_number"`
	Result        sql.NullString `db:"result" json:"result,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}
