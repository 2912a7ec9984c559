package models

import (
	"database/sql"
	"time"
)

// LeadStage is the sales-funnel stage of a lead.
type LeadStage string

const (
	LeadStageNew           LeadStage = "NEW"
	LeadStageQualifying    LeadStage = "QUALIFYING"
	LeadStagePresenting    LeadStage = "PRESENTING"
	LeadStageScheduling    LeadStage = "SCHEDULING"
	LeadStageScheduled     LeadStage = "SCHEDULED"
	LeadStageNotInterested LeadStage = "NOT_INTERESTED"
)

// IsTerminal reports whether the stage ends the re-engagement lifecycle.
// Once a lead reaches a terminal stage, pending follow-ups are cancelled and
// no new ones are created.
func (s LeadStage) IsTerminal() bool {
	return s == LeadStageScheduled || s == LeadStageNotInterested
}

// Lead represents one prospect tracked through the sales funnel.
type Lead struct {
	ID                 string       `db:"id" json:"id"`
	Phone              string       `db:"phone" json:"phone"`
	Name               string       `db:"name" json:"name"`
	Stage              LeadStage    `db:"stage" json:"stage"`
	QualificationScore int          `db:"qualification_score" json:"qualification_score"`
	Interested         bool         `db:"interested" json:"interested"`
	LastInteractionAt  sql.NullTime `db:"last_interaction_at" json:"last_interaction_at,omitempty"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updated_at"`
}
