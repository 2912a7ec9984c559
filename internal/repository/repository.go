// Package repository provides Postgres persistence for leads, conversations
// and follow-ups.
package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// repositoryImpl is the concrete implementation of Repository interface.
type repositoryImpl struct {
	db           *sqlx.DB
	followUp     FollowUpRepository
	lead         LeadRepository
	conversation ConversationRepository
}

// NewRepository creates a new repository instance.
func NewRepository(db *sqlx.DB) Repository {
	return &repositoryImpl{
		db:           db,
		followUp:     NewFollowUpRepository(db),
		lead:         NewLeadRepository(db),
		conversation: NewConversationRepository(db),
	}
}

// FollowUp returns the follow-up repository.
func (r *repositoryImpl) FollowUp() FollowUpRepository {
	return r.followUp
}

// Lead returns the lead repository.
func (r *repositoryImpl) Lead() LeadRepository {
	return r.lead
}

// Conversation returns the conversation repository.
func (r *repositoryImpl) Conversation() ConversationRepository {
	return r.conversation
}

// Ping checks if the database connection is healthy.
func (r *repositoryImpl) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return r.db.PingContext(ctx)
}
