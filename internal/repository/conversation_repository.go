package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/salesloop/reengage/internal/models"
)

type conversationRepository struct {
	db *sqlx.DB
}

// NewConversationRepository creates a conversation repository over the given
// database.
func NewConversationRepository(db *sqlx.DB) ConversationRepository {
	return &conversationRepository{
		db: db,
	}
}

// GetActiveByLead returns the lead's single active conversation.
func (r *conversationRepository) GetActiveByLead(ctx context.Context, leadID string) (*models.Conversation, error) {
	query := `
		SELECT id, lead_id, started_at, is_active, total_messages, current_stage
		FROM conversations
		WHERE lead_id = $1 AND is_active = TRUE
		ORDER BY started_at DESC
		LIMIT 1
	`

	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv, query, leadID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active conversation: %w", err)
	}

	return &conv, nil
}

// RecentMessages returns the last limit messages of a conversation in
// chronological order.
func (r *conversationRepository) RecentMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM (
			SELECT id, conversation_id, role, content, created_at
			FROM messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`

	var messages []models.Message
	if err := r.db.SelectContext(ctx, &messages, query, conversationID, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent messages: %w", err)
	}

	return messages, nil
}

// AppendMessage appends one turn to the conversation log and bumps the
// conversation's message counter.
func (r *conversationRepository) AppendMessage(ctx context.Context, msg *models.Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO messages (conversation_id, role, content, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		msg.ConversationID, msg.Role, msg.Content, msg.CreatedAt,
	).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE conversations SET total_messages = total_messages + 1 WHERE id = $1`,
		msg.ConversationID)
	if err != nil {
		return fmt.Errorf("failed to bump message counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit message append: %w", err)
	}

	return nil
}

// LastInboundPerActive returns, for every active conversation, the timestamp
// of its most recent user message. Used to rebuild the inactivity monitor's
// tracking map after a restart.
func (r *conversationRepository) LastInboundPerActive(ctx context.Context) ([]models.LastInbound, error) {
	query := `
		SELECT c.lead_id AS lead_id, l.phone AS phone, MAX(m.created_at) AS last_message_at
		FROM conversations c
		JOIN leads l ON l.id = c.lead_id
		JOIN messages m ON m.conversation_id = c.id
		WHERE c.is_active = TRUE AND m.role = 'user'
		GROUP BY c.lead_id, l.phone
	`

	var seeds []models.LastInbound
	if err := r.db.SelectContext(ctx, &seeds, query); err != nil {
		return nil, fmt.Errorf("failed to load last inbound timestamps: %w", err)
	}

	return seeds, nil
}
