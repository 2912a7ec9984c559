package models

import "time"

// Conversation is one continuous messaging session tied to a lead.
// At most one active conversation exists per lead at any time.
type Conversation struct {
	ID            string    `db:"id" json:"id"`
	LeadID        string    `db:"lead_id" json:"lead_id"`
	StartedAt     time.Time `db:"started_at" json:"started_at"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	TotalMessages int       `db:"total_messages" json:"total_messages"`
	CurrentStage  LeadStage `db:"current_stage" json:"current_stage"`
}

// MessageRole identifies which side of the conversation produced a message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is one turn in a conversation. This core only reads messages.
type Message struct {
	ID             int64       `db:"id" json:"id"`
	ConversationID string      `db:"conversation_id" json:"conversation_id"`
	Role           MessageRole `db:"role" json:"role"`
	Content        string      `db:"content" json:"content"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
}

// LastInbound is the most recent user message timestamp for an active
// conversation, used to seed the inactivity monitor on startup.
type LastInbound struct {
	LeadID        string    `db:"lead_id"`
	Phone         string    `db:"phone"`
	LastMessageAt time.Time `db:"last_message_at"`
}
