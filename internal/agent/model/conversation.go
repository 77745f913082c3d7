package model

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"
)

// Extra keys attached to persisted timeline messages.
const (
	ExtraSentiment = "sentiment"
	ExtraStrength  = "strength"
	ExtraCreatedAt = "created_at"
)

type ConversationRepository interface {
	// AddMessage adds a message to the conversation timeline
	AddMessage(ctx context.Context, conversationID string, message *schema.Message) error

	// LoadHistory retrieves the conversation timeline
	LoadHistory(ctx context.Context, conversationID string) (*ConversationHistory, error)

	// ClearHistory removes the whole timeline for a conversation
	ClearHistory(ctx context.Context, conversationID string) error

	// GetMessageCount returns the number of messages in the conversation
	GetMessageCount(ctx context.Context, conversationID string) (int, error)
}

// ConversationHistory represents loaded conversation data with metadata.
type ConversationHistory struct {
	ConversationID string
	Messages       []*schema.Message
}

// Turn is one analysed user message in a conversation's in-memory log.
type Turn struct {
	Message   string    `json:"message"`
	Sentiment Category  `json:"sentiment"`
	Strength  float64   `json:"strength"`
	Timestamp time.Time `json:"timestamp"`
}

// Timeline is a snapshot of a conversation: its turn log plus persisted messages.
type Timeline struct {
	ConversationID string
	CreatedAt      time.Time
	Turns          []Turn
	Messages       []*schema.Message
}
