package domain

import "time"

const (
	MaxMessageLen            = 500
	DefaultConversationLimit = 50
)

// Message is immutable once created. Directed, but conversation retrieval
// treats the pair symmetrically.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConversationQuery selects the most recent Limit messages exchanged between
// UserA and UserB, in either direction.
type ConversationQuery struct {
	UserA string
	UserB string
	Limit int
}
