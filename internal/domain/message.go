package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is one direct message between two users. Immutable once persisted;
// CreatedAt is assigned by the store at append time, never by the client.
type Message struct {
	ID         uuid.UUID
	SenderID   string
	ReceiverID string
	Body       string
	CreatedAt  time.Time
}

// ConversationKey returns the canonical, direction-independent key for the
// pair of users a message belongs to.
func ConversationKey(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
