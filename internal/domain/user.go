package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Identity is issued by the external identity
// provider; ExternalID is the stable opaque string the provider hands out and
// is the key every piece of content (posts, messages, notifications) is
// attributed to. The local row ID exists only for relational integrity.
type User struct {
	ID           uuid.UUID
	ExternalID   string
	Username     string
	Email        string
	Name         string
	AvatarURL    *string
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public slice of a user embedded into posts and comments.
type Profile struct {
	ExternalID string
	Username   string
	Name       string
}
