package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType tags what action produced a notification.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationMessage NotificationType = "message"
)

// Valid reports whether the type is one of the known tags.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationFollow, NotificationMessage:
		return true
	}
	return false
}

// Notification is a per-user event record. Created as a side effect of
// like/comment/follow/message actions; the only mutation ever applied is the
// read-flag flip.
type Notification struct {
	ID        uuid.UUID
	UserID    string
	Type      NotificationType
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
