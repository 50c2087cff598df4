package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a feed entry: text, optional CDN image URL, tags, and the
// denormalized like set. AuthorID is the author's external identity.
type Post struct {
	ID        uuid.UUID
	AuthorID  string
	Text      string
	ImageURL  *string
	Tags      []string
	Likes     []string
	Comments  []Comment
	CreatedAt time.Time
	UpdatedAt time.Time

	// Author is populated on read paths that join user info.
	Author *Profile
}

// Comment belongs to exactly one post.
type Comment struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	UserID    string
	Text      string
	CreatedAt time.Time

	// User is populated on read paths that join user info.
	User *Profile
}

// Report is a moderation flag a user attached to a post.
type Report struct {
	ID        uuid.UUID
	PostID    uuid.UUID
	UserID    string
	Reason    string
	CreatedAt time.Time
}

// LikedBy reports whether the given user is in the post's like set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
