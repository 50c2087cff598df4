package rest

import (
	"time"

	"github.com/devverse/devverse-backend/internal/domain"
)

type userResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

type profileResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type commentResponse struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Text      string           `json:"text"`
	CreatedAt string           `json:"createdAt"`
	User      *profileResponse `json:"user,omitempty"`
}

type postResponse struct {
	ID        string            `json:"id"`
	AuthorID  string            `json:"authorId"`
	Text      string            `json:"text"`
	ImageURL  *string           `json:"imageUrl,omitempty"`
	Tags      []string          `json:"tags"`
	Likes     []string          `json:"likes"`
	Comments  []commentResponse `json:"comments"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
	Author    *profileResponse  `json:"author,omitempty"`
}

type messageResponse struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
	CreatedAt  string `json:"createdAt"`
}

type notificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ExternalID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		CreatedAt: fmtTime(u.CreatedAt),
	}
}

func toProfileResponse(p *domain.Profile) *profileResponse {
	if p == nil {
		return nil
	}
	return &profileResponse{ID: p.ExternalID, Username: p.Username, Name: p.Name}
}

func toCommentResponse(c domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID.String(),
		UserID:    c.UserID,
		Text:      c.Text,
		CreatedAt: fmtTime(c.CreatedAt),
		User:      toProfileResponse(c.User),
	}
}

func toPostResponse(p *domain.Post) postResponse {
	out := postResponse{
		ID:        p.ID.String(),
		AuthorID:  p.AuthorID,
		Text:      p.Text,
		ImageURL:  p.ImageURL,
		Tags:      p.Tags,
		Likes:     p.Likes,
		Comments:  make([]commentResponse, 0, len(p.Comments)),
		CreatedAt: fmtTime(p.CreatedAt),
		UpdatedAt: fmtTime(p.UpdatedAt),
		Author:    toProfileResponse(p.Author),
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if out.Likes == nil {
		out.Likes = []string{}
	}
	for _, c := range p.Comments {
		out.Comments = append(out.Comments, toCommentResponse(c))
	}
	return out
}

func toPostListResponse(posts []domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResponse(&posts[i]))
	}
	return out
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:         m.ID.String(),
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Text:       m.Body,
		CreatedAt:  fmtTime(m.CreatedAt),
	}
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: fmtTime(n.CreatedAt),
	}
}
