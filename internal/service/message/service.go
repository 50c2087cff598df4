// Package message exposes the read side of direct messages. Writes go
// through the realtime relay, which appends straight to the store.
package message

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/devverse/devverse-backend/internal/domain"
	"github.com/devverse/devverse-backend/pkg/ctxutil"
)

type messageRepo interface {
	ListConversation(ctx context.Context, userA, userB string) ([]domain.Message, error)
}

// Service provides conversation history reads.
type Service struct {
	messages messageRepo
	log      *slog.Logger
}

// NewService creates a new Message service.
func NewService(log *slog.Logger, messages messageRepo) *Service {
	return &Service{
		messages: messages,
		log:      log.With("service", "message"),
	}
}

// ListConversation returns the full history between the authenticated user
// and the other participant, oldest first.
func (s *Service) ListConversation(ctx context.Context, otherUserID string) ([]domain.Message, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if otherUserID == "" {
		return nil, domain.NewValidationError("user_id", "required")
	}

	msgs, err := s.messages.ListConversation(ctx, userID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}

	return msgs, nil
}
