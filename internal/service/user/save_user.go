package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/devverse/devverse-backend/internal/domain"
	"github.com/devverse/devverse-backend/pkg/ctxutil"
)

// SaveUser upserts the authenticated user's profile from identity-provider
// data. Called by the frontend on every sign-in, so repeats are the norm.
func (s *Service) SaveUser(ctx context.Context, input SaveUserInput) (*domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.Upsert(ctx, &domain.User{
		ExternalID: userID,
		Username:   strings.TrimSpace(input.Username),
		Email:      strings.TrimSpace(input.Email),
		Name:       strings.TrimSpace(input.Name),
		AvatarURL:  trimOrNil(input.AvatarURL),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	s.log.InfoContext(ctx, "user saved",
		slog.String("user_id", userID),
		slog.String("username", u.Username),
	)

	return u, nil
}
