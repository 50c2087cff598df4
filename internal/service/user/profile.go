package user

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/devverse/devverse-backend/internal/adapter/postgres/user"
	"github.com/devverse/devverse-backend/internal/domain"
	"github.com/devverse/devverse-backend/pkg/ctxutil"
)

// GetProfile returns the authenticated user's account.
func (s *Service) GetProfile(ctx context.Context) (*domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	u, err := s.users.GetByExternalID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

// ListUsers returns every registered account, for the chat partner picker.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// UpdateProfile modifies the authenticated user's profile. A supplied
// password is stored as a bcrypt hash.
func (s *Service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	params := user.UpdateParams{
		Name:      trimOrNil(input.Name),
		AvatarURL: trimOrNil(input.AvatarURL),
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hashed := string(hash)
		params.PasswordHash = &hashed
	}

	u, err := s.users.Update(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.InfoContext(ctx, "profile updated",
		slog.String("user_id", userID),
		slog.Bool("password_changed", input.Password != nil),
	)

	return u, nil
}

// DeleteProfile removes the authenticated user's account and all content
// attributed to it.
func (s *Service) DeleteProfile(ctx context.Context) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.InfoContext(ctx, "account deleted", slog.String("user_id", userID))

	return nil
}
