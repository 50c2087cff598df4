package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/devverse/devverse-backend/internal/adapter/postgres/user"
	"github.com/devverse/devverse-backend/internal/domain"
)

type userRepo interface {
	Upsert(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, externalID string, params user.UpdateParams) (*domain.User, error)
	Delete(ctx context.Context, externalID string) error
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
}

type notificationRepo interface {
	Append(ctx context.Context, userID string, typ domain.NotificationType, text string) (*domain.Notification, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides account and follow-graph operations.
type Service struct {
	users         userRepo
	notifications notificationRepo
	tx            txManager
	log           *slog.Logger
}

// NewService creates a new User service.
func NewService(
	log *slog.Logger,
	users userRepo,
	notifications notificationRepo,
	tx txManager,
) *Service {
	return &Service{
		users:         users,
		notifications: notifications,
		tx:            tx,
		log:           log.With("service", "user"),
	}
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
