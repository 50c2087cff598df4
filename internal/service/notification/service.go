// Package notification exposes the per-user notification feed.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/devverse/devverse-backend/internal/domain"
	"github.com/devverse/devverse-backend/pkg/ctxutil"
)

type notificationRepo interface {
	ListFor(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkReadByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Notification, error)
	MarkRead(ctx context.Context, userID string) (int64, error)
	DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service provides notification feed operations.
type Service struct {
	notifications notificationRepo
	log           *slog.Logger
}

// NewService creates a new Notification service.
func NewService(log *slog.Logger, notifications notificationRepo) *Service {
	return &Service{
		notifications: notifications,
		log:           log.With("service", "notification"),
	}
}

// List returns the authenticated user's notifications, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Notification, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	out, err := s.notifications.ListFor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return out, nil
}

// MarkRead flips the read flag on one of the authenticated user's
// notifications. Another user's notification reads as not found.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return nil, domain.NewValidationError("notification_id", "required")
	}

	n, err := s.notifications.MarkReadByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}

	return n, nil
}

// MarkAllRead flips the read flag on every unread notification of the
// authenticated user and returns how many were flipped.
func (s *Service) MarkAllRead(ctx context.Context) (int64, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}

	n, err := s.notifications.MarkRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}

	if n > 0 {
		s.log.InfoContext(ctx, "notifications marked read",
			slog.String("user_id", userID),
			slog.Int64("count", n),
		)
	}

	return n, nil
}

// PurgeRead removes read notifications older than the retention window.
// Driven by the cleanup command, not by user requests.
func (s *Service) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, domain.NewValidationError("retention", "must be positive")
	}

	cutoff := time.Now().UTC().Add(-retention)
	n, err := s.notifications.DeleteReadOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}

	s.log.InfoContext(ctx, "read notifications purged",
		slog.Int64("count", n),
		slog.Time("cutoff", cutoff),
	)

	return n, nil
}
