package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/devverse/devverse-backend/internal/domain"
	"github.com/devverse/devverse-backend/pkg/ctxutil"
)

// Follow records a follow edge and notifies the target. Following yourself
// or following twice is rejected by the repository.
func (s *Service) Follow(ctx context.Context, followeeID string) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if followeeID == "" {
		return domain.NewValidationError("user_id", "required")
	}

	follower, err := s.users.GetByExternalID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get follower: %w", err)
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if followErr := s.users.Follow(txCtx, userID, followeeID); followErr != nil {
			return fmt.Errorf("follow: %w", followErr)
		}

		text := follower.Username + " started following you"
		if _, notifErr := s.notifications.Append(txCtx, followeeID, domain.NotificationFollow, text); notifErr != nil {
			return fmt.Errorf("append notification: %w", notifErr)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "follow added",
		slog.String("follower_id", userID),
		slog.String("followee_id", followeeID),
	)

	return nil
}

// Unfollow removes a follow edge. No notification is produced.
func (s *Service) Unfollow(ctx context.Context, followeeID string) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if followeeID == "" {
		return domain.NewValidationError("user_id", "required")
	}

	if err := s.users.Unfollow(ctx, userID, followeeID); err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}

	s.log.InfoContext(ctx, "follow removed",
		slog.String("follower_id", userID),
		slog.String("followee_id", followeeID),
	)

	return nil
}
