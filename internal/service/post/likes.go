package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/devverse/devverse-backend/internal/domain"
	"github.com/devverse/devverse-backend/pkg/ctxutil"
)

// Like records a like and notifies the post author. Liking your own post
// produces no notification; liking twice surfaces ErrAlreadyExists.
func (s *Service) Like(ctx context.Context, postID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if postID == uuid.Nil {
		return domain.NewValidationError("post_id", "required")
	}

	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}

	liker, err := s.profiles.ProfilesByExternalIDs(ctx, []string{userID})
	if err != nil {
		return fmt.Errorf("load liker profile: %w", err)
	}
	likerName := userID
	if prof, ok := liker[userID]; ok {
		likerName = prof.Username
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if likeErr := s.posts.AddLike(txCtx, postID, userID); likeErr != nil {
			return fmt.Errorf("add like: %w", likeErr)
		}

		if p.AuthorID == userID {
			return nil
		}
		text := likerName + " liked your post"
		if _, notifErr := s.notifications.Append(txCtx, p.AuthorID, domain.NotificationLike, text); notifErr != nil {
			return fmt.Errorf("append notification: %w", notifErr)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "post liked",
		slog.String("user_id", userID),
		slog.String("post_id", postID.String()),
	)

	return nil
}

// Unlike undoes a like. No notification is produced or retracted.
func (s *Service) Unlike(ctx context.Context, postID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if postID == uuid.Nil {
		return domain.NewValidationError("post_id", "required")
	}

	if err := s.posts.RemoveLike(ctx, postID, userID); err != nil {
		return fmt.Errorf("remove like: %w", err)
	}

	s.log.InfoContext(ctx, "post unliked",
		slog.String("user_id", userID),
		slog.String("post_id", postID.String()),
	)

	return nil
}
