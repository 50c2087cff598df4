package post

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/devverse/devverse-backend/internal/domain"
	"github.com/devverse/devverse-backend/pkg/ctxutil"
)

// AddComment attaches a comment and notifies the post author. Commenting on
// your own post produces no notification.
func (s *Service) AddComment(ctx context.Context, postID uuid.UUID, text string) (*domain.Comment, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if postID == uuid.Nil {
		return nil, domain.NewValidationError("post_id", "required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("text", "required")
	}
	if len(text) > maxCommentLength {
		return nil, domain.NewValidationError("text", "max 1000 characters")
	}

	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	commenter, err := s.profiles.ProfilesByExternalIDs(ctx, []string{userID})
	if err != nil {
		return nil, fmt.Errorf("load commenter profile: %w", err)
	}
	commenterName := userID
	if prof, ok := commenter[userID]; ok {
		commenterName = prof.Username
	}

	var comment *domain.Comment
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var addErr error
		comment, addErr = s.posts.AddComment(txCtx, postID, userID, text)
		if addErr != nil {
			return fmt.Errorf("add comment: %w", addErr)
		}

		if p.AuthorID == userID {
			return nil
		}
		notifText := commenterName + " commented on your post"
		if _, notifErr := s.notifications.Append(txCtx, p.AuthorID, domain.NotificationComment, notifText); notifErr != nil {
			return fmt.Errorf("append notification: %w", notifErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "comment added",
		slog.String("user_id", userID),
		slog.String("post_id", postID.String()),
		slog.String("comment_id", comment.ID.String()),
	)

	return comment, nil
}

// DeleteComment removes a comment. Allowed for the comment author and for
// the author of the post it belongs to.
func (s *Service) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if commentID == uuid.Nil {
		return domain.NewValidationError("comment_id", "required")
	}

	comment, err := s.posts.GetComment(ctx, commentID)
	if err != nil {
		return fmt.Errorf("get comment: %w", err)
	}

	if comment.UserID != userID {
		p, err := s.posts.GetByID(ctx, comment.PostID)
		if err != nil {
			return fmt.Errorf("get post: %w", err)
		}
		if p.AuthorID != userID {
			return domain.ErrForbidden
		}
	}

	if err := s.posts.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	s.log.InfoContext(ctx, "comment deleted",
		slog.String("user_id", userID),
		slog.String("comment_id", commentID.String()),
	)

	return nil
}
