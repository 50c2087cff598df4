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

// Report attaches a moderation report to a post. A blank reason gets the
// catch-all placeholder.
func (s *Service) Report(ctx context.Context, postID uuid.UUID, reason string) (*domain.Report, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if postID == uuid.Nil {
		return nil, domain.NewValidationError("post_id", "required")
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "No reason provided"
	}

	rep, err := s.posts.AddReport(ctx, postID, userID, reason)
	if err != nil {
		return nil, fmt.Errorf("add report: %w", err)
	}

	s.log.InfoContext(ctx, "post reported",
		slog.String("user_id", userID),
		slog.String("post_id", postID.String()),
	)

	return rep, nil
}

// SavePost bookmarks a post for the authenticated user.
func (s *Service) SavePost(ctx context.Context, postID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if postID == uuid.Nil {
		return domain.NewValidationError("post_id", "required")
	}

	if err := s.posts.Save(ctx, userID, postID); err != nil {
		return fmt.Errorf("save post: %w", err)
	}

	return nil
}

// UnsavePost removes a bookmark.
func (s *Service) UnsavePost(ctx context.Context, postID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if postID == uuid.Nil {
		return domain.NewValidationError("post_id", "required")
	}

	if err := s.posts.Unsave(ctx, userID, postID); err != nil {
		return fmt.Errorf("unsave post: %w", err)
	}

	return nil
}

// ListSaved returns the authenticated user's bookmarks, most recent first.
func (s *Service) ListSaved(ctx context.Context) ([]domain.Post, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	posts, err := s.posts.ListSaved(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved: %w", err)
	}

	if err := s.attachProfiles(ctx, posts); err != nil {
		return nil, fmt.Errorf("attach profiles: %w", err)
	}

	return posts, nil
}
