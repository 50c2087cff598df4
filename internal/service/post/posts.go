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

// CreatePost publishes a new post for the authenticated user. An attached
// image is uploaded to the CDN before the database write; an upload failure
// aborts the whole operation.
func (s *Service) CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var imageURL *string
	if input.Image != nil {
		url, err := s.media.Upload(ctx, input.ImageName, input.Image)
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		imageURL = &url
	}

	p, err := s.posts.Create(ctx, userID, strings.TrimSpace(input.Text), imageURL, normalizeTags(input.Tags))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.InfoContext(ctx, "post created",
		slog.String("user_id", userID),
		slog.String("post_id", p.ID.String()),
		slog.Bool("has_image", imageURL != nil),
	)

	return p, nil
}

// GetPost returns one post with author and commenter info attached.
func (s *Service) GetPost(ctx context.Context, postID uuid.UUID) (*domain.Post, error) {
	if postID == uuid.Nil {
		return nil, domain.NewValidationError("post_id", "required")
	}

	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	posts := []domain.Post{*p}
	if err := s.attachProfiles(ctx, posts); err != nil {
		return nil, fmt.Errorf("attach profiles: %w", err)
	}

	return &posts[0], nil
}

// ListPosts returns the full feed, newest first.
func (s *Service) ListPosts(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	if err := s.attachProfiles(ctx, posts); err != nil {
		return nil, fmt.Errorf("attach profiles: %w", err)
	}

	return posts, nil
}

// ListByAuthor returns one user's posts, newest first.
func (s *Service) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	if authorID == "" {
		return nil, domain.NewValidationError("author_id", "required")
	}

	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	if err := s.attachProfiles(ctx, posts); err != nil {
		return nil, fmt.Errorf("attach profiles: %w", err)
	}

	return posts, nil
}

// UpdatePost edits a post. Only the author may edit.
func (s *Service) UpdatePost(ctx context.Context, input UpdatePostInput) (*domain.Post, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.posts.GetByID(ctx, input.PostID)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if existing.AuthorID != userID {
		return nil, domain.ErrForbidden
	}

	p, err := s.posts.Update(ctx, input.PostID, strings.TrimSpace(input.Text), existing.ImageURL, normalizeTags(input.Tags))
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	s.log.InfoContext(ctx, "post updated",
		slog.String("user_id", userID),
		slog.String("post_id", p.ID.String()),
	)

	return p, nil
}

// DeletePost removes a post. Only the author may delete.
func (s *Service) DeletePost(ctx context.Context, postID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if postID == uuid.Nil {
		return domain.NewValidationError("post_id", "required")
	}

	existing, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}
	if existing.AuthorID != userID {
		return domain.ErrForbidden
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	// CDN cleanup is best effort, the post is already gone.
	if existing.ImageURL != nil {
		if err := s.media.Destroy(ctx, *existing.ImageURL); err != nil {
			s.log.WarnContext(ctx, "post image cleanup failed",
				slog.String("post_id", postID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	s.log.InfoContext(ctx, "post deleted",
		slog.String("user_id", userID),
		slog.String("post_id", postID.String()),
	)

	return nil
}

// Search returns posts matching the query in text or tags, newest first.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("q", "required")
	}

	posts, err := s.posts.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}

	if err := s.attachProfiles(ctx, posts); err != nil {
		return nil, fmt.Errorf("attach profiles: %w", err)
	}

	return posts, nil
}
