package post

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/devverse/devverse-backend/internal/domain"
)

type postRepo interface {
	Create(ctx context.Context, authorID, text string, imageURL *string, tags []string) (*domain.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error)
	Update(ctx context.Context, id uuid.UUID, text string, imageURL *string, tags []string) (*domain.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string) ([]domain.Post, error)

	AddLike(ctx context.Context, postID uuid.UUID, userID string) error
	RemoveLike(ctx context.Context, postID uuid.UUID, userID string) error

	AddComment(ctx context.Context, postID uuid.UUID, userID, text string) (*domain.Comment, error)
	GetComment(ctx context.Context, commentID uuid.UUID) (*domain.Comment, error)
	DeleteComment(ctx context.Context, commentID uuid.UUID) error

	AddReport(ctx context.Context, postID uuid.UUID, userID, reason string) (*domain.Report, error)

	Save(ctx context.Context, userID string, postID uuid.UUID) error
	Unsave(ctx context.Context, userID string, postID uuid.UUID) error
	ListSaved(ctx context.Context, userID string) ([]domain.Post, error)
}

type profileLoader interface {
	ProfilesByExternalIDs(ctx context.Context, externalIDs []string) (map[string]domain.Profile, error)
}

type notificationRepo interface {
	Append(ctx context.Context, userID string, typ domain.NotificationType, text string) (*domain.Notification, error)
}

type mediaUploader interface {
	Upload(ctx context.Context, name string, file io.Reader) (string, error)
	Destroy(ctx context.Context, assetURL string) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides feed operations: posts, likes, comments, reports,
// bookmarks and search.
type Service struct {
	posts         postRepo
	profiles      profileLoader
	notifications notificationRepo
	media         mediaUploader
	tx            txManager
	log           *slog.Logger
}

// NewService creates a new Post service.
func NewService(
	log *slog.Logger,
	posts postRepo,
	profiles profileLoader,
	notifications notificationRepo,
	media mediaUploader,
	tx txManager,
) *Service {
	return &Service{
		posts:         posts,
		profiles:      profiles,
		notifications: notifications,
		media:         media,
		tx:            tx,
		log:           log.With("service", "post"),
	}
}

// attachProfiles resolves author and commenter display info for the given
// posts in place. Unknown ids keep a nil profile.
func (s *Service) attachProfiles(ctx context.Context, posts []domain.Post) error {
	seen := map[string]struct{}{}
	var ids []string
	for i := range posts {
		if _, ok := seen[posts[i].AuthorID]; !ok {
			seen[posts[i].AuthorID] = struct{}{}
			ids = append(ids, posts[i].AuthorID)
		}
		for _, c := range posts[i].Comments {
			if _, ok := seen[c.UserID]; !ok {
				seen[c.UserID] = struct{}{}
				ids = append(ids, c.UserID)
			}
		}
	}

	profiles, err := s.profiles.ProfilesByExternalIDs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range posts {
		if p, ok := profiles[posts[i].AuthorID]; ok {
			prof := p
			posts[i].Author = &prof
		}
		for j := range posts[i].Comments {
			if p, ok := profiles[posts[i].Comments[j].UserID]; ok {
				prof := p
				posts[i].Comments[j].User = &prof
			}
		}
	}

	return nil
}
