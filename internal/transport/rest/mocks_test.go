package rest

import (
	"context"

	"github.com/google/uuid"

	"github.com/devverse/devverse-backend/internal/domain"
	postsvc "github.com/devverse/devverse-backend/internal/service/post"
	usersvc "github.com/devverse/devverse-backend/internal/service/user"
)

// ---------------------------------------------------------------------------
// Service mocks
// ---------------------------------------------------------------------------

type userServiceMock struct {
	SaveUserFunc      func(ctx context.Context, input usersvc.SaveUserInput) (*domain.User, error)
	GetProfileFunc    func(ctx context.Context) (*domain.User, error)
	ListUsersFunc     func(ctx context.Context) ([]domain.User, error)
	UpdateProfileFunc func(ctx context.Context, input usersvc.UpdateProfileInput) (*domain.User, error)
	DeleteProfileFunc func(ctx context.Context) error
	FollowFunc        func(ctx context.Context, followeeID string) error
	UnfollowFunc      func(ctx context.Context, followeeID string) error
}

func (m *userServiceMock) SaveUser(ctx context.Context, input usersvc.SaveUserInput) (*domain.User, error) {
	return m.SaveUserFunc(ctx, input)
}

func (m *userServiceMock) GetProfile(ctx context.Context) (*domain.User, error) {
	return m.GetProfileFunc(ctx)
}

func (m *userServiceMock) ListUsers(ctx context.Context) ([]domain.User, error) {
	return m.ListUsersFunc(ctx)
}

func (m *userServiceMock) UpdateProfile(ctx context.Context, input usersvc.UpdateProfileInput) (*domain.User, error) {
	return m.UpdateProfileFunc(ctx, input)
}

func (m *userServiceMock) DeleteProfile(ctx context.Context) error {
	return m.DeleteProfileFunc(ctx)
}

func (m *userServiceMock) Follow(ctx context.Context, followeeID string) error {
	return m.FollowFunc(ctx, followeeID)
}

func (m *userServiceMock) Unfollow(ctx context.Context, followeeID string) error {
	return m.UnfollowFunc(ctx, followeeID)
}

type postServiceMock struct {
	CreatePostFunc    func(ctx context.Context, input postsvc.CreatePostInput) (*domain.Post, error)
	GetPostFunc       func(ctx context.Context, postID uuid.UUID) (*domain.Post, error)
	ListPostsFunc     func(ctx context.Context) ([]domain.Post, error)
	ListByAuthorFunc  func(ctx context.Context, authorID string) ([]domain.Post, error)
	UpdatePostFunc    func(ctx context.Context, input postsvc.UpdatePostInput) (*domain.Post, error)
	DeletePostFunc    func(ctx context.Context, postID uuid.UUID) error
	SearchFunc        func(ctx context.Context, query string) ([]domain.Post, error)
	LikeFunc          func(ctx context.Context, postID uuid.UUID) error
	UnlikeFunc        func(ctx context.Context, postID uuid.UUID) error
	AddCommentFunc    func(ctx context.Context, postID uuid.UUID, text string) (*domain.Comment, error)
	DeleteCommentFunc func(ctx context.Context, commentID uuid.UUID) error
	ReportFunc        func(ctx context.Context, postID uuid.UUID, reason string) (*domain.Report, error)
	SavePostFunc      func(ctx context.Context, postID uuid.UUID) error
	UnsavePostFunc    func(ctx context.Context, postID uuid.UUID) error
	ListSavedFunc     func(ctx context.Context) ([]domain.Post, error)
}

func (m *postServiceMock) CreatePost(ctx context.Context, input postsvc.CreatePostInput) (*domain.Post, error) {
	return m.CreatePostFunc(ctx, input)
}

func (m *postServiceMock) GetPost(ctx context.Context, postID uuid.UUID) (*domain.Post, error) {
	return m.GetPostFunc(ctx, postID)
}

func (m *postServiceMock) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return m.ListPostsFunc(ctx)
}

func (m *postServiceMock) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	return m.ListByAuthorFunc(ctx, authorID)
}

func (m *postServiceMock) UpdatePost(ctx context.Context, input postsvc.UpdatePostInput) (*domain.Post, error) {
	return m.UpdatePostFunc(ctx, input)
}

func (m *postServiceMock) DeletePost(ctx context.Context, postID uuid.UUID) error {
	return m.DeletePostFunc(ctx, postID)
}

func (m *postServiceMock) Search(ctx context.Context, query string) ([]domain.Post, error) {
	return m.SearchFunc(ctx, query)
}

func (m *postServiceMock) Like(ctx context.Context, postID uuid.UUID) error {
	return m.LikeFunc(ctx, postID)
}

func (m *postServiceMock) Unlike(ctx context.Context, postID uuid.UUID) error {
	return m.UnlikeFunc(ctx, postID)
}

func (m *postServiceMock) AddComment(ctx context.Context, postID uuid.UUID, text string) (*domain.Comment, error) {
	return m.AddCommentFunc(ctx, postID, text)
}

func (m *postServiceMock) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	return m.DeleteCommentFunc(ctx, commentID)
}

func (m *postServiceMock) Report(ctx context.Context, postID uuid.UUID, reason string) (*domain.Report, error) {
	return m.ReportFunc(ctx, postID, reason)
}

func (m *postServiceMock) SavePost(ctx context.Context, postID uuid.UUID) error {
	return m.SavePostFunc(ctx, postID)
}

func (m *postServiceMock) UnsavePost(ctx context.Context, postID uuid.UUID) error {
	return m.UnsavePostFunc(ctx, postID)
}

func (m *postServiceMock) ListSaved(ctx context.Context) ([]domain.Post, error) {
	return m.ListSavedFunc(ctx)
}

type messageServiceMock struct {
	ListConversationFunc func(ctx context.Context, otherUserID string) ([]domain.Message, error)
}

func (m *messageServiceMock) ListConversation(ctx context.Context, otherUserID string) ([]domain.Message, error) {
	return m.ListConversationFunc(ctx, otherUserID)
}

type notificationServiceMock struct {
	ListFunc        func(ctx context.Context) ([]domain.Notification, error)
	MarkReadFunc    func(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	MarkAllReadFunc func(ctx context.Context) (int64, error)
}

func (m *notificationServiceMock) List(ctx context.Context) ([]domain.Notification, error) {
	return m.ListFunc(ctx)
}

func (m *notificationServiceMock) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return m.MarkReadFunc(ctx, id)
}

func (m *notificationServiceMock) MarkAllRead(ctx context.Context) (int64, error) {
	return m.MarkAllReadFunc(ctx)
}
