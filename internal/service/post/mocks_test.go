package post

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/devverse/devverse-backend/internal/domain"
)

var (
	_ postRepo         = &postRepoMock{}
	_ profileLoader    = &profileLoaderMock{}
	_ notificationRepo = &notificationRepoMock{}
	_ mediaUploader    = &mediaUploaderMock{}
	_ txManager        = &txManagerMock{}
)

type postRepoMock struct {
	CreateFunc        func(ctx context.Context, authorID, text string, imageURL *string, tags []string) (*domain.Post, error)
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	ListFunc          func(ctx context.Context) ([]domain.Post, error)
	ListByAuthorFunc  func(ctx context.Context, authorID string) ([]domain.Post, error)
	UpdateFunc        func(ctx context.Context, id uuid.UUID, text string, imageURL *string, tags []string) (*domain.Post, error)
	DeleteFunc        func(ctx context.Context, id uuid.UUID) error
	SearchFunc        func(ctx context.Context, query string) ([]domain.Post, error)
	AddLikeFunc       func(ctx context.Context, postID uuid.UUID, userID string) error
	RemoveLikeFunc    func(ctx context.Context, postID uuid.UUID, userID string) error
	AddCommentFunc    func(ctx context.Context, postID uuid.UUID, userID, text string) (*domain.Comment, error)
	GetCommentFunc    func(ctx context.Context, commentID uuid.UUID) (*domain.Comment, error)
	DeleteCommentFunc func(ctx context.Context, commentID uuid.UUID) error
	AddReportFunc     func(ctx context.Context, postID uuid.UUID, userID, reason string) (*domain.Report, error)
	SaveFunc          func(ctx context.Context, userID string, postID uuid.UUID) error
	UnsaveFunc        func(ctx context.Context, userID string, postID uuid.UUID) error
	ListSavedFunc     func(ctx context.Context, userID string) ([]domain.Post, error)

	mu    sync.Mutex
	calls struct {
		Create        int
		AddLike       int
		AddComment    int
		DeleteComment int
	}
}

func (m *postRepoMock) Create(ctx context.Context, authorID, text string, imageURL *string, tags []string) (*domain.Post, error) {
	m.mu.Lock()
	m.calls.Create++
	m.mu.Unlock()
	return m.CreateFunc(ctx, authorID, text, imageURL, tags)
}

func (m *postRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *postRepoMock) List(ctx context.Context) ([]domain.Post, error) {
	return m.ListFunc(ctx)
}

func (m *postRepoMock) ListByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	return m.ListByAuthorFunc(ctx, authorID)
}

func (m *postRepoMock) Update(ctx context.Context, id uuid.UUID, text string, imageURL *string, tags []string) (*domain.Post, error) {
	return m.UpdateFunc(ctx, id, text, imageURL, tags)
}

func (m *postRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

func (m *postRepoMock) Search(ctx context.Context, query string) ([]domain.Post, error) {
	return m.SearchFunc(ctx, query)
}

func (m *postRepoMock) AddLike(ctx context.Context, postID uuid.UUID, userID string) error {
	m.mu.Lock()
	m.calls.AddLike++
	m.mu.Unlock()
	return m.AddLikeFunc(ctx, postID, userID)
}

func (m *postRepoMock) RemoveLike(ctx context.Context, postID uuid.UUID, userID string) error {
	return m.RemoveLikeFunc(ctx, postID, userID)
}

func (m *postRepoMock) AddComment(ctx context.Context, postID uuid.UUID, userID, text string) (*domain.Comment, error) {
	m.mu.Lock()
	m.calls.AddComment++
	m.mu.Unlock()
	return m.AddCommentFunc(ctx, postID, userID, text)
}

func (m *postRepoMock) GetComment(ctx context.Context, commentID uuid.UUID) (*domain.Comment, error) {
	return m.GetCommentFunc(ctx, commentID)
}

func (m *postRepoMock) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	m.mu.Lock()
	m.calls.DeleteComment++
	m.mu.Unlock()
	return m.DeleteCommentFunc(ctx, commentID)
}

func (m *postRepoMock) AddReport(ctx context.Context, postID uuid.UUID, userID, reason string) (*domain.Report, error) {
	return m.AddReportFunc(ctx, postID, userID, reason)
}

func (m *postRepoMock) Save(ctx context.Context, userID string, postID uuid.UUID) error {
	return m.SaveFunc(ctx, userID, postID)
}

func (m *postRepoMock) Unsave(ctx context.Context, userID string, postID uuid.UUID) error {
	return m.UnsaveFunc(ctx, userID, postID)
}

func (m *postRepoMock) ListSaved(ctx context.Context, userID string) ([]domain.Post, error) {
	return m.ListSavedFunc(ctx, userID)
}

func (m *postRepoMock) CreateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Create
}

func (m *postRepoMock) AddLikeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.AddLike
}

type profileLoaderMock struct {
	ProfilesByExternalIDsFunc func(ctx context.Context, externalIDs []string) (map[string]domain.Profile, error)
}

func (m *profileLoaderMock) ProfilesByExternalIDs(ctx context.Context, externalIDs []string) (map[string]domain.Profile, error) {
	return m.ProfilesByExternalIDsFunc(ctx, externalIDs)
}

type notificationAppendCall struct {
	UserID string
	Type   domain.NotificationType
	Text   string
}

type notificationRepoMock struct {
	AppendFunc func(ctx context.Context, userID string, typ domain.NotificationType, text string) (*domain.Notification, error)

	mu    sync.Mutex
	calls []notificationAppendCall
}

func (m *notificationRepoMock) Append(ctx context.Context, userID string, typ domain.NotificationType, text string) (*domain.Notification, error) {
	m.mu.Lock()
	m.calls = append(m.calls, notificationAppendCall{UserID: userID, Type: typ, Text: text})
	m.mu.Unlock()
	return m.AppendFunc(ctx, userID, typ, text)
}

func (m *notificationRepoMock) AppendCalls() []notificationAppendCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mediaUploaderMock struct {
	UploadFunc  func(ctx context.Context, name string, file io.Reader) (string, error)
	DestroyFunc func(ctx context.Context, assetURL string) error
}

func (m *mediaUploaderMock) Upload(ctx context.Context, name string, file io.Reader) (string, error) {
	return m.UploadFunc(ctx, name, file)
}

func (m *mediaUploaderMock) Destroy(ctx context.Context, assetURL string) error {
	return m.DestroyFunc(ctx, assetURL)
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTxFunc(ctx, fn)
}

// defaultTxMock calls the function with the same context.
func defaultTxMock() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	}
}

// defaultProfilesMock resolves every id to a profile with username "u-<id>".
func defaultProfilesMock() *profileLoaderMock {
	return &profileLoaderMock{
		ProfilesByExternalIDsFunc: func(ctx context.Context, externalIDs []string) (map[string]domain.Profile, error) {
			out := make(map[string]domain.Profile, len(externalIDs))
			for _, id := range externalIDs {
				out[id] = domain.Profile{ExternalID: id, Username: "u-" + id}
			}
			return out, nil
		},
	}
}

// defaultNotificationMock records appends and always succeeds.
func defaultNotificationMock() *notificationRepoMock {
	return &notificationRepoMock{
		AppendFunc: func(ctx context.Context, userID string, typ domain.NotificationType, text string) (*domain.Notification, error) {
			return &domain.Notification{UserID: userID, Type: typ, Message: text}, nil
		},
	}
}
