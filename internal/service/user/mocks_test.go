package user

import (
	"context"
	"sync"

	userrepo "github.com/devverse/devverse-backend/internal/adapter/postgres/user"
	"github.com/devverse/devverse-backend/internal/domain"
)

var (
	_ userRepo         = &userRepoMock{}
	_ notificationRepo = &notificationRepoMock{}
	_ txManager        = &txManagerMock{}
)

type userRepoMock struct {
	UpsertFunc          func(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByExternalIDFunc func(ctx context.Context, externalID string) (*domain.User, error)
	ListFunc            func(ctx context.Context) ([]domain.User, error)
	UpdateFunc          func(ctx context.Context, externalID string, params userrepo.UpdateParams) (*domain.User, error)
	DeleteFunc          func(ctx context.Context, externalID string) error
	FollowFunc          func(ctx context.Context, followerID, followeeID string) error
	UnfollowFunc        func(ctx context.Context, followerID, followeeID string) error

	mu    sync.Mutex
	calls struct {
		Upsert   []*domain.User
		Update   []userrepo.UpdateParams
		Follow   [][2]string
		Unfollow [][2]string
	}
}

func (m *userRepoMock) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	m.calls.Upsert = append(m.calls.Upsert, u)
	m.mu.Unlock()
	return m.UpsertFunc(ctx, u)
}

func (m *userRepoMock) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return m.GetByExternalIDFunc(ctx, externalID)
}

func (m *userRepoMock) List(ctx context.Context) ([]domain.User, error) {
	return m.ListFunc(ctx)
}

func (m *userRepoMock) Update(ctx context.Context, externalID string, params userrepo.UpdateParams) (*domain.User, error) {
	m.mu.Lock()
	m.calls.Update = append(m.calls.Update, params)
	m.mu.Unlock()
	return m.UpdateFunc(ctx, externalID, params)
}

func (m *userRepoMock) Delete(ctx context.Context, externalID string) error {
	return m.DeleteFunc(ctx, externalID)
}

func (m *userRepoMock) Follow(ctx context.Context, followerID, followeeID string) error {
	m.mu.Lock()
	m.calls.Follow = append(m.calls.Follow, [2]string{followerID, followeeID})
	m.mu.Unlock()
	return m.FollowFunc(ctx, followerID, followeeID)
}

func (m *userRepoMock) Unfollow(ctx context.Context, followerID, followeeID string) error {
	m.mu.Lock()
	m.calls.Unfollow = append(m.calls.Unfollow, [2]string{followerID, followeeID})
	m.mu.Unlock()
	return m.UnfollowFunc(ctx, followerID, followeeID)
}

func (m *userRepoMock) UpsertCalls() []*domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Upsert
}

func (m *userRepoMock) UpdateCalls() []userrepo.UpdateParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Update
}

func (m *userRepoMock) FollowCalls() [][2]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Follow
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

// defaultNotificationMock records appends and always succeeds.
func defaultNotificationMock() *notificationRepoMock {
	return &notificationRepoMock{
		AppendFunc: func(ctx context.Context, userID string, typ domain.NotificationType, text string) (*domain.Notification, error) {
			return &domain.Notification{UserID: userID, Type: typ, Message: text}, nil
		},
	}
}
