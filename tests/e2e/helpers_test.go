package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devverse/devverse-backend/internal/adapter/postgres"
	messagerepo "github.com/devverse/devverse-backend/internal/adapter/postgres/message"
	notificationrepo "github.com/devverse/devverse-backend/internal/adapter/postgres/notification"
	postrepo "github.com/devverse/devverse-backend/internal/adapter/postgres/post"
	"github.com/devverse/devverse-backend/internal/adapter/postgres/testhelper"
	userrepo "github.com/devverse/devverse-backend/internal/adapter/postgres/user"
	"github.com/devverse/devverse-backend/internal/auth"
	"github.com/devverse/devverse-backend/internal/config"
	"github.com/devverse/devverse-backend/internal/relay"
	messagesvc "github.com/devverse/devverse-backend/internal/service/message"
	notificationsvc "github.com/devverse/devverse-backend/internal/service/notification"
	postsvc "github.com/devverse/devverse-backend/internal/service/post"
	usersvc "github.com/devverse/devverse-backend/internal/service/user"
	"github.com/devverse/devverse-backend/internal/transport/middleware"
	"github.com/devverse/devverse-backend/internal/transport/rest"
	"github.com/devverse/devverse-backend/internal/transport/ws"
)

const (
	testSecret = "e2e-test-secret-key-0123456789abcdef"
	testIssuer = "devverse"
)

// stubUploader fakes the CDN: every upload resolves to a deterministic URL.
type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	return "https://cdn.test/devverse/" + name, nil
}

func (stubUploader) Destroy(_ context.Context, _ string) error {
	return nil
}

type testServer struct {
	URL    string
	WSURL  string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// newTestServer stands up the full stack against a containerized database:
// repositories, services, relay, websocket transport, router and middleware
// chain, all served from an httptest server.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.DiscardHandler)

	txManager := postgres.NewTxManager(pool)
	users := userrepo.New(pool)
	posts := postrepo.New(pool)
	messages := messagerepo.New(pool)
	notifications := notificationrepo.New(pool)

	relayCfg := config.RelayConfig{
		AllowedOrigins: "*",
		StoreTimeout:   5 * time.Second,
		WriteTimeout:   5 * time.Second,
	}

	registry := relay.NewRegistry()
	relaySvc := relay.New(logger, registry, messages, notifications, relayCfg)

	mux := rest.NewRouter(rest.Handlers{
		Health:        rest.NewHealthHandler(pool, registry, "e2e-test"),
		Users:         rest.NewUsersHandler(usersvc.NewService(logger, users, notifications, txManager), logger),
		Posts:         rest.NewPostsHandler(postsvc.NewService(logger, posts, users, notifications, stubUploader{}, txManager), logger, 8<<20),
		Messages:      rest.NewMessagesHandler(messagesvc.NewService(logger, messages), logger),
		Notifications: rest.NewNotificationsHandler(notificationsvc.NewService(logger, notifications), logger),
		Relay:         ws.NewHandler(relaySvc, relayCfg, logger),
	})

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.CORS(config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,PUT,DELETE,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type",
			AllowCredentials: true,
			MaxAge:           86400,
		}),
		middleware.Auth(auth.NewVerifier(testSecret, testIssuer)),
		middleware.Logger(logger),
	)(mux)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		WSURL:  "ws" + srv.URL[len("http"):],
		Client: srv.Client(),
		Pool:   pool,
	}
}

// mintToken signs a session token for the given external user id, the way
// the identity provider would.
func mintToken(t *testing.T, userID string) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    testIssuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

func (ts *testServer) doJSON(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	return resp.StatusCode, data
}

// createPost publishes a text post via the multipart endpoint and returns
// the decoded response.
func (ts *testServer) createPost(t *testing.T, token, text, tags string) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("text", text); err != nil {
		t.Fatalf("write text field: %v", err)
	}
	if tags != "" {
		if err := w.WriteField("tags", tags); err != nil {
			t.Fatalf("write tags field: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/posts", &buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := ts.Client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		t.Fatalf("create post: expected status 201, got %d: %s", resp.StatusCode, data)
	}

	var post map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		t.Fatalf("decode post response: %v", err)
	}
	return post
}

func decodeJSON[T any](t *testing.T, data []byte) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode response: %v (%s)", err, data)
	}
	return v
}
