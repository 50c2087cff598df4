package rest

import (
	"net/http"

	"github.com/devverse/devverse-backend/internal/transport/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health        *HealthHandler
	Users         *UsersHandler
	Posts         *PostsHandler
	Messages      *MessagesHandler
	Notifications *NotificationsHandler
	Relay         http.Handler
}

// NewRouter builds the route table. Reads on the public feed stay open to
// anonymous clients; everything acting as a user requires a verified
// identity.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	mux.Handle("GET /ws", h.Relay)

	authed := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(fn)
	}

	mux.Handle("POST /api/auth/save-user", authed(h.Users.SaveUser))

	mux.Handle("GET /api/users", authed(h.Users.List))
	mux.Handle("GET /api/users/profile", authed(h.Users.Profile))
	mux.Handle("PUT /api/users/profile", authed(h.Users.UpdateProfile))
	mux.Handle("DELETE /api/users/profile", authed(h.Users.DeleteProfile))
	mux.Handle("POST /api/users/{id}/follow", authed(h.Users.Follow))
	mux.Handle("POST /api/users/{id}/unfollow", authed(h.Users.Unfollow))

	mux.HandleFunc("GET /api/posts", h.Posts.List)
	mux.HandleFunc("GET /api/posts/search", h.Posts.Search)
	mux.Handle("GET /api/posts/saved", authed(h.Posts.ListSaved))
	mux.HandleFunc("GET /api/posts/{id}", h.Posts.Get)
	mux.Handle("POST /api/posts", authed(h.Posts.Create))
	mux.Handle("PUT /api/posts/{id}", authed(h.Posts.Update))
	mux.Handle("DELETE /api/posts/{id}", authed(h.Posts.Delete))
	mux.Handle("POST /api/posts/{id}/like", authed(h.Posts.Like))
	mux.Handle("POST /api/posts/{id}/unlike", authed(h.Posts.Unlike))
	mux.Handle("POST /api/posts/{id}/comments", authed(h.Posts.AddComment))
	mux.Handle("DELETE /api/posts/{id}/comments/{commentId}", authed(h.Posts.DeleteComment))
	mux.Handle("POST /api/posts/{id}/report", authed(h.Posts.Report))
	mux.Handle("POST /api/posts/{id}/save", authed(h.Posts.Save))
	mux.Handle("POST /api/posts/{id}/unsave", authed(h.Posts.Unsave))

	mux.Handle("GET /api/messages/{userId}", authed(h.Messages.Conversation))

	mux.Handle("GET /api/notifications", authed(h.Notifications.List))
	mux.Handle("PUT /api/notifications/read-all", authed(h.Notifications.MarkAllRead))
	mux.Handle("PUT /api/notifications/{id}/read", authed(h.Notifications.MarkRead))

	return mux
}
