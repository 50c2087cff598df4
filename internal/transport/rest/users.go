package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/devverse/devverse-backend/internal/domain"
	usersvc "github.com/devverse/devverse-backend/internal/service/user"
)

// userService defines the minimal interface needed by UsersHandler.
type userService interface {
	SaveUser(ctx context.Context, input usersvc.SaveUserInput) (*domain.User, error)
	GetProfile(ctx context.Context) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, input usersvc.UpdateProfileInput) (*domain.User, error)
	DeleteProfile(ctx context.Context) error
	Follow(ctx context.Context, followeeID string) error
	Unfollow(ctx context.Context, followeeID string) error
}

// UsersHandler serves account and follow REST endpoints.
type UsersHandler struct {
	svc userService
	log *slog.Logger
}

// NewUsersHandler creates a UsersHandler.
func NewUsersHandler(svc userService, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{svc: svc, log: logger.With("handler", "users")}
}

type saveUserRequest struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

type updateProfileRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
	Password  *string `json:"password"`
}

// SaveUser handles POST /api/auth/save-user.
func (h *UsersHandler) SaveUser(w http.ResponseWriter, r *http.Request) {
	var req saveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.svc.SaveUser(r.Context(), usersvc.SaveUserInput{
		Username:  req.Username,
		Email:     req.Email,
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Profile handles GET /api/users/profile.
func (h *UsersHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetProfile(r.Context())
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// UpdateProfile handles PUT /api/users/profile.
func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), usersvc.UpdateProfileInput{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
		Password:  req.Password,
	})
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// DeleteProfile handles DELETE /api/users/profile.
func (h *UsersHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProfile(r.Context()); err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Follow handles POST /api/users/{id}/follow.
func (h *UsersHandler) Follow(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Follow(r.Context(), r.PathValue("id")); err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "following"})
}

// Unfollow handles POST /api/users/{id}/unfollow.
func (h *UsersHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Unfollow(r.Context(), r.PathValue("id")); err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "unfollowed"})
}
