package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/devverse/devverse-backend/internal/domain"
)

type notificationService interface {
	List(ctx context.Context) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	MarkAllRead(ctx context.Context) (int64, error)
}

// NotificationsHandler serves the notification REST endpoints.
type NotificationsHandler struct {
	svc notificationService
	log *slog.Logger
}

// NewNotificationsHandler creates a NotificationsHandler.
func NewNotificationsHandler(svc notificationService, logger *slog.Logger) *NotificationsHandler {
	return &NotificationsHandler{svc: svc, log: logger.With("handler", "notifications")}
}

// List handles GET /api/notifications.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	notifs, err := h.svc.List(r.Context())
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	out := make([]notificationResponse, 0, len(notifs))
	for i := range notifs {
		out = append(out, toNotificationResponse(&notifs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// MarkRead handles PUT /api/notifications/{id}/read.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	notif, err := h.svc.MarkRead(r.Context(), id)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNotificationResponse(notif))
}

// MarkAllRead handles PUT /api/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	updated, err := h.svc.MarkAllRead(r.Context())
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}
