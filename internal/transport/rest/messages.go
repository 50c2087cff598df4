package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/devverse/devverse-backend/internal/domain"
)

type messageService interface {
	ListConversation(ctx context.Context, otherUserID string) ([]domain.Message, error)
}

// MessagesHandler serves the conversation history endpoint. Sending
// messages goes through the realtime relay, not REST.
type MessagesHandler struct {
	svc messageService
	log *slog.Logger
}

// NewMessagesHandler creates a MessagesHandler.
func NewMessagesHandler(svc messageService, logger *slog.Logger) *MessagesHandler {
	return &MessagesHandler{svc: svc, log: logger.With("handler", "messages")}
}

// Conversation handles GET /api/messages/{userId}.
func (h *MessagesHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.ListConversation(r.Context(), r.PathValue("userId"))
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	out := make([]messageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, toMessageResponse(&msgs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}
