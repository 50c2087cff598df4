package relay

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/devverse/devverse-backend/internal/domain"
)

// Event names understood by the relay (client to server).
const (
	EventJoin             = "join"
	EventSendMessage      = "sendMessage"
	EventSendNotification = "sendNotification"
	EventTyping           = "typing"
)

// Event names emitted by the relay (server to client).
const (
	EventReceiveMessage      = "receiveMessage"
	EventReceiveNotification = "receiveNotification"
	EventError               = "error"
)

// Event is one wire frame: a name plus a raw payload.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// JoinPayload binds the connection to a user's room.
type JoinPayload struct {
	UserID string `json:"userId"`
}

// SendMessagePayload is an outgoing direct-message intent.
type SendMessagePayload struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Text     string `json:"text"`
}

// SendNotificationPayload asks the relay to push a notification to the
// receiver's live connections. The durable record, if any, was written by
// whichever layer performed the triggering state change.
type SendNotificationPayload struct {
	Receiver     string          `json:"receiver"`
	Notification json.RawMessage `json:"notification"`
}

// TypingPayload relays a typing indicator between two users.
type TypingPayload struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	IsTyping bool   `json:"isTyping"`
}

// MessagePayload is the persisted message record as pushed to clients.
type MessagePayload struct {
	ID        uuid.UUID `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrorPayload is sent back to the originating connection only.
type ErrorPayload struct {
	Message string `json:"message"`
}

func messagePayload(m *domain.Message) MessagePayload {
	return MessagePayload{
		ID:        m.ID,
		Sender:    m.SenderID,
		Receiver:  m.ReceiverID,
		Text:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}

func mustEvent(name string, payload any) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		// Payload types are all local structs; marshal cannot fail at runtime.
		panic(err)
	}
	return Event{Event: name, Data: data}
}
