// Package relay implements the realtime presence and message-delivery core:
// it binds live connections to user identities, routes direct messages and
// notification events between them, and persists the records those events
// are built from. Delivery is best-effort live push, durable-on-miss: a
// message is always stored, and offline recipients pick it up from history.
package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/devverse/devverse-backend/internal/config"
	"github.com/devverse/devverse-backend/internal/domain"
)

// Conn is one live, bidirectional client connection. The relay owns a Conn
// for its whole lifetime; no other component holds a reference.
type Conn interface {
	// Send pushes one event frame to the client. A failed send on a stale
	// connection is tolerated; the event is simply lost for that connection.
	Send(ctx context.Context, evt Event) error
}

// MessageStore is the durable record of direct messages.
type MessageStore interface {
	// Append persists a message with a server-assigned id and timestamp.
	// The record is durable when Append returns.
	Append(ctx context.Context, sender, receiver, text string) (*domain.Message, error)
}

// NotificationStore is the durable record of per-user notification events.
type NotificationStore interface {
	Append(ctx context.Context, userID string, typ domain.NotificationType, text string) (*domain.Notification, error)
}

// sessionState tracks the per-connection lifecycle.
type sessionState int

const (
	stateConnected sessionState = iota // transport open, no identity bound
	stateJoined                        // identity bound, present in registry
	stateClosed                        // terminal
)

// Session is the relay-side state of one connection.
type Session struct {
	conn   Conn
	userID string
	state  sessionState
}

// UserID returns the identity bound to this session, or "" before join.
func (s *Session) UserID() string { return s.userID }

// Relay accepts events from client sessions, persists them via the stores,
// and forwards them to the recipient's live connections.
type Relay struct {
	log           *slog.Logger
	registry      *Registry
	messages      MessageStore
	notifications NotificationStore
	storeTimeout  time.Duration
	writeTimeout  time.Duration
}

// New creates a Relay backed by the given registry and stores.
func New(
	logger *slog.Logger,
	registry *Registry,
	messages MessageStore,
	notifications NotificationStore,
	cfg config.RelayConfig,
) *Relay {
	return &Relay{
		log:           logger.With("component", "relay"),
		registry:      registry,
		messages:      messages,
		notifications: notifications,
		storeTimeout:  cfg.StoreTimeout,
		writeTimeout:  cfg.WriteTimeout,
	}
}

// NewSession registers a fresh transport-level connection with the relay.
// The session starts unbound; the client must send a join event.
func (r *Relay) NewSession(conn Conn) *Session {
	return &Session{conn: conn, state: stateConnected}
}

// CloseSession transitions the session to its terminal state and removes the
// connection from the registry. Safe to call for sessions that never joined
// and safe to call more than once.
func (r *Relay) CloseSession(s *Session) {
	if s == nil || s.state == stateClosed {
		return
	}
	r.registry.Leave(s.conn)
	s.state = stateClosed
	if s.userID != "" {
		r.log.Debug("session closed", slog.String("user_id", s.userID))
	}
}

// Dispatch processes one inbound event on a session. Events from a single
// connection are dispatched sequentially by the transport, giving FIFO
// processing per connection. Unknown or malformed events are ignored and the
// connection stays open.
func (r *Relay) Dispatch(ctx context.Context, s *Session, evt Event) Result {
	if s.state == stateClosed {
		return dropped("session closed")
	}

	switch evt.Event {
	case EventJoin:
		return r.handleJoin(s, evt.Data)
	case EventSendMessage:
		return r.handleSendMessage(ctx, s, evt.Data)
	case EventSendNotification:
		return r.handleSendNotification(ctx, evt.Data)
	case EventTyping:
		return r.handleTyping(ctx, evt.Data)
	default:
		r.log.Debug("ignoring unknown event", slog.String("event", evt.Event))
		return dropped("unknown event")
	}
}

// handleJoin binds the connection to the supplied identity's room.
//
// The identity is trusted as sent by the already-authenticated client
// session; it is not re-verified here. Known gap carried over from the
// source system.
func (r *Relay) handleJoin(s *Session, data json.RawMessage) Result {
	var p JoinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return dropped("malformed join payload")
	}
	if p.UserID == "" {
		return dropped("empty user id")
	}

	r.registry.Join(p.UserID, s.conn)
	s.userID = p.UserID
	s.state = stateJoined

	r.log.Info("joined room", slog.String("user_id", p.UserID))
	return delivered(0)
}

// handleSendMessage persists the message and pushes it to every live
// connection of both the sender (multi-tab echo) and the receiver.
// Persistence failure aborts the push and surfaces an error event to the
// originating connection only.
func (r *Relay) handleSendMessage(ctx context.Context, s *Session, data json.RawMessage) Result {
	var p SendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return dropped("malformed sendMessage payload")
	}
	if p.Sender == "" || p.Receiver == "" {
		return dropped("missing sender or receiver")
	}
	if strings.TrimSpace(p.Text) == "" {
		// Silent on the wire, tagged here so the drop shows up in logs.
		r.log.Debug("dropping empty message",
			slog.String("sender", p.Sender),
			slog.String("receiver", p.Receiver))
		return dropped("empty text")
	}

	storeCtx, cancel := context.WithTimeout(ctx, r.storeTimeout)
	defer cancel()

	msg, err := r.messages.Append(storeCtx, p.Sender, p.Receiver, p.Text)
	if err != nil {
		r.log.ErrorContext(ctx, "message append failed",
			slog.String("sender", p.Sender),
			slog.String("receiver", p.Receiver),
			slog.String("error", err.Error()))
		r.sendError(ctx, s.conn, "message could not be delivered")
		return dropped("persistence failure")
	}

	// The relay performs this state change, so it also owns the durable
	// message-type notification for the receiver. Failure here does not
	// undo the already-persisted message.
	notifCtx, cancelNotif := context.WithTimeout(ctx, r.storeTimeout)
	defer cancelNotif()
	if _, err := r.notifications.Append(notifCtx, p.Receiver, domain.NotificationMessage, "You have a new message"); err != nil {
		r.log.WarnContext(ctx, "message notification append failed",
			slog.String("receiver", p.Receiver),
			slog.String("error", err.Error()))
	}

	evt := mustEvent(EventReceiveMessage, messagePayload(msg))

	receiverConns := r.registry.ConnectionsFor(p.Receiver)
	pushed := r.push(ctx, receiverConns, evt)
	if p.Sender != p.Receiver {
		pushed += r.push(ctx, r.registry.ConnectionsFor(p.Sender), evt)
	}

	if len(receiverConns) == 0 {
		return storedOnly(pushed)
	}
	return delivered(pushed)
}

// handleSendNotification is a pure delivery primitive: best-effort push to
// the receiver's live connections, no persistence. If the target is offline
// the event is dropped at this layer; any durable copy was written
// beforehand by the caller.
func (r *Relay) handleSendNotification(ctx context.Context, data json.RawMessage) Result {
	var p SendNotificationPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return dropped("malformed sendNotification payload")
	}
	if p.Receiver == "" {
		return dropped("empty receiver")
	}

	conns := r.registry.ConnectionsFor(p.Receiver)
	if len(conns) == 0 {
		return dropped("receiver offline")
	}

	pushed := r.push(ctx, conns, Event{Event: EventReceiveNotification, Data: p.Notification})
	return delivered(pushed)
}

// handleTyping forwards a typing indicator to the receiver's room.
func (r *Relay) handleTyping(ctx context.Context, data json.RawMessage) Result {
	var p TypingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return dropped("malformed typing payload")
	}
	if p.Receiver == "" {
		return dropped("empty receiver")
	}

	conns := r.registry.ConnectionsFor(p.Receiver)
	if len(conns) == 0 {
		return dropped("receiver offline")
	}

	pushed := r.push(ctx, conns, mustEvent(EventTyping, p))
	return delivered(pushed)
}

// push writes evt to each connection, tolerating stale ones. Returns the
// number of successful writes.
func (r *Relay) push(ctx context.Context, conns []Conn, evt Event) int {
	sent := 0
	for _, c := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, r.writeTimeout)
		err := c.Send(writeCtx, evt)
		cancel()
		if err != nil {
			// Connection went stale between lookup and emit; the event is
			// lost for this connection only.
			r.log.Debug("push failed", slog.String("error", err.Error()))
			continue
		}
		sent++
	}
	return sent
}

// sendError surfaces a per-operation failure to the originating connection.
func (r *Relay) sendError(ctx context.Context, conn Conn, message string) {
	writeCtx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()
	if err := conn.Send(writeCtx, mustEvent(EventError, ErrorPayload{Message: message})); err != nil {
		r.log.Debug("error event push failed", slog.String("error", err.Error()))
	}
}
