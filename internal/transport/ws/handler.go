// Package ws exposes the realtime relay over a websocket endpoint. Each
// accepted connection gets a relay session; inbound frames are decoded and
// dispatched sequentially, outbound pushes are serialized per connection.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/devverse/devverse-backend/internal/config"
	"github.com/devverse/devverse-backend/internal/relay"
)

// Handler upgrades HTTP requests to websocket connections and bridges them
// to the relay.
type Handler struct {
	relay   *relay.Relay
	log     *slog.Logger
	origins []string
}

// NewHandler creates a websocket Handler. Allowed origins come from the
// relay configuration; "*" disables the origin check.
func NewHandler(r *relay.Relay, cfg config.RelayConfig, logger *slog.Logger) *Handler {
	return &Handler{
		relay:   r,
		log:     logger.With("component", "ws"),
		origins: cfg.OriginList(),
	}
}

func (h *Handler) acceptOptions() *websocket.AcceptOptions {
	opts := &websocket.AcceptOptions{}
	for _, o := range h.origins {
		if o == "*" {
			opts.InsecureSkipVerify = true
			return opts
		}
	}
	opts.OriginPatterns = h.origins
	return opts
}

// ServeHTTP handles GET /ws.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, h.acceptOptions())
	if err != nil {
		h.log.Debug("websocket accept failed", slog.String("error", err.Error()))
		return
	}

	conn := newConn(c)
	sess := h.relay.NewSession(conn)
	defer h.relay.CloseSession(sess)
	defer c.CloseNow()

	ctx := r.Context()
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == -1 && !errors.Is(err, context.Canceled) {
				h.log.Debug("websocket read failed", slog.String("error", err.Error()))
			}
			return
		}

		var evt relay.Event
		if err := json.Unmarshal(data, &evt); err != nil {
			// Malformed frame; the connection stays open.
			h.log.Debug("dropping malformed frame", slog.String("error", err.Error()))
			continue
		}

		h.relay.Dispatch(ctx, sess, evt)
	}
}

// conn adapts a websocket connection to the relay's Conn. Writes are
// serialized because the relay may push from multiple goroutines.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func newConn(ws *websocket.Conn) *conn {
	return &conn{ws: ws}
}

func (c *conn) Send(ctx context.Context, evt relay.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.Write(ctx, websocket.MessageText, data)
}
