package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventsHandler streams session events to WebSocket clients as JSON text
// messages. Every connection gets its own bus subscription.
type EventsHandler struct {
	bus     Subscriber
	logger  *zap.Logger
	clients atomic.Int64
}

// NewEventsHandler creates a new EventsHandler reading from bus.
func NewEventsHandler(bus Subscriber, logger *zap.Logger) *EventsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventsHandler{bus: bus, logger: logger}
}

// Clients returns the number of connected clients.
func (h *EventsHandler) Clients() int64 {
	return h.clients.Load()
}

// ServeHTTP handles WebSocket upgrade requests. It subscribes before
// upgrading, so the stream is live once the handshake returns.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	stream, err := h.bus.Subscribe(ctx)
	if err != nil {
		h.logger.Error("event subscription failed", zap.Error(err))
		http.Error(w, "Event stream unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.clients.Add(1)
	defer h.clients.Add(-1)
	h.logger.Debug("events client connected", zap.String("remote", r.RemoteAddr))

	// Drain client messages so control frames are processed; a read error
	// means the client went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-stream:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				h.logger.Debug("events client write failed", zap.Error(err))
				return
			}
		}
	}
}
