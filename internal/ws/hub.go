package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Hub keeps the set of live dashboard sockets. Broadcast is best-effort,
// at-most-once: a failed send drops the connection and moves on.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		conns: make(map[*websocket.Conn]struct{}),
		log:   log,
	}
}

func (h *Hub) Register(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

// Broadcast sends a JSON message to every connected client.
func (h *Hub) Broadcast(message any) {
	payload, err := json.Marshal(message)
	if err != nil {
		h.log.Warn("ws broadcast marshal failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			// connection is gone, drop it
			delete(h.conns, c)
			_ = c.Close()
		}
	}
}

// NotifyDashboardChanged signals clients that dashboard numbers may be stale.
func (h *Hub) NotifyDashboardChanged(reason string) {
	h.Broadcast(map[string]string{
		"type":   "dashboard_changed",
		"reason": reason,
	})
}

// Handler upgrades /ws/dashboard connections and parks them until close.
// The server only pushes; inbound frames are read and discarded to detect
// disconnects.
func (h *Hub) Handler() func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		h.Register(c)
		defer func() {
			h.Unregister(c)
			_ = c.Close()
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}
}
