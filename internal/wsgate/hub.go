package wsgate

import (
	"sync"

	"github.com/park285/dama-server/internal/obslog"
	"github.com/park285/dama-server/pkg/damadto"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// Hub maps identity ids to live connections and implements session.Notifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Send queues ev for identityID. Unknown ids are ignored.
func (h *Hub) Send(identityID string, ev damadto.Event) {
	h.deliver(identityID, damadto.NewMessage(ev))
}

// deliver drops a client whose buffer is full instead of blocking the caller.
func (h *Hub) deliver(identityID string, msg damadto.Message) {
	h.mu.RLock()
	c, ok := h.clients[identityID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if c.enqueue(msg) {
		return
	}
	if c.closed() {
		return
	}
	obslog.L().Warn("ws_send_overflow", zap.String("conn_id", identityID), zap.String("type", msg.Type))
	c.close(websocket.StatusPolicyViolation, "send buffer overflow")
}

// CloseAll closes every connection, used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.close(websocket.StatusGoingAway, "server shutdown")
	}
}
