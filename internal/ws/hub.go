package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"hellchat/internal/metrics"
	"hellchat/internal/service"
)

// Event is the envelope of every server-to-client frame.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hub tracks live clients keyed by user ID. A user may hold several
// connections (tabs, devices); each receives every event for that user.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*client]struct{}
	metrics *metrics.Metrics
}

var _ service.Notifier = (*Hub)(nil)

func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		clients: make(map[int64]map[*client]struct{}),
		metrics: m,
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
	h.metrics.ClientConnected()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.clients, c.userID)
	}
	c.closeSend()
	h.metrics.ClientDisconnected()
}

// Online reports whether userID has at least one live connection.
func (h *Hub) Online(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Publish queues the event on every connection of userIDs. Clients whose
// buffer is full are dropped.
func (h *Hub) Publish(userIDs []int64, event string, payload any) {
	frame, err := json.Marshal(Event{Type: event, Data: payload})
	if err != nil {
		slog.Error("ws: marshal event", "event", event, "error", err)
		return
	}

	var slow []*client
	h.mu.RLock()
	for _, uid := range userIDs {
		for c := range h.clients[uid] {
			if !c.enqueue(frame) {
				slow = append(slow, c)
			}
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		slog.Warn("ws: dropping slow client", "user_id", c.userID)
		h.unregister(c)
	}
}

// Broadcast sends the event to every connected user.
func (h *Hub) Broadcast(event string, payload any) {
	h.mu.RLock()
	ids := make([]int64, 0, len(h.clients))
	for uid := range h.clients {
		ids = append(ids, uid)
	}
	h.mu.RUnlock()
	h.Publish(ids, event, payload)
}
