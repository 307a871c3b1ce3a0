package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// ForegroundMessage is what an open dashboard session renders as a transient
// in-app toast. Fire-and-forget: no persistence, no acknowledgment.
type ForegroundMessage struct {
	NotificationID string `json:"notification_id,omitempty"`
	Title          string `json:"title"`
	Body           string `json:"body"`
}

type WSClient struct {
	UserID uint
	Conn   *websocket.Conn

	// gorilla/websocket allows at most one concurrent writer per
	// connection; broadcasts and keepalive pings all go through write.
	mu sync.Mutex
}

func (c *WSClient) write(messageType int, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, payload)
}

// Ping sends a keepalive control frame, serialized with broadcast writes.
func (c *WSClient) Ping() error {
	return c.write(websocket.PingMessage, nil)
}

// RealtimeHub holds the foreground listeners: one subscription per
// authenticated session, torn down when the socket closes.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// Broadcast delivers a foreground message to every connected session.
func (h *RealtimeHub) Broadcast(msg ForegroundMessage) {
	payload, _ := json.Marshal(map[string]any{
		"kind":         "notification.received",
		"notification": msg,
	})
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, set := range h.clients {
		for c := range set {
			_ = c.write(websocket.TextMessage, payload)
		}
	}
}

// BroadcastAlert delivers an alert to one user's sessions.
func (h *RealtimeHub) BroadcastAlert(userID uint, payload any) {
	msg, _ := json.Marshal(payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.write(websocket.TextMessage, msg)
	}
}
