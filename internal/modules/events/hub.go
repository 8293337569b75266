package events

import (
	"encoding/json"
	"log"
	"sync"

	"empanelment/internal/domain"

	"github.com/gorilla/websocket"
)

// Event is one lifecycle change pushed to connected reviewer dashboards.
type Event struct {
	Type          string  `json:"type"`
	ApplicationID string  `json:"application_id"`
	Action        string  `json:"action"`
	OldStatus     *string `json:"old_status,omitempty"`
	NewStatus     string  `json:"new_status"`
}

const EventAudit = "audit"

// Hub fans audit events out to connected websocket clients. Broadcasting
// never blocks: a slow client's event is dropped.
type Hub struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]chan []byte
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[*websocket.Conn]chan []byte),
	}
}

func (h *Hub) register(conn *websocket.Conn) chan []byte {
	send := make(chan []byte, 32)
	h.mu.Lock()
	h.connections[conn] = send
	h.mu.Unlock()
	return send
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if send, ok := h.connections[conn]; ok {
		delete(h.connections, conn)
		close(send)
	}
	h.mu.Unlock()
}

// PublishAudit satisfies the lifecycle service's EventPublisher.
func (h *Hub) PublishAudit(entry domain.AuditEntry) {
	event := Event{
		Type:          EventAudit,
		ApplicationID: entry.ApplicationID,
		Action:        string(entry.Action),
		OldStatus:     entry.OldStatus,
		NewStatus:     entry.NewStatus,
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("events: marshal failed: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, send := range h.connections {
		select {
		case send <- data:
		default:
			// client too slow, drop
		}
	}
}
