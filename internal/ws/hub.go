package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"edudesk/entity"
)

// Event represents a WebSocket event sent to dashboard clients.
type Event struct {
	Type string      `json:"type"` // "school_registered", "trial_activated"
	Data interface{} `json:"data"`
}

// Hub maintains the set of connected dashboard clients and broadcasts
// registration events to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Slow consumer; drop it rather than block the feed.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// SchoolRegistered notifies connected dashboards about a new school.
func (h *Hub) SchoolRegistered(school *entity.School) {
	h.broadcast <- &Event{
		Type: "school_registered",
		Data: school,
	}
}

// TrialActivated notifies connected dashboards about a new trial.
func (h *Hub) TrialActivated(sub *entity.Subscription) {
	h.broadcast <- &Event{
		Type: "trial_activated",
		Data: sub,
	}
}
