package ws

import (
	"encoding/json"
	"sync"

	"github.com/gocomet/carpool/pkg/logger"
)

// Hub fans seat-availability updates out to connected listeners. It is
// a read-only feed for dashboards and ride-detail pages; correctness of
// the seat counter never depends on a delivered message.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *logger.Logger
}

// Message is the envelope for every broadcast frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SeatUpdate reports a ride's seat inventory after a booking mutation.
type SeatUpdate struct {
	RideID         string `json:"ride_id"`
	SeatsAvailable int    `json:"seats_available"`
	Status         string `json:"status"`
}

// NewHub creates a new hub
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("websocket client registered",
				logger.String("client_id", client.ID),
			)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Info("websocket client unregistered",
					logger.String("client_id", client.ID),
				)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// slow consumer, drop it
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register registers a new client
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister unregisters a client
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast sends a message to all clients
func (h *Hub) Broadcast(message Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal broadcast message", logger.Err(err))
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("broadcast channel full, dropping message")
	}
}

// BroadcastSeatUpdate publishes a ride's current seat inventory.
func (h *Hub) BroadcastSeatUpdate(update SeatUpdate) {
	h.Broadcast(Message{Type: "seat_update", Data: update})
}
