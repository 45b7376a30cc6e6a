package websocket

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypePaymentStatus     MessageType = "PAYMENT_STATUS"
	MessageTypeApplicationStatus MessageType = "APPLICATION_STATUS"
	MessageTypeError             MessageType = "ERROR"
)

type WebSocketMessage struct {
	Type       MessageType `json:"type"`
	Payload    interface{} `json:"payload"`
	Timestamp  time.Time   `json:"timestamp"`
	PropertyID string      `json:"propertyId,omitempty"`
}

// Client is one connected dashboard, subscribed to property channels.
type Client struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Conn       *websocket.Conn
	Hub        *Hub
	Send       chan WebSocketMessage
	Properties map[string]bool
	mu         sync.RWMutex
	closed     bool
}

// Hub fans application and payment status events out to connected
// landlord and manager dashboards.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan WebSocketMessage
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan WebSocketMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

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
				client.closeSend()
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.broadcastToAll(message)
		}
	}
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(message WebSocketMessage) {
	h.broadcast <- message
}

// BroadcastApplicationEvent pushes a status event to every connected
// client. Payloads that carry a property_id also reach property
// subscribers through broadcastToAll; fan-out stays best-effort.
func (h *Hub) BroadcastApplicationEvent(eventType string, payload interface{}) {
	h.broadcastToAll(WebSocketMessage{
		Type:      MessageType(eventType),
		Payload:   payload,
		Timestamp: time.Now(),
	})
}

// BroadcastToProperty sends a message to clients watching one property.
func (h *Hub) BroadcastToProperty(propertyID string, message WebSocketMessage) {
	h.mu.RLock()
	var stale []*Client
	for client := range h.clients {
		client.mu.RLock()
		_, subscribed := client.Properties[propertyID]
		client.mu.RUnlock()

		if subscribed {
			select {
			case client.Send <- message:
			default:
				stale = append(stale, client)
			}
		}
	}
	h.mu.RUnlock()

	h.dropClients(stale)
}

func (h *Hub) broadcastToAll(message WebSocketMessage) {
	h.mu.RLock()
	var stale []*Client
	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	h.dropClients(stale)
}

// dropClients removes clients whose send buffers are full. Membership is
// re-checked under the write lock so a concurrent unregister cannot lead
// to a double close of the send channel.
func (h *Hub) dropClients(stale []*Client) {
	if len(stale) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, client := range stale {
		if _, ok := h.clients[client]; ok {
			delete(h.clients, client)
			client.closeSend()
		}
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SubscribeToProperty adds a property channel to the client.
func (c *Client) SubscribeToProperty(propertyID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Properties == nil {
		c.Properties = make(map[string]bool)
	}
	c.Properties[propertyID] = true
}

// UnsubscribeFromProperty removes a property channel from the client.
func (c *Client) UnsubscribeFromProperty(propertyID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Properties, propertyID)
}

// trySend queues a message for the client without blocking. Dropped when
// the buffer is full or the hub has already closed the send channel.
func (c *Client) trySend(message WebSocketMessage) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- message:
	default:
	}
}

// closeSend closes the send channel exactly once. The readPump may still
// call trySend after the hub drops the client; the flag keeps that from
// hitting a closed channel.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}
