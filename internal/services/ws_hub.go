package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"lensbook-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage is the envelope for every frame on the realtime socket
type WSMessage struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// messageSub is one standing feed subscription for a connected viewer
type messageSub struct {
	userID  string
	deliver func(*models.ChatMessage)
}

// WSHub manages WebSocket connections and routes message inserts to the
// feeds of their participants. Routing is filtered server-side: an insert is
// offered only to subscribers registered for its sender or receiver, never
// broadcast to every connection.
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
	subs        map[string]map[*messageSub]struct{} // keyed by participant user ID
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]*websocket.Conn),
		subs:        make(map[string]map[*messageSub]struct{}),
	}
}

// Register registers a new WebSocket connection for a user
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Close existing connection if any
	if existing, ok := h.connections[userID]; ok {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a WebSocket connection for a user
func (h *WSHub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Only drop the registration if it still belongs to this connection;
	// a reconnect may already have replaced it.
	if current, ok := h.connections[userID]; ok && current == conn {
		current.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// IsOnline checks if a user has a live connection
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// SendToUser sends a frame to a specific user
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	conn, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID, conn)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// SubscribeMessages registers deliver to receive inserts the user
// participates in. The returned cancel releases the subscription; the hub
// stops routing to deliver once cancel returns.
func (h *WSHub) SubscribeMessages(userID string, deliver func(*models.ChatMessage)) (cancel func()) {
	sub := &messageSub{userID: userID, deliver: deliver}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*messageSub]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[userID]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(h.subs, userID)
			}
		}
	}
}

// Broadcast routes one inserted message to the subscriptions of its two
// participants.
func (h *WSHub) Broadcast(msg *models.ChatMessage) {
	h.mu.RLock()
	targets := make([]*messageSub, 0, 2)
	for _, userID := range []string{msg.SenderID, msg.ReceiverID} {
		for sub := range h.subs[userID] {
			targets = append(targets, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range targets {
		sub.deliver(msg)
	}
}
