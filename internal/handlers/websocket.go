package handlers

import (
	"encoding/json"
	"net/http"

	"lensbook-backend/internal/feed"
	"lensbook-backend/internal/models"
	"lensbook-backend/internal/services"
	"lensbook-backend/internal/session"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // mobile clients connect from app origins
	},
}

// WebSocketHandler is the realtime gateway. Each connection gets its own
// session manager (bootstrapped from the presented token) and one
// conversation feed combining a history load with live insert deliveries.
type WebSocketHandler struct {
	hub            *services.WSHub
	authService    *services.AuthService
	profileService *services.ProfileService
	messageService *services.MessageService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *services.WSHub,
	authService *services.AuthService,
	profileService *services.ProfileService,
	messageService *services.MessageService,
) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		authService:    authService,
		profileService: profileService,
		messageService: messageService,
	}
}

// clientFrame is an inbound frame from the client
type clientFrame struct {
	Type       string  `json:"type"`
	ReceiverID string  `json:"receiver_id,omitempty"`
	Text       string  `json:"text,omitempty"`
	ImageURL   *string `json:"image_url,omitempty"`
}

// HandleWebSocket handles GET /ws?token=...&counterpart_id=...
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, "token required", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	ctx := r.Context()

	// Per-connection session manager: the resolved user drives everything
	// below, and the profile fallback guarantees it is never nil for a
	// live session.
	manager := session.NewManager(h.authService, h.profileService)
	if err := manager.Bootstrap(ctx, token); err != nil {
		log.Error().Err(err).Msg("Session bootstrap failed")
	}
	sess, user := manager.Current()
	if sess == nil {
		h.sendFrame(conn, services.WSMessage{Type: "error", Message: "invalid token"})
		return
	}

	h.hub.Register(user.ID, conn)
	defer h.hub.Unregister(user.ID, conn)

	h.sendFrame(conn, services.WSMessage{Type: "session", Data: user})

	counterpartID := r.URL.Query().Get("counterpart_id")

	// Attach the live stream before loading history so inserts arriving
	// mid-load are merged by timestamp instead of lost or misordered.
	conversation := feed.New(user.ID, counterpartID, h.messageService)
	conversation.OnMessage(func(msg *models.ChatMessage) {
		if err := h.hub.SendToUser(user.ID, services.WSMessage{Type: "message", Data: msg}); err != nil {
			log.Debug().Err(err).Str("user_id", user.ID).Msg("Dropped live message frame")
		}
	})
	cancel := h.hub.SubscribeMessages(user.ID, conversation.Deliver)
	defer conversation.Close()
	defer cancel()

	if err := conversation.Open(ctx); err != nil {
		// The feed stays usable with whatever it holds.
		log.Error().Err(err).Str("user_id", user.ID).Msg("Conversation history load failed")
	}
	h.sendFrame(conn, services.WSMessage{Type: "history", Data: conversation.Snapshot()})

	log.Info().Str("user_id", user.ID).Msg("WebSocket connection established")

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", user.ID).Msg("WebSocket error")
			}
			break
		}

		var frame clientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			h.sendFrame(conn, services.WSMessage{Type: "error", Message: "Invalid message format"})
			continue
		}

		if err := h.handleFrame(r, user.ID, counterpartID, frame); err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Str("type", frame.Type).Msg("Failed to handle frame")
			h.sendFrame(conn, services.WSMessage{Type: "error", Message: err.Error()})
		}
	}
}

// handleFrame processes one inbound client frame
func (h *WebSocketHandler) handleFrame(r *http.Request, userID, counterpartID string, frame clientFrame) error {
	switch frame.Type {
	case "send_message":
		receiverID := frame.ReceiverID
		if receiverID == "" {
			receiverID = counterpartID
		}
		_, err := h.messageService.Send(r.Context(), userID, receiverID, frame.Text, frame.ImageURL)
		return err
	default:
		return models.NewValidationError("unknown frame type " + frame.Type)
	}
}

// sendFrame writes one frame directly to the connection
func (h *WebSocketHandler) sendFrame(conn *websocket.Conn, msg services.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal frame")
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Debug().Err(err).Msg("Failed to write frame")
	}
}
