package handlers

import (
	"encoding/json"
	"net/http"

	"lensbook-backend/internal/middleware"
	"lensbook-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// MessageHandler handles chat message HTTP requests
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessageRequest is the request body for sending a message
type SendMessageRequest struct {
	ReceiverID string  `json:"receiver_id"`
	Text       string  `json:"text"`
	ImageURL   *string `json:"image_url,omitempty"`
}

// GetMessages handles GET /api/v1/messages?counterpart_id=
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	counterpartID := r.URL.Query().Get("counterpart_id")

	messages, err := h.messageService.History(ctx, userID, counterpartID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get messages")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"total":    len(messages),
	})
}

// SendMessage handles POST /api/v1/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.messageService.Send(ctx, userID, req.ReceiverID, req.Text, req.ImageURL)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("receiver_id", req.ReceiverID).
			Msg("Failed to send message")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, msg)
}
