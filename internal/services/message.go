package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lensbook-backend/internal/models"
	"lensbook-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// insertPublisher is the slice of the broker the message service needs
type insertPublisher interface {
	PublishInsert(ctx context.Context, msg *models.ChatMessage) error
}

// presence is the slice of the hub the message service needs
type presence interface {
	IsOnline(userID string) bool
}

// MessageService handles chat message reads and writes
type MessageService struct {
	messageRepo *repository.MessageRepository
	profileRepo *repository.ProfileRepository
	publisher   insertPublisher
	presence    presence
	push        *PushService
}

// NewMessageService creates a new message service. push may be nil when
// notifications are disabled.
func NewMessageService(
	messageRepo *repository.MessageRepository,
	profileRepo *repository.ProfileRepository,
	publisher insertPublisher,
	presence presence,
	push *PushService,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		profileRepo: profileRepo,
		publisher:   publisher,
		presence:    presence,
		push:        push,
	}
}

// History performs the one-shot bulk read behind a conversation feed. An
// empty counterpartID returns everything the viewer sent or received. The
// result is newest first; no matching rows is an empty slice, not an error.
func (s *MessageService) History(ctx context.Context, viewerID, counterpartID string) ([]*models.ChatMessage, error) {
	if counterpartID == "" {
		return s.messageRepo.GetForUser(ctx, viewerID)
	}
	return s.messageRepo.GetConversation(ctx, viewerID, counterpartID)
}

// Send validates and inserts one message, publishes the row to the realtime
// broker and pushes a notification to an offline receiver.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID, text string, imageURL *string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("message text is required")
	}
	if receiverID == "" {
		return nil, models.NewValidationError("receiver_id is required")
	}
	if receiverID == senderID {
		return nil, models.NewValidationError("cannot message yourself")
	}

	msg := &models.ChatMessage{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		ImageURL:   imageURL,
		CreatedAt:  time.Now(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishInsert(ctx, msg); err != nil {
		// The row is durable; subscribers just miss the live delivery and
		// pick it up on their next history load.
		log.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to publish message insert")
	}

	s.notifyReceiver(ctx, msg)

	return msg, nil
}

// notifyReceiver sends an APNs alert when the receiver has no live socket
func (s *MessageService) notifyReceiver(ctx context.Context, msg *models.ChatMessage) {
	if s.push == nil || s.presence.IsOnline(msg.ReceiverID) {
		return
	}

	receiver, err := s.profileRepo.GetByID(ctx, msg.ReceiverID)
	if err != nil || receiver == nil || receiver.PushToken == nil {
		return
	}

	sender, err := s.profileRepo.GetByID(ctx, msg.SenderID)
	title := "New message"
	if err == nil && sender != nil {
		title = fmt.Sprintf("Message from %s", sender.FullName)
	}

	if err := s.push.Notify(*receiver.PushToken, title, msg.Text); err != nil {
		log.Error().Err(err).Str("user_id", msg.ReceiverID).Msg("Failed to push notification")
	}
}
