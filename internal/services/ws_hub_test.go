package services

import (
	"testing"
	"time"

	"lensbook-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func chat(id, sender, receiver string) *models.ChatMessage {
	return &models.ChatMessage{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Text:       "hi",
		CreatedAt:  time.Now(),
	}
}

func TestBroadcastRoutesToParticipantsOnly(t *testing.T) {
	hub := NewWSHub()

	var toA, toB, toC []string
	hub.SubscribeMessages("a", func(m *models.ChatMessage) { toA = append(toA, m.ID) })
	hub.SubscribeMessages("b", func(m *models.ChatMessage) { toB = append(toB, m.ID) })
	hub.SubscribeMessages("c", func(m *models.ChatMessage) { toC = append(toC, m.ID) })

	hub.Broadcast(chat("1", "a", "b"))

	assert.Equal(t, []string{"1"}, toA)
	assert.Equal(t, []string{"1"}, toB)
	assert.Empty(t, toC)
}

func TestBroadcastAfterCancelIsDropped(t *testing.T) {
	hub := NewWSHub()

	var got []string
	cancel := hub.SubscribeMessages("a", func(m *models.ChatMessage) { got = append(got, m.ID) })

	hub.Broadcast(chat("1", "a", "b"))
	cancel()
	hub.Broadcast(chat("2", "b", "a"))

	assert.Equal(t, []string{"1"}, got)
}

func TestBroadcastWithNoSubscribers(t *testing.T) {
	hub := NewWSHub()
	// Must not panic with nobody listening.
	hub.Broadcast(chat("1", "a", "b"))
}

func TestIsOnlineDefaultsFalse(t *testing.T) {
	hub := NewWSHub()
	assert.False(t, hub.IsOnline("a"))
}
