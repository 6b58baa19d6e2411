package services

import (
	"context"
	"testing"

	"lensbook-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Send rejects bad input before touching any collaborator, so the service
// can be constructed empty here.
func TestSendRejectsEmptyText(t *testing.T) {
	s := NewMessageService(nil, nil, nil, nil, nil)

	_, err := s.Send(context.Background(), "a", "b", "   \n\t ", nil)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestSendRejectsMissingReceiver(t *testing.T) {
	s := NewMessageService(nil, nil, nil, nil, nil)

	_, err := s.Send(context.Background(), "a", "", "hello", nil)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestSendRejectsSelfMessage(t *testing.T) {
	s := NewMessageService(nil, nil, nil, nil, nil)

	_, err := s.Send(context.Background(), "a", "a", "hello", nil)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}
