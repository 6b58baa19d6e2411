package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatMessageInvolves(t *testing.T) {
	msg := &ChatMessage{SenderID: "a", ReceiverID: "b"}

	assert.True(t, msg.Involves("a"))
	assert.True(t, msg.Involves("b"))
	assert.False(t, msg.Involves("c"))
}

func TestValidBookingStatus(t *testing.T) {
	for _, status := range []BookingStatus{BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled} {
		assert.True(t, ValidBookingStatus(status), string(status))
	}
	assert.False(t, ValidBookingStatus("archived"))
	assert.False(t, ValidBookingStatus(""))
}

func TestValidationErrorSupportsErrorsAs(t *testing.T) {
	err := fmt.Errorf("send failed: %w", NewValidationError("message text is required"))

	assert.True(t, IsValidation(err))

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "message text is required", ve.Error())
}

func TestSentinelWrapping(t *testing.T) {
	err := fmt.Errorf("sign out failed: %w", ErrBackendUnavailable)
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
}
