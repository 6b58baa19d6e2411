package services

import (
	"context"
	"testing"
	"time"

	"lensbook-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	s := NewAuthService(nil, nil, "test-secret")

	session := &models.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	token, err := s.signJWT(session)
	require.NoError(t, err)

	sessionID, userID, err := s.parseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sessionID)
	assert.Equal(t, "user-1", userID)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	signer := NewAuthService(nil, nil, "secret-a")
	verifier := NewAuthService(nil, nil, "secret-b")

	token, err := signer.signJWT(&models.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	_, _, err = verifier.parseJWT(token)
	assert.Error(t, err)
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	s := NewAuthService(nil, nil, "test-secret")

	_, _, err := s.parseJWT("not-a-token")
	assert.Error(t, err)
}

func TestSignUpValidation(t *testing.T) {
	s := NewAuthService(nil, nil, "test-secret")
	ctx := context.Background()

	// Each of these fails before any repository access.
	_, err := s.SignUp(ctx, "", "longenoughpassword")
	assert.True(t, models.IsValidation(err))

	_, err = s.SignUp(ctx, "a@example.com", "short")
	assert.True(t, models.IsValidation(err))

	_, err = s.Register(ctx, "a@example.com", "longenoughpassword", "  ")
	assert.True(t, models.IsValidation(err))
}
