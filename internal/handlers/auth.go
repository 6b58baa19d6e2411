package handlers

import (
	"encoding/json"
	"net/http"

	"lensbook-backend/internal/middleware"
	"lensbook-backend/internal/services"
	"lensbook-backend/internal/session"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService    *services.AuthService
	profileService *services.ProfileService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, profileService *services.ProfileService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
	}
}

// RegisterRequest is the request body for registration
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sess, err := h.authService.Register(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to register user")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	user := session.ResolveUser(ctx, h.profileService, sess)

	log.Info().Str("user_id", sess.UserID).Msg("User registered")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session": sess,
		"user":    user,
	})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sess, err := h.authService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Login rejected")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	user := session.ResolveUser(ctx, h.profileService, sess)

	log.Info().Str("user_id", sess.UserID).Msg("User logged in")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session": sess,
		"user":    user,
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.GetSession(ctx)

	if err := h.authService.SignOut(ctx, sess.ID); err != nil {
		log.Error().Err(err).Str("user_id", sess.UserID).Msg("Failed to sign out")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().Str("user_id", sess.UserID).Msg("User logged out")

	respondJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// CurrentSession handles GET /api/v1/auth/session
func (h *AuthHandler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.GetSession(ctx)

	user := session.ResolveUser(ctx, h.profileService, sess)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session": sess,
		"user":    user,
	})
}
