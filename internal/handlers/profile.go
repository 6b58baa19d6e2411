package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"

	"lensbook-backend/internal/middleware"
	"lensbook-backend/internal/models"
	"lensbook-backend/internal/services"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// ProfileHandler handles profile edit HTTP requests
type ProfileHandler struct {
	profileService *services.ProfileService
	storageService *services.StorageService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService, storageService *services.StorageService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		storageService: storageService,
	}
}

// UpdateProfileRequest is the request body for a basic profile edit
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// UpdatePushTokenRequest is the request body for registering a push token
type UpdatePushTokenRequest struct {
	PushToken *string `json:"push_token"`
}

// UpdateProfile handles PATCH /api/v1/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.profileService.UpdateProfile(ctx, userID, req.FullName, req.AvatarURL); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// UpdateModelDetails handles PATCH /api/v1/profile/model
func (h *ProfileHandler) UpdateModelDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req models.ModelDetailsUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.profileService.UpdateModelDetails(ctx, userID, &req); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update model details")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// UpdatePushToken handles PUT /api/v1/profile/push-token
func (h *ProfileHandler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UpdatePushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.profileService.UpdatePushToken(ctx, userID, req.PushToken); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update push token")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Upload handles POST /api/v1/uploads (multipart: file, folder)
func (h *ProfileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, "Invalid multipart body", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	folder := r.FormValue("folder")
	switch folder {
	case "avatars", "portfolio", "chat":
	default:
		respondError(w, "folder must be one of avatars, portfolio, chat", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	ext := path.Ext(header.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("%s/%s/%s%s", folder, userID, uuid.New().String(), ext)

	url, err := h.storageService.Upload(ctx, key, contentType, file)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("key", key).Msg("Failed to upload media")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().Str("user_id", userID).Str("key", key).Msg("Media uploaded")

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
