package handlers

import (
	"net/http"

	"lensbook-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ModelHandler handles model discovery HTTP requests
type ModelHandler struct {
	modelService *services.ModelService
}

// NewModelHandler creates a new model handler
func NewModelHandler(modelService *services.ModelService) *ModelHandler {
	return &ModelHandler{modelService: modelService}
}

// GetModels handles GET /api/v1/models
func (h *ModelHandler) GetModels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profiles, err := h.modelService.GetModels(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list models")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"models": profiles,
		"total":  len(profiles),
	})
}

// GetModel handles GET /api/v1/models/{model_id}
func (h *ModelHandler) GetModel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	modelID := chi.URLParam(r, "model_id")

	profile, err := h.modelService.GetModelByID(ctx, modelID)
	if err != nil {
		log.Error().Err(err).Str("model_id", modelID).Msg("Failed to get model")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// GetLocations handles GET /api/v1/locations
func (h *ModelHandler) GetLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	locations, err := h.modelService.GetRecommendedLocations(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list locations")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"locations": locations,
		"total":     len(locations),
	})
}
