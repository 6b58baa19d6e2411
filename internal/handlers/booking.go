package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"lensbook-backend/internal/middleware"
	"lensbook-backend/internal/models"
	"lensbook-backend/internal/services"
	"lensbook-backend/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// BookingHandler handles booking HTTP requests
type BookingHandler struct {
	bookingService *services.BookingService
	profileService *services.ProfileService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService, profileService *services.ProfileService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		profileService: profileService,
	}
}

// CreateBookingRequest is the request body for creating a booking
type CreateBookingRequest struct {
	ModelID    string    `json:"model_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	TotalPrice float64   `json:"total_price"`
	Notes      *string   `json:"notes,omitempty"`
}

// UpdateBookingStatusRequest is the request body for a status change
type UpdateBookingStatusRequest struct {
	Status models.BookingStatus `json:"status"`
}

// CreateBooking handles POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	booking, err := h.bookingService.CreateBooking(
		ctx, userID, req.ModelID, req.StartTime, req.EndTime, req.TotalPrice, req.Notes,
	)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("model_id", req.ModelID).
			Msg("Failed to create booking")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("booking_id", booking.ID).
		Msg("Booking created")

	respondJSON(w, http.StatusOK, booking)
}

// GetMyBookings handles GET /api/v1/bookings
func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.GetSession(ctx)

	// The role column to query depends on who is asking
	user := session.ResolveUser(ctx, h.profileService, sess)

	bookings, err := h.bookingService.GetMyBookings(ctx, sess.UserID, user.Role)
	if err != nil {
		log.Error().Err(err).Str("user_id", sess.UserID).Msg("Failed to get bookings")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"total":    len(bookings),
	})
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/{booking_id}/status
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	bookingID := chi.URLParam(r, "booking_id")

	var req UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.bookingService.UpdateBookingStatus(ctx, bookingID, userID, req.Status); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("booking_id", bookingID).
			Msg("Failed to update booking status")
		respondError(w, err.Error(), statusFor(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}
