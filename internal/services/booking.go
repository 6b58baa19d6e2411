package services

import (
	"context"
	"fmt"
	"time"

	"lensbook-backend/internal/models"
	"lensbook-backend/internal/repository"

	"github.com/google/uuid"
)

// BookingService handles booking business logic
type BookingService struct {
	bookingRepo *repository.BookingRepository
	modelRepo   *repository.ModelRepository
}

// NewBookingService creates a new booking service
func NewBookingService(bookingRepo *repository.BookingRepository, modelRepo *repository.ModelRepository) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		modelRepo:   modelRepo,
	}
}

// CreateBooking creates a pending booking between a photographer and a model
func (s *BookingService) CreateBooking(
	ctx context.Context,
	photographerID, modelID string,
	startTime, endTime time.Time,
	totalPrice float64,
	notes *string,
) (*models.Booking, error) {
	if modelID == "" {
		return nil, models.NewValidationError("model_id is required")
	}
	if !endTime.After(startTime) {
		return nil, models.NewValidationError("end_time must be after start_time")
	}
	if totalPrice < 0 {
		return nil, models.NewValidationError("total_price cannot be negative")
	}

	// The model must exist and be bookable
	if _, err := s.modelRepo.GetByID(ctx, modelID); err != nil {
		return nil, fmt.Errorf("model lookup failed: %w", err)
	}

	booking := &models.Booking{
		ID:             uuid.New().String(),
		PhotographerID: photographerID,
		ModelID:        modelID,
		StartTime:      startTime,
		EndTime:        endTime,
		Status:         models.BookingPending,
		TotalPrice:     totalPrice,
		Notes:          notes,
		CreatedAt:      time.Now(),
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetMyBookings lists bookings where the user fills the given role
func (s *BookingService) GetMyBookings(ctx context.Context, userID string, role models.UserRole) ([]*models.Booking, error) {
	return s.bookingRepo.GetByParticipant(ctx, userID, role)
}

// UpdateBookingStatus moves a booking to a new status; only participants may
// do so.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingID, userID string, status models.BookingStatus) error {
	if !models.ValidBookingStatus(status) {
		return models.NewValidationError(fmt.Sprintf("unknown booking status %q", status))
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.PhotographerID != userID && booking.ModelID != userID {
		return models.NewValidationError("user is not a participant of this booking")
	}

	return s.bookingRepo.UpdateStatus(ctx, bookingID, status)
}
