package repository

import (
	"context"
	"errors"
	"fmt"

	"lensbook-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository handles database operations for bookings
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create creates a new booking
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (id, photographer_id, model_id, start_time, end_time, status, total_price, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		booking.ID, booking.PhotographerID, booking.ModelID,
		booking.StartTime, booking.EndTime, booking.Status,
		booking.TotalPrice, booking.Notes, booking.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `
		SELECT id, photographer_id, model_id, start_time, end_time, status, total_price, notes, created_at
		FROM bookings
		WHERE id = $1
	`
	var booking models.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID, &booking.PhotographerID, &booking.ModelID,
		&booking.StartTime, &booking.EndTime, &booking.Status,
		&booking.TotalPrice, &booking.Notes, &booking.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("booking not found: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// GetByParticipant retrieves bookings where the user fills the given role column
func (r *BookingRepository) GetByParticipant(ctx context.Context, userID string, role models.UserRole) ([]*models.Booking, error) {
	column := "photographer_id"
	if role == models.RoleModel {
		column = "model_id"
	}
	query := fmt.Sprintf(`
		SELECT id, photographer_id, model_id, start_time, end_time, status, total_price, notes, created_at
		FROM bookings
		WHERE %s = $1
		ORDER BY start_time DESC
	`, column)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()

	bookings := []*models.Booking{}
	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.ID, &booking.PhotographerID, &booking.ModelID,
			&booking.StartTime, &booking.EndTime, &booking.Status,
			&booking.TotalPrice, &booking.Notes, &booking.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}

// UpdateStatus updates the status of a booking
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = $1 WHERE id = $2`
	result, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking not found: %w", models.ErrNotFound)
	}
	return nil
}
