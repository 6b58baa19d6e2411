package repository

import (
	"context"
	"errors"
	"fmt"

	"lensbook-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles database operations for profile rows
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create creates a new profile row
func (r *ProfileRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO profiles (id, email, full_name, avatar_url, role, account_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.FullName, user.AvatarURL,
		user.Role, user.AccountStatus, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by user ID. Absence is reported as nil, nil:
// the session manager treats a missing row as a valid state, not an error.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, full_name, avatar_url, role, account_status, push_token, created_at
		FROM profiles
		WHERE id = $1
	`
	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.FullName, &user.AvatarURL,
		&user.Role, &user.AccountStatus, &user.PushToken, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &user, nil
}

// UpdateBasic updates the mutable basic fields of a profile
func (r *ProfileRepository) UpdateBasic(ctx context.Context, userID string, fullName *string, avatarURL *string) error {
	query := `
		UPDATE profiles
		SET full_name = COALESCE($1, full_name),
		    avatar_url = COALESCE($2, avatar_url)
		WHERE id = $3
	`
	result, err := r.db.Exec(ctx, query, fullName, avatarURL, userID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %w", models.ErrNotFound)
	}
	return nil
}

// UpdatePushToken updates the push token for a profile
func (r *ProfileRepository) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	query := `UPDATE profiles SET push_token = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, pushToken, userID)
	if err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	return nil
}
