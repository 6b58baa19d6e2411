package repository

import (
	"context"
	"errors"
	"fmt"

	"lensbook-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ModelRepository handles database operations for model profiles and locations
type ModelRepository struct {
	db *pgxpool.Pool
}

// NewModelRepository creates a new model repository
func NewModelRepository(db *pgxpool.Pool) *ModelRepository {
	return &ModelRepository{db: db}
}

const modelColumns = `
	m.id, p.full_name, p.avatar_url, m.bio, m.hourly_rate,
	m.portfolio_images, m.categories, m.rating, m.review_count,
	m.latitude, m.longitude, m.location_address, m.created_at
`

// ListApproved retrieves all model profiles whose account is approved
func (r *ModelRepository) ListApproved(ctx context.Context) ([]*models.ModelProfile, error) {
	query := `
		SELECT ` + modelColumns + `
		FROM model_details m
		JOIN profiles p ON p.id = m.id
		WHERE p.account_status = $1
		ORDER BY m.rating DESC
	`
	rows, err := r.db.Query(ctx, query, models.AccountApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer rows.Close()

	profiles := []*models.ModelProfile{}
	for rows.Next() {
		profile, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating models: %w", err)
	}

	return profiles, nil
}

// GetByID retrieves one model profile by ID
func (r *ModelRepository) GetByID(ctx context.Context, id string) (*models.ModelProfile, error) {
	query := `
		SELECT ` + modelColumns + `
		FROM model_details m
		JOIN profiles p ON p.id = m.id
		WHERE m.id = $1
	`
	row := r.db.QueryRow(ctx, query, id)
	profile, err := scanModel(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("model not found: %w", models.ErrNotFound)
		}
		return nil, err
	}
	return profile, nil
}

func scanModel(row pgx.Row) (*models.ModelProfile, error) {
	var profile models.ModelProfile
	err := row.Scan(
		&profile.ID, &profile.FullName, &profile.AvatarURL, &profile.Bio,
		&profile.HourlyRate, &profile.PortfolioImages, &profile.Categories,
		&profile.Rating, &profile.ReviewCount, &profile.Latitude,
		&profile.Longitude, &profile.LocationAddress, &profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan model: %w", err)
	}
	return &profile, nil
}

// UpdateDetails updates the mutable model detail fields
func (r *ModelRepository) UpdateDetails(ctx context.Context, id string, details *models.ModelDetailsUpdate) error {
	query := `
		UPDATE model_details
		SET bio = COALESCE($1, bio),
		    hourly_rate = COALESCE($2, hourly_rate),
		    location_address = COALESCE($3, location_address),
		    portfolio_images = COALESCE($4, portfolio_images),
		    latitude = COALESCE($5, latitude),
		    longitude = COALESCE($6, longitude)
		WHERE id = $7
	`
	result, err := r.db.Exec(ctx, query,
		details.Bio, details.HourlyRate, details.LocationAddress,
		details.PortfolioImages, details.Latitude, details.Longitude, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update model details: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("model not found: %w", models.ErrNotFound)
	}
	return nil
}

// ListLocations retrieves recommended locations, newest first
func (r *ModelRepository) ListLocations(ctx context.Context) ([]*models.RecommendedLocation, error) {
	query := `
		SELECT id, name, description, image_url, address, latitude, longitude, category, rating, created_at
		FROM recommended_locations
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	locations := []*models.RecommendedLocation{}
	for rows.Next() {
		var loc models.RecommendedLocation
		err := rows.Scan(
			&loc.ID, &loc.Name, &loc.Description, &loc.ImageURL,
			&loc.Address, &loc.Latitude, &loc.Longitude,
			&loc.Category, &loc.Rating, &loc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, &loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}

	return locations, nil
}
