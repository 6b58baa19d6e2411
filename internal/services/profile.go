package services

import (
	"context"
	"strings"

	"lensbook-backend/internal/models"
	"lensbook-backend/internal/repository"
)

// ProfileService handles profile reads and edits. It is the concrete
// profile store behind session.Manager.
type ProfileService struct {
	profileRepo *repository.ProfileRepository
	modelRepo   *repository.ModelRepository
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo *repository.ProfileRepository, modelRepo *repository.ModelRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		modelRepo:   modelRepo,
	}
}

// GetProfile retrieves a profile row, (nil, nil) when absent
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.profileRepo.GetByID(ctx, userID)
}

// InsertProfile creates a profile row
func (s *ProfileService) InsertProfile(ctx context.Context, user *models.User) error {
	return s.profileRepo.Create(ctx, user)
}

// UpdateProfile updates the basic profile fields; nil fields stay untouched
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, fullName, avatarURL *string) error {
	if fullName != nil && strings.TrimSpace(*fullName) == "" {
		return models.NewValidationError("full_name cannot be empty")
	}
	return s.profileRepo.UpdateBasic(ctx, userID, fullName, avatarURL)
}

// UpdateModelDetails updates the model detail fields of the user's own row
func (s *ProfileService) UpdateModelDetails(ctx context.Context, userID string, details *models.ModelDetailsUpdate) error {
	if details.HourlyRate != nil && *details.HourlyRate < 0 {
		return models.NewValidationError("hourly_rate cannot be negative")
	}
	return s.modelRepo.UpdateDetails(ctx, userID, details)
}

// UpdatePushToken registers or clears the APNs token for a user
func (s *ProfileService) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	return s.profileRepo.UpdatePushToken(ctx, userID, pushToken)
}
