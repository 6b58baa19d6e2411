package services

import (
	"context"

	"lensbook-backend/internal/models"
	"lensbook-backend/internal/repository"
)

// ModelService handles model discovery reads
type ModelService struct {
	modelRepo *repository.ModelRepository
}

// NewModelService creates a new model service
func NewModelService(modelRepo *repository.ModelRepository) *ModelService {
	return &ModelService{modelRepo: modelRepo}
}

// GetModels lists every approved model profile
func (s *ModelService) GetModels(ctx context.Context) ([]*models.ModelProfile, error) {
	return s.modelRepo.ListApproved(ctx)
}

// GetModelByID retrieves one model profile
func (s *ModelService) GetModelByID(ctx context.Context, id string) (*models.ModelProfile, error) {
	return s.modelRepo.GetByID(ctx, id)
}

// GetRecommendedLocations lists curated locations, newest first
func (s *ModelService) GetRecommendedLocations(ctx context.Context) ([]*models.RecommendedLocation, error) {
	return s.modelRepo.ListLocations(ctx)
}
