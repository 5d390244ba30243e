package services

import (
	"context"
	"fmt"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	"github.com/mentorlink/mentorlink-api/pkg/apperrors"
)

// ProfileService handles profile directory reads
type ProfileService struct {
	profileRepo repository.ProfileRepositoryInterface
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo repository.ProfileRepositoryInterface) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// GetProfile retrieves a single profile by ID
func (s *ProfileService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

// ListProfiles retrieves profiles matching the filter
func (s *ProfileService) ListProfiles(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error) {
	if filter.Role != "" && !filter.Role.IsValid() {
		return nil, apperrors.InvalidRoleError("role",
			fmt.Sprintf("unknown role %q", filter.Role))
	}

	return s.profileRepo.List(ctx, filter)
}
