package repository

import (
	"context"

	"github.com/mentorlink/mentorlink-api/internal/cache"
	"github.com/mentorlink/mentorlink-api/internal/models"
)

// ProfileRepositoryInterface defines the interface for profile data access
type ProfileRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetAll(ctx context.Context) ([]*models.Profile, error)
	List(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error)
	InvalidateCache()
}

// ProfileRepository serves profiles from the directory snapshot cache,
// falling through to the database when the cache is disabled or cold.
type ProfileRepository struct {
	dataSource   ProfileDataSource
	profileCache *cache.ProfileCache
	cacheEnabled bool
}

// NewProfileRepository creates a new profile repository. Pass a nil cache or
// cacheEnabled=false to read straight through to the data source.
func NewProfileRepository(dataSource ProfileDataSource, profileCache *cache.ProfileCache, cacheEnabled bool) ProfileRepositoryInterface {
	return &ProfileRepository{
		dataSource:   dataSource,
		profileCache: profileCache,
		cacheEnabled: cacheEnabled && profileCache != nil,
	}
}

// GetByID retrieves a single profile, preferring the cache
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if r.cacheEnabled {
		if profile, ok := r.profileCache.GetByID(id); ok {
			return profile, nil
		}
	}

	return r.dataSource.GetProfileByID(ctx, id)
}

// GetAll retrieves the full directory, preferring the cached snapshot
func (r *ProfileRepository) GetAll(ctx context.Context) ([]*models.Profile, error) {
	if r.cacheEnabled {
		if profiles, ok := r.profileCache.GetAll(); ok {
			return profiles, nil
		}
		// Snapshot expired or cold; serve from the database and let the
		// background refresh repopulate.
		r.profileCache.ForceRefresh()
	}

	return r.dataSource.GetAllProfiles(ctx)
}

// List retrieves profiles matching the filter. Filtered listings always hit
// the database; the cache only holds the unfiltered snapshot.
func (r *ProfileRepository) List(ctx context.Context, filter models.ProfileFilter) ([]*models.Profile, error) {
	return r.dataSource.ListProfiles(ctx, filter)
}

// InvalidateCache forces cache invalidation
func (r *ProfileRepository) InvalidateCache() {
	if r.profileCache != nil {
		r.profileCache.Clear()
	}
}
