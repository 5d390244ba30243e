package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// ProfileDataSource defines the interface for profile data fetching
type ProfileDataSource interface {
	GetAllProfiles(ctx context.Context) ([]*models.Profile, error)
}

const (
	profileKeyPrefix = "profile:id:"
	allProfilesKey   = "profile:all"
	cacheCheckPeriod = 10 * time.Second
	maxRetries       = 3
	initialRetryWait = 2 * time.Second
)

// ProfileCache holds a periodically refreshed snapshot of the profile
// directory. The matchmaking engine ranks against this snapshot, so a single
// query sees one consistent view of the directory.
type ProfileCache struct {
	cache       *gocache.Cache
	dataSource  ProfileDataSource
	mu          sync.RWMutex
	refreshing  bool
	ready       bool
	ttl         time.Duration
	lastRefresh time.Time
}

// NewProfileCache creates a new profile cache
func NewProfileCache(dataSource ProfileDataSource, ttlSeconds int) *ProfileCache {
	ttl := time.Duration(ttlSeconds) * time.Second

	return &ProfileCache{
		cache:      gocache.New(gocache.NoExpiration, cacheCheckPeriod),
		dataSource: dataSource,
		ttl:        ttl,
	}
}

// Initialize performs initial cache population (synchronous, blocks until ready).
// Should be called during application startup before accepting requests.
func (pc *ProfileCache) Initialize() error {
	logger.Info("Initializing profile cache...")
	startTime := time.Now()

	if err := pc.refreshWithRetry(); err != nil {
		logger.Error("Failed to initialize profile cache", zap.Error(err))
		return err
	}

	pc.mu.Lock()
	pc.ready = true
	pc.lastRefresh = time.Now()
	pc.mu.Unlock()

	logger.Info("Profile cache initialized successfully",
		zap.Duration("duration", time.Since(startTime)))

	go pc.schedulePeriodicRefresh()

	return nil
}

// IsReady returns true if the cache has been successfully initialized
func (pc *ProfileCache) IsReady() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.ready
}

// GetByID retrieves a single profile by ID without blocking
func (pc *ProfileCache) GetByID(id string) (*models.Profile, bool) {
	if !pc.IsReady() {
		return nil, false
	}

	data, found := pc.cache.Get(profileKeyPrefix + id)
	if !found {
		metrics.CacheMisses.WithLabelValues("profile_by_id").Inc()
		return nil, false
	}

	profile, ok := data.(*models.Profile)
	if !ok {
		logger.Error("Invalid cache data type", zap.String("id", id))
		pc.cache.Delete(profileKeyPrefix + id)
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("profile_by_id").Inc()
	return profile, true
}

// GetAll returns the cached directory snapshot. The second return value is
// false when the snapshot is missing or expired; callers then fall back to
// the data source.
func (pc *ProfileCache) GetAll() ([]*models.Profile, bool) {
	if !pc.IsReady() {
		return nil, false
	}

	idsData, found := pc.cache.Get(allProfilesKey)
	if !found {
		metrics.CacheMisses.WithLabelValues("profile_all").Inc()
		logger.Warn("Profile snapshot not in cache (expired)")
		return nil, false
	}

	ids, ok := idsData.([]string)
	if !ok {
		logger.Error("Invalid cache data type for profile snapshot")
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("profile_all").Inc()

	profiles := make([]*models.Profile, 0, len(ids))
	for _, id := range ids {
		profile, ok := pc.GetByID(id)
		if !ok {
			// Skip missing profiles rather than failing
			logger.Debug("Profile missing from cache", zap.String("id", id))
			continue
		}
		profiles = append(profiles, profile)
	}

	return profiles, true
}

// ForceRefresh triggers a background refresh and returns immediately
func (pc *ProfileCache) ForceRefresh() {
	go func() {
		if err := pc.refreshInBackground(); err != nil {
			logger.Error("Background refresh failed", zap.Error(err))
		}
	}()
}

// schedulePeriodicRefresh runs background refresh at TTL intervals
func (pc *ProfileCache) schedulePeriodicRefresh() {
	ticker := time.NewTicker(pc.ttl)
	defer ticker.Stop()

	for range ticker.C {
		if err := pc.refreshInBackground(); err != nil {
			logger.Error("Scheduled cache refresh failed", zap.Error(err))
			// Keep the scheduler running; next tick retries
		}
	}
}

// refreshInBackground performs non-blocking background refresh
func (pc *ProfileCache) refreshInBackground() error {
	pc.mu.Lock()
	if pc.refreshing {
		pc.mu.Unlock()
		logger.Debug("Refresh already in progress, skipping")
		return nil
	}
	pc.refreshing = true
	pc.mu.Unlock()

	defer func() {
		pc.mu.Lock()
		pc.refreshing = false
		pc.mu.Unlock()
	}()

	startTime := time.Now()

	profiles, err := pc.dataSource.GetAllProfiles(context.Background())
	if err != nil {
		logger.Error("Failed to fetch profiles in background refresh", zap.Error(err))
		return err
	}

	pc.populateCache(profiles)

	pc.mu.Lock()
	pc.lastRefresh = time.Now()
	pc.mu.Unlock()

	logger.Info("Profile cache refresh completed",
		zap.Int("count", len(profiles)),
		zap.Duration("duration", time.Since(startTime)))

	return nil
}

// refreshWithRetry performs a refresh with exponential backoff retry logic
func (pc *ProfileCache) refreshWithRetry() error {
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			//nolint:gosec // G115: attempt bounded by maxRetries (3), max shift is 2, no overflow possible
			waitTime := initialRetryWait * time.Duration(1<<uint(attempt-1))
			logger.Info("Retrying cache refresh",
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", maxRetries),
				zap.Duration("wait_time", waitTime))
			time.Sleep(waitTime)
		}

		profiles, fetchErr := pc.dataSource.GetAllProfiles(context.Background())
		if fetchErr != nil {
			err = fetchErr
			logger.Error("Cache refresh attempt failed",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}

		pc.populateCache(profiles)
		return nil
	}

	return fmt.Errorf("failed to refresh cache after %d attempts: %w", maxRetries, err)
}

// populateCache stores all profiles in cache with individual keys
func (pc *ProfileCache) populateCache(profiles []*models.Profile) {
	ids := make([]string, 0, len(profiles))

	for _, profile := range profiles {
		// Individual entries never expire; expiration is controlled at the
		// snapshot level.
		pc.cache.Set(profileKeyPrefix+profile.ID, profile, gocache.NoExpiration)
		ids = append(ids, profile.ID)
	}

	pc.cache.Set(allProfilesKey, ids, pc.ttl)

	metrics.CacheSize.WithLabelValues("profiles").Set(float64(len(profiles)))

	logger.Info("Profile cache populated", zap.Int("count", len(profiles)))
}

// Clear clears the entire cache
func (pc *ProfileCache) Clear() {
	pc.cache.Flush()
	logger.Info("Profile cache cleared")
}
