package store

import (
	"time"

	"github.com/habitloop/habitloop/internal/profile"
	"github.com/habitloop/habitloop/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Caches for hot single-row lookups. Both are invalidated on write so
	// they never become the source of truth.
	userCache    *cache.Cache
	profileCache *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
	}

	return &Store{
		driver:       driver,
		profile:      profile,
		userCache:    cache.New(cacheConfig),
		profileCache: cache.New(cacheConfig),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.userCache.Close()
	s.profileCache.Close()

	return s.driver.Close()
}
