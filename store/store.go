package store

import (
	"time"

	"github.com/studysense/studysense/internal/profile"
	"github.com/studysense/studysense/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache for dismissed-key lookups; dropped on dismissal.
	dismissedKeyCache *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
		dismissedKeyCache: cache.New(cache.Config{
			DefaultTTL:      5 * time.Minute,
			CleanupInterval: time.Minute,
			MaxItems:        1000,
		}),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.dismissedKeyCache.Close()
	return s.driver.Close()
}
