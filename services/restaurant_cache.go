package services

import (
	"sync"
	"time"

	"github.com/innerchild2401/qr-menu-sub002/models"
	"gorm.io/gorm"
)

// RestaurantCache memoizes restaurant lookups with a bounded TTL. Entries are
// invalidated explicitly when a restaurant is updated, so a stale read window
// never exceeds the TTL even if an invalidation is missed.
type RestaurantCache struct {
	DB  *gorm.DB
	TTL time.Duration

	mu      sync.RWMutex
	entries map[uint]cacheEntry
}

type cacheEntry struct {
	restaurant models.Restaurant
	expiresAt  time.Time
}

func NewRestaurantCache(db *gorm.DB, ttl time.Duration) *RestaurantCache {
	return &RestaurantCache{
		DB:      db,
		TTL:     ttl,
		entries: make(map[uint]cacheEntry),
	}
}

// Get returns the restaurant for id, reading through to the database on a miss
// or expired entry.
func (rc *RestaurantCache) Get(id uint) (models.Restaurant, error) {
	rc.mu.RLock()
	entry, ok := rc.entries[id]
	rc.mu.RUnlock()

	if ok && time.Now().Before(entry.expiresAt) {
		return entry.restaurant, nil
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, id).Error; err != nil {
		return models.Restaurant{}, err
	}

	rc.mu.Lock()
	rc.entries[id] = cacheEntry{restaurant: restaurant, expiresAt: time.Now().Add(rc.TTL)}
	rc.mu.Unlock()

	return restaurant, nil
}

// Invalidate drops the cached entry for id. Called whenever the restaurant
// record is mutated.
func (rc *RestaurantCache) Invalidate(id uint) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	delete(rc.entries, id)
}
