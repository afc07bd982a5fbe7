package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/innerchild2401/qr-menu-sub002/models"
)

func cacheTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Restaurant{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestCacheReadThrough(t *testing.T) {
	db := cacheTestDB(t)
	restaurant := models.Restaurant{Name: "Warung Cache", Slug: "warung-cache", Active: true}
	assert.NoError(t, db.Create(&restaurant).Error)

	cache := NewRestaurantCache(db, time.Minute)

	got, err := cache.Get(restaurant.ID)
	assert.NoError(t, err)
	assert.Equal(t, "warung-cache", got.Slug)

	// A direct database write is not visible while the entry is fresh.
	assert.NoError(t, db.Model(&restaurant).Update("name", "Renamed").Error)

	got, err = cache.Get(restaurant.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Warung Cache", got.Name)
}

func TestCacheInvalidate(t *testing.T) {
	db := cacheTestDB(t)
	restaurant := models.Restaurant{Name: "Warung Stale", Slug: "warung-stale", Active: true}
	assert.NoError(t, db.Create(&restaurant).Error)

	cache := NewRestaurantCache(db, time.Minute)
	_, err := cache.Get(restaurant.ID)
	assert.NoError(t, err)

	assert.NoError(t, db.Model(&restaurant).Update("name", "Renamed").Error)
	cache.Invalidate(restaurant.ID)

	got, err := cache.Get(restaurant.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
}

func TestCacheTTLExpiry(t *testing.T) {
	db := cacheTestDB(t)
	restaurant := models.Restaurant{Name: "Warung TTL", Slug: "warung-ttl", Active: true}
	assert.NoError(t, db.Create(&restaurant).Error)

	cache := NewRestaurantCache(db, 10*time.Millisecond)
	_, err := cache.Get(restaurant.ID)
	assert.NoError(t, err)

	assert.NoError(t, db.Model(&restaurant).Update("name", "Renamed").Error)

	time.Sleep(20 * time.Millisecond)

	got, err := cache.Get(restaurant.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name, "an expired entry reads through")
}

func TestCacheMiss(t *testing.T) {
	db := cacheTestDB(t)
	cache := NewRestaurantCache(db, time.Minute)

	_, err := cache.Get(404)
	assert.Error(t, err)
}
