package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/innerchild2401/qr-menu-sub002/models"
	"github.com/innerchild2401/qr-menu-sub002/services"
	"github.com/innerchild2401/qr-menu-sub002/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// setupTestDB -> fresh SQLite in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Restaurant{},
		&models.User{},
		&models.Area{},
		&models.Table{},
		&models.Customer{},
		&models.Visit{},
		&models.MenuCategory{},
		&models.Menu{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.WhatsAppOrderToken{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newTestCache(db *gorm.DB) *services.RestaurantCache {
	return services.NewRestaurantCache(db, time.Minute)
}

func seedRestaurant(t *testing.T, db *gorm.DB, slug string) models.Restaurant {
	t.Helper()
	restaurant := models.Restaurant{Name: "Test " + slug, Slug: slug, Active: true}
	if err := db.Create(&restaurant).Error; err != nil {
		t.Fatalf("failed to seed restaurant: %v", err)
	}
	return restaurant
}

func seedTable(t *testing.T, db *gorm.DB, restaurantID uint, number, status string) models.Table {
	t.Helper()
	table := models.Table{
		RestaurantID: restaurantID,
		TableNumber:  number,
		Status:       status,
		SessionID:    uuid.NewString(),
	}
	if err := db.Create(&table).Error; err != nil {
		t.Fatalf("failed to seed table: %v", err)
	}
	return table
}

func seedMenu(t *testing.T, db *gorm.DB, restaurantID uint, name string, price float64) models.Menu {
	t.Helper()
	category := models.MenuCategory{RestaurantID: restaurantID, Name: "Category for " + name}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	menu := models.Menu{
		RestaurantID: restaurantID,
		CategoryID:   category.ID,
		Name:         name,
		Price:        price,
		Available:    true,
	}
	if err := db.Create(&menu).Error; err != nil {
		t.Fatalf("failed to seed menu: %v", err)
	}
	return menu
}

// staffContext injects the claims the auth middleware would set.
func staffContext(restaurantID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("role", role)
		c.Set("restaurant_id", restaurantID)
		c.Next()
	}
}

func performJSON(r *gin.Engine, method, target string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return response
}

func responseData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	response := decodeResponse(t, w)
	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %q", w.Body.String())
	}
	return data
}
