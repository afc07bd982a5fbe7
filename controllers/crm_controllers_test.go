package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/innerchild2401/qr-menu-sub002/controllers"
	"github.com/innerchild2401/qr-menu-sub002/models"
)

func setupCRMRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	crmCtrl := controllers.NewCRMController(db, newTestCache(db))
	r.POST("/crm/track-visit", crmCtrl.TrackVisit)
	return r
}

func TestTrackVisitCreatesCustomer(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db, "warung-satu")
	r := setupCRMRouter(db)

	w := performJSON(r, "POST", "/crm/track-visit", gin.H{
		"restaurant_id": restaurant.ID,
		"client_token":  "tok-fresh-device",
		"device_info":   "Mozilla/5.0",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	data := responseData(t, w)
	assert.NotZero(t, data["visit_id"])
	assert.NotZero(t, data["customer_id"])

	var customers []models.Customer
	db.Where("restaurant_id = ?", restaurant.ID).Find(&customers)
	assert.Len(t, customers, 1)
	assert.Equal(t, "tok-fresh-device", customers[0].ClientToken)
	assert.Equal(t, 1, customers[0].VisitCount)
	assert.Equal(t, models.LoyaltyBronze, customers[0].LoyaltyTier)
}

func TestTrackVisitReusesExistingCustomer(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db, "warung-dua")
	r := setupCRMRouter(db)

	for i := 0; i < 3; i++ {
		w := performJSON(r, "POST", "/crm/track-visit", gin.H{
			"restaurant_id": restaurant.ID,
			"client_token":  "tok-repeat",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	var customers []models.Customer
	db.Where("restaurant_id = ?", restaurant.ID).Find(&customers)
	assert.Len(t, customers, 1)
	assert.Equal(t, 3, customers[0].VisitCount)

	var visitCount int64
	db.Model(&models.Visit{}).Where("customer_id = ?", customers[0].ID).Count(&visitCount)
	assert.EqualValues(t, 3, visitCount)
}

func TestTrackVisitFingerprintRotatesToken(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db, "warung-tiga")
	r := setupCRMRouter(db)

	existing := models.Customer{
		RestaurantID: restaurant.ID,
		ClientToken:  "tok-old",
		Fingerprint:  "fp-device-9",
		FirstSeenAt:  time.Now().Add(-48 * time.Hour),
		LastSeenAt:   time.Now().Add(-24 * time.Hour),
		VisitCount:   5,
		LoyaltyTier:  models.LoyaltyBronze,
		Status:       "active",
	}
	assert.NoError(t, db.Create(&existing).Error)

	// Same device presents a new token (e.g. cleared local storage).
	w := performJSON(r, "POST", "/crm/track-visit", gin.H{
		"restaurant_id":      restaurant.ID,
		"client_token":       "tok-new",
		"client_fingerprint": "fp-device-9",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	data := responseData(t, w)
	assert.EqualValues(t, existing.ID, data["customer_id"])

	var customers []models.Customer
	db.Where("restaurant_id = ?", restaurant.ID).Find(&customers)
	assert.Len(t, customers, 1, "no second customer may be created")
	assert.Equal(t, "tok-new", customers[0].ClientToken)
	assert.Equal(t, 6, customers[0].VisitCount, "history is preserved")
}

func TestTrackVisitMissingClientToken(t *testing.T) {
	db := setupTestDB(t)
	restaurant := seedRestaurant(t, db, "warung-empat")
	r := setupCRMRouter(db)

	w := performJSON(r, "POST", "/crm/track-visit", gin.H{
		"restaurant_id": restaurant.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrackVisitUnknownRestaurant(t *testing.T) {
	db := setupTestDB(t)
	r := setupCRMRouter(db)

	w := performJSON(r, "POST", "/crm/track-visit", gin.H{
		"restaurant_id": 999,
		"client_token":  "tok-anything",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrackVisitTenantIsolation(t *testing.T) {
	db := setupTestDB(t)
	first := seedRestaurant(t, db, "tenant-a")
	second := seedRestaurant(t, db, "tenant-b")
	r := setupCRMRouter(db)

	for _, restaurant := range []models.Restaurant{first, second} {
		w := performJSON(r, "POST", "/crm/track-visit", gin.H{
			"restaurant_id": restaurant.ID,
			"client_token":  "tok-shared-device",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	// The same device at two restaurants is two separate customers.
	var total int64
	db.Model(&models.Customer{}).Where("client_token = ?", "tok-shared-device").Count(&total)
	assert.EqualValues(t, 2, total)

	var firstCustomers int64
	db.Model(&models.Customer{}).Where("restaurant_id = ?", first.ID).Count(&firstCustomers)
	assert.EqualValues(t, 1, firstCustomers)
}
