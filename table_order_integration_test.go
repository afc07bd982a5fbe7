package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/innerchild2401/qr-menu-sub002/models"
	"github.com/innerchild2401/qr-menu-sub002/router"
	"github.com/innerchild2401/qr-menu-sub002/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupIntegrationApp(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	autoMigrate(db)
	return db, router.SetupRouter(db)
}

func doJSON(r *gin.Engine, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "body: %s", w.Body.String())
	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

// TestFullTableOrderFlow walks the whole customer journey on one router:
// onboarding, staff setup, QR scan, visit tracking, shared cart, order
// placement and the WhatsApp handoff.
func TestFullTableOrderFlow(t *testing.T) {
	db, r := setupIntegrationApp(t)

	// Tenant onboarding.
	w := doJSON(r, "POST", "/restaurants", "", gin.H{
		"name":            "Kopi Kita",
		"slug":            "kopi-kita",
		"whatsapp_number": "+628120000001",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	restaurantID := uint(dataOf(t, w)["id"].(float64))

	// Staff account.
	w = doJSON(r, "POST", "/register", "", gin.H{
		"restaurant_id": restaurantID,
		"name":          "Owner",
		"email":         "owner@kopikita.id",
		"password":      "rahasia-banget",
		"role":          "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/login", "", gin.H{
		"email":    "owner@kopikita.id",
		"password": "rahasia-banget",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := dataOf(t, w)["token"].(string)
	require.NotEmpty(t, token)

	// Staff sets up a table and the menu.
	w = doJSON(r, "POST", "/admin/tables", token, gin.H{"table_number": "T1", "capacity": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	tableID := uint(dataOf(t, w)["id"].(float64))

	w = doJSON(r, "POST", "/admin/categories", token, gin.H{"name": "Minuman"})
	require.Equal(t, http.StatusCreated, w.Code)
	categoryID := uint(dataOf(t, w)["id"].(float64))

	w = doJSON(r, "POST", "/admin/menus", token, gin.H{
		"category_id": categoryID,
		"name":        "Kopi Susu",
		"price":       18.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	menuID := uint(dataOf(t, w)["id"].(float64))

	// Customer scans the QR code.
	w = doJSON(r, "GET", fmt.Sprintf("/table-redirect?restaurant_id=%d&table=%d", restaurantID, tableID), "", nil)
	require.Equal(t, http.StatusFound, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	sessionID := loc.Query().Get("session")
	require.NotEmpty(t, sessionID)

	// Frontend reports the visit.
	w = doJSON(r, "POST", "/crm/track-visit", "", gin.H{
		"restaurant_id": restaurantID,
		"client_token":  "guest-device-1",
		"table_id":      tableID,
		"device_info":   "Mozilla/5.0",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Menu browsing is public.
	w = doJSON(r, "GET", fmt.Sprintf("/restaurants/%d/menus", restaurantID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Two coffees in the shared cart.
	w = doJSON(r, "POST", "/carts/items", "", gin.H{
		"restaurant_id": restaurantID,
		"table_id":      tableID,
		"session_id":    sessionID,
		"client_token":  "guest-device-1",
		"menu_id":       menuID,
		"quantity":      2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.InDelta(t, 36.0, dataOf(t, w)["table_total"], 0.001)

	// Place the order.
	w = doJSON(r, "POST", "/orders", "", gin.H{
		"restaurant_id": restaurantID,
		"table_id":      tableID,
		"session_id":    sessionID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderData := dataOf(t, w)
	orderID := uint(orderData["id"].(float64))
	assert.InDelta(t, 36.0, orderData["total"], 0.001)

	// The cart is consumed; placing again has nothing to order.
	w = doJSON(r, "POST", "/orders", "", gin.H{
		"restaurant_id": restaurantID,
		"table_id":      tableID,
		"session_id":    sessionID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, "GET", fmt.Sprintf("/orders/%d?restaurant_id=%d", orderID, restaurantID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// WhatsApp handoff: mint a code, then the webhook reports the phone.
	w = doJSON(r, "POST", "/crm/whatsapp/create-token", "", gin.H{
		"restaurant_id": restaurantID,
		"client_token":  "guest-device-1",
		"order_data":    gin.H{"order_id": orderID},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	waData := dataOf(t, w)
	assert.Equal(t, "+628120000001", waData["whatsapp_number"])
	code := waData["token"].(string)

	w = doJSON(r, "POST", "/crm/whatsapp/webhook", "", gin.H{
		"token": code,
		"phone": "+628555000111",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Staff dashboard reflects the day.
	w = doJSON(r, "GET", "/admin/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := dataOf(t, w)
	assert.EqualValues(t, 1, stats["today_visits"])
	assert.EqualValues(t, 1, stats["today_orders"])
	assert.InDelta(t, 36.0, stats["today_revenue"], 0.001)
	assert.EqualValues(t, 1, stats["total_customers"])
	assert.EqualValues(t, 0, stats["pending_order_tokens"], "the handoff token was received")

	// Spend landed on the customer record.
	var customer models.Customer
	require.NoError(t, db.Where("restaurant_id = ? AND client_token = ?", restaurantID, "guest-device-1").First(&customer).Error)
	assert.InDelta(t, 36.0, customer.TotalSpend, 0.001)
}

func TestPerIPRateLimitCapsBurst(t *testing.T) {
	_, r := setupIntegrationApp(t)

	// The router-wide limiter allows 50 requests per second per client.
	var rejected int
	for i := 0; i < 55; i++ {
		w := doJSON(r, "GET", "/ping", "", nil)
		if w.Code == http.StatusTooManyRequests {
			rejected++
			continue
		}
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.GreaterOrEqual(t, rejected, 1, "requests past the window must be rejected")
}

func TestAdminRoutesRequireToken(t *testing.T) {
	_, r := setupIntegrationApp(t)

	w := doJSON(r, "GET", "/admin/tables", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, "GET", "/admin/tables", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRestaurantSettingsRequireAdminRole(t *testing.T) {
	_, r := setupIntegrationApp(t)

	w := doJSON(r, "POST", "/restaurants", "", gin.H{"name": "Warteg", "slug": "warteg"})
	require.Equal(t, http.StatusCreated, w.Code)
	restaurantID := uint(dataOf(t, w)["id"].(float64))

	w = doJSON(r, "POST", "/register", "", gin.H{
		"restaurant_id": restaurantID,
		"name":          "Waiter",
		"email":         "waiter@warteg.id",
		"password":      "pelayan-satu",
		"role":          "staff",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, "POST", "/login", "", gin.H{"email": "waiter@warteg.id", "password": "pelayan-satu"})
	require.Equal(t, http.StatusOK, w.Code)
	token := dataOf(t, w)["token"].(string)

	// Staff can read but not change tenant settings.
	w = doJSON(r, "GET", "/admin/restaurant", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "PATCH", "/admin/restaurant", token, gin.H{"name": "Warteg Baru"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
