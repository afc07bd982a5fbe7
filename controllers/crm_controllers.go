package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/innerchild2401/qr-menu-sub002/models"
	"github.com/innerchild2401/qr-menu-sub002/realtime"
	"github.com/innerchild2401/qr-menu-sub002/services"
	"github.com/innerchild2401/qr-menu-sub002/utils"
	"gorm.io/gorm"
)

type CRMController struct {
	DB    *gorm.DB
	Cache *services.RestaurantCache
}

func NewCRMController(db *gorm.DB, cache *services.RestaurantCache) *CRMController {
	return &CRMController{DB: db, Cache: cache}
}

// TrackVisit -> record one scan/interaction, creating or re-associating the
// customer as needed. The visit row is authoritative; the rolling counters on
// the customer are best-effort.
func (cc *CRMController) TrackVisit(c *gin.Context) {
	var req struct {
		RestaurantID uint   `json:"restaurant_id" binding:"required"`
		ClientToken  string `json:"client_token" binding:"required"`
		Fingerprint  string `json:"client_fingerprint"`
		TableID      *uint  `json:"table_id"`
		AreaID       *uint  `json:"area_id"`
		Campaign     string `json:"campaign"`
		QRCodeType   string `json:"qr_code_type"`
		DeviceInfo   string `json:"device_info"`
		Referrer     string `json:"referrer"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if _, err := cc.Cache.Get(req.RestaurantID); err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	customer, err := cc.resolveCustomer(req.RestaurantID, req.ClientToken, req.Fingerprint)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	visit := models.Visit{
		RestaurantID: req.RestaurantID,
		CustomerID:   customer.ID,
		TableID:      req.TableID,
		AreaID:       req.AreaID,
		Campaign:     req.Campaign,
		QRCodeType:   req.QRCodeType,
		DeviceInfo:   req.DeviceInfo,
		Referrer:     req.Referrer,
	}

	if err := cc.DB.Create(&visit).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Counter bump is best-effort: the visit is already recorded and is not
	// rolled back if this write fails.
	customer.VisitCount++
	customer.LastSeenAt = time.Now()
	if err := cc.DB.Save(customer).Error; err != nil {
		utils.ErrorLogger.Printf("visit %d recorded but customer %d counters not updated: %v", visit.ID, customer.ID, err)
	}

	realtime.BroadcastVisitTracked(gin.H{
		"visit_id":    visit.ID,
		"customer_id": customer.ID,
		"table_id":    req.TableID,
	})

	utils.RespondJSON(c, http.StatusCreated, "Visit tracked", gin.H{
		"visit_id":    visit.ID,
		"customer_id": customer.ID,
	})
}

// resolveCustomer looks up by (restaurant, token), then by (restaurant,
// fingerprint) with token rotation, and finally creates a fresh customer.
func (cc *CRMController) resolveCustomer(restaurantID uint, clientToken, fingerprint string) (*models.Customer, error) {
	var customer models.Customer

	err := cc.DB.Where("restaurant_id = ? AND client_token = ?", restaurantID, clientToken).First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if fingerprint != "" {
		err = cc.DB.Where("restaurant_id = ? AND fingerprint = ?", restaurantID, fingerprint).First(&customer).Error
		if err == nil {
			// Same device, new token: keep the history, rotate the token.
			customer.ClientToken = clientToken
			if err := cc.DB.Save(&customer).Error; err != nil {
				return nil, err
			}
			utils.InfoLogger.Printf("Customer %d token rotated via fingerprint match", customer.ID)
			return &customer, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	now := time.Now()
	customer = models.Customer{
		RestaurantID: restaurantID,
		ClientToken:  clientToken,
		Fingerprint:  fingerprint,
		FirstSeenAt:  now,
		LastSeenAt:   now,
		LoyaltyTier:  models.LoyaltyBronze,
		Status:       "active",
	}
	if err := cc.DB.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetAllCustomers -> CRM listing for the caller's restaurant
func (cc *CRMController) GetAllCustomers(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var customers []models.Customer
	if err := cc.DB.Where("restaurant_id = ?", restaurantID).Order("last_seen_at DESC").Find(&customers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of customers", customers)
}

// GetCustomerByID
func (cc *CRMController) GetCustomerByID(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")
	customerID := c.Param("customer_id")

	var customer models.Customer
	if err := cc.DB.Where("restaurant_id = ?", restaurantID).First(&customer, customerID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Customer detail", customer)
}

// GetVisits -> recent visits, optionally for one customer
func (cc *CRMController) GetVisits(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	query := cc.DB.Where("restaurant_id = ?", restaurantID).Order("created_at DESC").Limit(100)
	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var visits []models.Visit
	if err := query.Find(&visits).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of visits", visits)
}
