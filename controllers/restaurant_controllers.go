package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/innerchild2401/qr-menu-sub002/models"
	"github.com/innerchild2401/qr-menu-sub002/services"
	"github.com/innerchild2401/qr-menu-sub002/utils"
	"gorm.io/gorm"
)

type RestaurantController struct {
	DB    *gorm.DB
	Cache *services.RestaurantCache
}

func NewRestaurantController(db *gorm.DB, cache *services.RestaurantCache) *RestaurantController {
	return &RestaurantController{DB: db, Cache: cache}
}

// CreateRestaurant -> tenant onboarding
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	var req struct {
		Name           string `json:"name" binding:"required"`
		Slug           string `json:"slug" binding:"required"`
		WhatsAppNumber string `json:"whatsapp_number"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurant := models.Restaurant{
		Name:           req.Name,
		Slug:           req.Slug,
		WhatsAppNumber: req.WhatsAppNumber,
		Active:         true,
	}

	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New restaurant created: %s (id=%d)", restaurant.Slug, restaurant.ID)
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

// GetRestaurant -> the caller's own tenant record
func (rc *RestaurantController) GetRestaurant(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	restaurant, err := rc.Cache.Get(restaurantID)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

// UpdateRestaurant -> mutate tenant settings, dropping the cached entry
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var req struct {
		Name           *string `json:"name"`
		WhatsAppNumber *string `json:"whatsapp_number"`
		Active         *bool   `json:"active"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, restaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.WhatsAppNumber != nil {
		restaurant.WhatsAppNumber = *req.WhatsAppNumber
	}
	if req.Active != nil {
		restaurant.Active = *req.Active
	}

	if err := rc.DB.Save(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Cached copy is stale the moment the row changes.
	rc.Cache.Invalidate(restaurant.ID)

	utils.InfoLogger.Printf("Restaurant %d updated", restaurant.ID)
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}
