package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/innerchild2401/qr-menu-sub002/models"
	"github.com/innerchild2401/qr-menu-sub002/utils"
	"gorm.io/gorm"
)

type AreaController struct {
	DB *gorm.DB
}

func NewAreaController(db *gorm.DB) *AreaController {
	return &AreaController{DB: db}
}

// CreateArea -> add a zone to the caller's restaurant
func (ac *AreaController) CreateArea(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var req struct {
		Name        string `json:"name" binding:"required"`
		Capacity    int    `json:"capacity"`
		ServiceType string `json:"service_type"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	area := models.Area{
		RestaurantID: restaurantID,
		Name:         req.Name,
		Capacity:     req.Capacity,
		ServiceType:  "dine_in",
	}
	if req.ServiceType != "" {
		area.ServiceType = req.ServiceType
	}

	if err := ac.DB.Create(&area).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Area created", area)
}

// GetAllAreas -> zones of the caller's restaurant
func (ac *AreaController) GetAllAreas(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var areas []models.Area
	if err := ac.DB.Where("restaurant_id = ?", restaurantID).Find(&areas).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of areas", areas)
}

// UpdateArea
func (ac *AreaController) UpdateArea(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")
	areaID := c.Param("area_id")

	var req struct {
		Name        *string `json:"name"`
		Capacity    *int    `json:"capacity"`
		ServiceType *string `json:"service_type"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var area models.Area
	if err := ac.DB.Where("restaurant_id = ?", restaurantID).First(&area, areaID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.Name != nil {
		area.Name = *req.Name
	}
	if req.Capacity != nil {
		area.Capacity = *req.Capacity
	}
	if req.ServiceType != nil {
		area.ServiceType = *req.ServiceType
	}

	if err := ac.DB.Save(&area).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Area updated", area)
}

// DeleteArea
func (ac *AreaController) DeleteArea(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")
	areaID := c.Param("area_id")

	var area models.Area
	if err := ac.DB.Where("restaurant_id = ?", restaurantID).First(&area, areaID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := ac.DB.Delete(&area).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Area deleted", gin.H{"area_id": area.ID})
}
