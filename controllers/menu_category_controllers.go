package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/innerchild2401/qr-menu-sub002/models"
	"github.com/innerchild2401/qr-menu-sub002/utils"
	"gorm.io/gorm"
)

type MenuCategoryController struct {
	DB *gorm.DB
}

func NewMenuCategoryController(db *gorm.DB) *MenuCategoryController {
	return &MenuCategoryController{DB: db}
}

// GetAllCategories -> public listing for the menu page
func (mc *MenuCategoryController) GetAllCategories(c *gin.Context) {
	restaurantID, err := strconv.ParseUint(c.Param("restaurant_id"), 10, 32)
	if err != nil {
		utils.RespondErrorMsg(c, http.StatusBadRequest, "restaurant_id must be numeric")
		return
	}

	var categories []models.MenuCategory
	if err := mc.DB.Where("restaurant_id = ?", restaurantID).Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

// CreateCategory (staff/admin)
func (mc *MenuCategoryController) CreateCategory(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.MenuCategory{
		RestaurantID: restaurantID,
		Name:         req.Name,
	}
	if err := mc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// UpdateCategory
func (mc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")
	catID := c.Param("cat_id")

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var category models.MenuCategory
	if err := mc.DB.Where("restaurant_id = ?", restaurantID).First(&category, catID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	category.Name = req.Name
	if err := mc.DB.Save(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory
func (mc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")
	catID := c.Param("cat_id")

	var category models.MenuCategory
	if err := mc.DB.Where("restaurant_id = ?", restaurantID).First(&category, catID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := mc.DB.Delete(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": category.ID})
}
