package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/innerchild2401/qr-menu-sub002/config"
	"github.com/innerchild2401/qr-menu-sub002/models"
	"github.com/innerchild2401/qr-menu-sub002/realtime"
	"github.com/innerchild2401/qr-menu-sub002/services"
	"github.com/innerchild2401/qr-menu-sub002/utils"
	"gorm.io/gorm"
)

// sessionRepairs counts defensive session regenerations in the redirect path.
// A table is always given a session id at creation, so any increment here
// means an upstream data-integrity bug.
var sessionRepairs atomic.Int64

func SessionRepairCount() int64 {
	return sessionRepairs.Load()
}

type TableController struct {
	DB    *gorm.DB
	Cache *services.RestaurantCache
}

func NewTableController(db *gorm.DB, cache *services.RestaurantCache) *TableController {
	return &TableController{DB: db, Cache: cache}
}

// CreateTable -> add a table; the session id is assigned here, once
func (tc *TableController) CreateTable(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var req struct {
		TableNumber string `json:"table_number" binding:"required"`
		AreaID      *uint  `json:"area_id"`
		Capacity    int    `json:"capacity"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.AreaID != nil {
		var area models.Area
		if err := tc.DB.Where("restaurant_id = ?", restaurantID).First(&area, *req.AreaID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
	}

	table := models.Table{
		RestaurantID: restaurantID,
		AreaID:       req.AreaID,
		TableNumber:  req.TableNumber,
		Capacity:     req.Capacity,
		Status:       models.TableAvailable,
		SessionID:    uuid.NewString(),
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// QR codes printed for the table point at the redirect entrypoint.
	table.QRCodeURL = fmt.Sprintf("%s/table-redirect?restaurant_id=%d&table=%d", config.BaseURL(), restaurantID, table.ID)
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastTableCreate(table)

	utils.InfoLogger.Printf("New table created: %s (restaurant=%d)", table.TableNumber, restaurantID)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> tables of the caller's restaurant
func (tc *TableController) GetAllTables(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	query := tc.DB.Preload("Area").Where("restaurant_id = ?", restaurantID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tables []models.Table
	if err := query.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID
func (tc *TableController) GetTableByID(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")
	tableID := c.Param("table_id")

	var table models.Table
	if err := tc.DB.Preload("Area").Where("restaurant_id = ?", restaurantID).First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTableStatus -> staff status change, validated against the transition table
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")
	tableID := c.Param("table_id")

	var body struct {
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !models.ValidTableStatus(body.Status) {
		utils.RespondErrorMsg(c, http.StatusBadRequest, "unknown table status: "+body.Status)
		return
	}

	var table models.Table
	if err := tc.DB.Where("restaurant_id = ?", restaurantID).First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if !table.CanTransition(body.Status) {
		utils.RespondErrorMsg(c, http.StatusConflict,
			fmt.Sprintf("cannot move table from %s to %s", table.Status, body.Status))
		return
	}

	table.Status = body.Status
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastTableUpdate(table)

	utils.InfoLogger.Printf("Table %d status changed to %s", table.ID, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

// ResetSession -> staff closes out a seating; the next scan starts a new cart
func (tc *TableController) ResetSession(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")
	tableID := c.Param("table_id")

	var table models.Table
	if err := tc.DB.Where("restaurant_id = ?", restaurantID).First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	table.SessionID = uuid.NewString()
	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastTableUpdate(table)

	utils.InfoLogger.Printf("Table %d session reset", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table session reset", table)
}

// DeleteTable
func (tc *TableController) DeleteTable(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")
	tableID := c.Param("table_id")

	var table models.Table
	if err := tc.DB.Where("restaurant_id = ?", restaurantID).First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastTableDelete(table.ID)

	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": table.ID})
}

// RedirectFromQR -> public QR entrypoint. Resolves the table's session and
// redirects to the menu page; non-orderable tables get the bare menu URL with
// no table/session parameters.
func (tc *TableController) RedirectFromQR(c *gin.Context) {
	restaurantParam := c.Query("restaurant_id")
	tableParam := c.Query("table")

	if restaurantParam == "" || tableParam == "" {
		utils.RespondErrorMsg(c, http.StatusBadRequest, "restaurant_id and table are required")
		return
	}

	restaurantID, err := strconv.ParseUint(restaurantParam, 10, 32)
	if err != nil {
		utils.RespondErrorMsg(c, http.StatusBadRequest, "restaurant_id must be numeric")
		return
	}

	restaurant, err := tc.Cache.Get(uint(restaurantID))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var table models.Table
	if err := tc.DB.Where("restaurant_id = ?", restaurant.ID).First(&table, tableParam).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	menuURL := fmt.Sprintf("%s/menu/%s", config.BaseURL(), restaurant.Slug)

	if !table.IsOrderable() {
		// Customer can browse but not order; no session leaks into the URL.
		c.Redirect(http.StatusFound, menuURL)
		return
	}

	if table.SessionID == "" {
		// Should never happen: sessions are assigned at table creation. Repair
		// so the customer is not stranded, but make the anomaly loud.
		table.SessionID = uuid.NewString()
		if err := tc.DB.Save(&table).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		sessionRepairs.Add(1)
		utils.ErrorLogger.Printf("table %d (restaurant %d) had no session id; regenerated (repairs total=%d)",
			table.ID, restaurant.ID, sessionRepairs.Load())
	}

	params := url.Values{}
	params.Set("table", strconv.FormatUint(uint64(table.ID), 10))
	if table.AreaID != nil {
		params.Set("area", strconv.FormatUint(uint64(*table.AreaID), 10))
	}
	params.Set("session", table.SessionID)

	c.Redirect(http.StatusFound, menuURL+"?"+params.Encode())
}
