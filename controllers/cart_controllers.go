package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/innerchild2401/qr-menu-sub002/models"
	"github.com/innerchild2401/qr-menu-sub002/realtime"
	"github.com/innerchild2401/qr-menu-sub002/utils"
	"gorm.io/gorm"
)

type CartController struct {
	DB *gorm.DB
}

func NewCartController(db *gorm.DB) *CartController {
	return &CartController{DB: db}
}

// cartScope identifies one table's live cart. Every cart operation carries the
// full scope so nothing can cross restaurants or seatings.
type cartScope struct {
	RestaurantID uint   `json:"restaurant_id" binding:"required"`
	TableID      uint   `json:"table_id" binding:"required"`
	SessionID    string `json:"session_id" binding:"required"`
	ClientToken  string `json:"client_token" binding:"required"`
}

// resolveOrderableTable loads the table inside the scope and enforces that it
// is open for ordering under the presented session.
func (cart *CartController) resolveOrderableTable(scope cartScope) (*models.Table, int, error) {
	var table models.Table
	if err := cart.DB.Where("restaurant_id = ?", scope.RestaurantID).First(&table, scope.TableID).Error; err != nil {
		return nil, http.StatusNotFound, err
	}

	if !table.IsOrderable() {
		return nil, http.StatusConflict, ErrTableClosed
	}

	if table.SessionID != scope.SessionID {
		// Stale QR scan from a previous seating; the caller must rescan.
		return nil, http.StatusConflict, ErrTableClosed
	}

	return &table, 0, nil
}

// AddItem -> insert or increment the caller's line item for a product
func (cart *CartController) AddItem(c *gin.Context) {
	var req struct {
		cartScope
		MenuID   uint `json:"menu_id" binding:"required"`
		Quantity int  `json:"quantity" binding:"required,gt=0"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if _, code, err := cart.resolveOrderableTable(req.cartScope); err != nil {
		utils.RespondError(c, code, err)
		return
	}

	var menu models.Menu
	if err := cart.DB.Where("restaurant_id = ? AND available = ?", req.RestaurantID, true).First(&menu, req.MenuID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var item models.CartItem
	err := cart.DB.Where(
		"restaurant_id = ? AND table_id = ? AND session_id = ? AND menu_id = ? AND client_token = ? AND processed = ?",
		req.RestaurantID, req.TableID, req.SessionID, req.MenuID, req.ClientToken, false,
	).First(&item).Error

	switch {
	case err == nil:
		// Increment in SQL so concurrent adds never lose an update.
		if err := cart.DB.Model(&item).Update("quantity", gorm.Expr("quantity + ?", req.Quantity)).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		item.Quantity += req.Quantity
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{
			RestaurantID: req.RestaurantID,
			TableID:      req.TableID,
			SessionID:    req.SessionID,
			MenuID:       req.MenuID,
			Quantity:     req.Quantity,
			UnitPrice:    menu.Price, // snapshot; later price edits do not move the cart
			ClientToken:  req.ClientToken,
		}
		if err := cart.DB.Create(&item).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	customerTotal, tableTotal, err := cart.totals(req.cartScope)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastCartUpdate(gin.H{
		"table_id":    req.TableID,
		"session_id":  req.SessionID,
		"table_total": tableTotal,
	})

	utils.RespondJSON(c, http.StatusCreated, "Item added to cart", gin.H{
		"item":           item,
		"customer_total": customerTotal,
		"table_total":    tableTotal,
	})
}

// UpdateItem -> set the caller's quantity; zero or less removes the line
func (cart *CartController) UpdateItem(c *gin.Context) {
	var req struct {
		cartScope
		MenuID   uint `json:"menu_id" binding:"required"`
		Quantity int  `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if _, code, err := cart.resolveOrderableTable(req.cartScope); err != nil {
		utils.RespondError(c, code, err)
		return
	}

	var item models.CartItem
	if err := cart.DB.Where(
		"restaurant_id = ? AND table_id = ? AND session_id = ? AND menu_id = ? AND client_token = ? AND processed = ?",
		req.RestaurantID, req.TableID, req.SessionID, req.MenuID, req.ClientToken, false,
	).First(&item).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.Quantity <= 0 {
		if err := cart.DB.Delete(&item).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	} else {
		item.Quantity = req.Quantity
		if err := cart.DB.Save(&item).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	customerTotal, tableTotal, err := cart.totals(req.cartScope)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastCartUpdate(gin.H{
		"table_id":    req.TableID,
		"session_id":  req.SessionID,
		"table_total": tableTotal,
	})

	utils.RespondJSON(c, http.StatusOK, "Cart updated", gin.H{
		"customer_total": customerTotal,
		"table_total":    tableTotal,
	})
}

// RemoveItem -> delete the caller's line item
func (cart *CartController) RemoveItem(c *gin.Context) {
	scope, menuID, ok := cart.bindQueryScope(c)
	if !ok {
		return
	}
	if menuID == "" {
		utils.RespondErrorMsg(c, http.StatusBadRequest, "menu_id is required")
		return
	}

	res := cart.DB.Where(
		"restaurant_id = ? AND table_id = ? AND session_id = ? AND menu_id = ? AND client_token = ? AND processed = ?",
		scope.RestaurantID, scope.TableID, scope.SessionID, menuID, scope.ClientToken, false,
	).Delete(&models.CartItem{})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondErrorMsg(c, http.StatusNotFound, "cart item not found")
		return
	}

	_, tableTotal, err := cart.totals(scope)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastCartUpdate(gin.H{
		"table_id":    scope.TableID,
		"session_id":  scope.SessionID,
		"table_total": tableTotal,
	})

	utils.RespondJSON(c, http.StatusOK, "Item removed", gin.H{
		"table_total": tableTotal,
	})
}

// GetCart -> live cart for a table/session: the caller's items, everyone's
// items, and both totals
func (cart *CartController) GetCart(c *gin.Context) {
	scope, _, ok := cart.bindQueryScope(c)
	if !ok {
		return
	}

	var items []models.CartItem
	if err := cart.DB.Preload("Menu").Where(
		"restaurant_id = ? AND table_id = ? AND session_id = ? AND processed = ?",
		scope.RestaurantID, scope.TableID, scope.SessionID, false,
	).Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	customerTotal, tableTotal, err := cart.totals(scope)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart detail", gin.H{
		"items":          items,
		"customer_total": customerTotal,
		"table_total":    tableTotal,
	})
}

// bindQueryScope reads the cart scope from query parameters (DELETE and GET
// have no body). menu_id is returned separately; it is optional for GetCart.
func (cart *CartController) bindQueryScope(c *gin.Context) (cartScope, string, bool) {
	var scope struct {
		RestaurantID uint   `form:"restaurant_id" binding:"required"`
		TableID      uint   `form:"table_id" binding:"required"`
		SessionID    string `form:"session_id" binding:"required"`
		ClientToken  string `form:"client_token" binding:"required"`
	}

	if err := c.ShouldBindQuery(&scope); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return cartScope{}, "", false
	}

	return cartScope{
		RestaurantID: scope.RestaurantID,
		TableID:      scope.TableID,
		SessionID:    scope.SessionID,
		ClientToken:  scope.ClientToken,
	}, c.Query("menu_id"), true
}

// totals sums quantity x unit price over unprocessed items: the caller's own
// slice and the whole table.
func (cart *CartController) totals(scope cartScope) (customerTotal, tableTotal float64, err error) {
	base := "restaurant_id = ? AND table_id = ? AND session_id = ? AND processed = ?"

	err = cart.DB.Model(&models.CartItem{}).
		Where(base+" AND client_token = ?", scope.RestaurantID, scope.TableID, scope.SessionID, false, scope.ClientToken).
		Select("COALESCE(SUM(quantity * unit_price), 0)").Row().Scan(&customerTotal)
	if err != nil {
		return 0, 0, err
	}

	err = cart.DB.Model(&models.CartItem{}).
		Where(base, scope.RestaurantID, scope.TableID, scope.SessionID, false).
		Select("COALESCE(SUM(quantity * unit_price), 0)").Row().Scan(&tableTotal)
	if err != nil {
		return 0, 0, err
	}

	return customerTotal, tableTotal, nil
}
