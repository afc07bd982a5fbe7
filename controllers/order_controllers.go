package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/innerchild2401/qr-menu-sub002/models"
	"github.com/innerchild2401/qr-menu-sub002/realtime"
	"github.com/innerchild2401/qr-menu-sub002/utils"
	"gorm.io/gorm"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// PlaceOrder -> convert the table's unprocessed cart items into an order.
//
// The whole conversion runs in one transaction: read items, create the order,
// flag the items processed, flag contributing visits. A second placement
// without new cart activity finds no unprocessed items and gets a conflict,
// so racing placements cannot bill the same line items twice.
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	var req struct {
		RestaurantID  uint   `json:"restaurant_id" binding:"required"`
		TableID       uint   `json:"table_id" binding:"required"`
		SessionID     string `json:"session_id" binding:"required"`
		OrderType     string `json:"order_type"`
		PaymentMethod string `json:"payment_method"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := oc.DB.Where("restaurant_id = ?", req.RestaurantID).First(&table, req.TableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if table.SessionID != req.SessionID {
		utils.RespondError(c, http.StatusConflict, ErrTableClosed)
		return
	}

	var order models.Order
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where(
			"restaurant_id = ? AND table_id = ? AND session_id = ? AND processed = ?",
			req.RestaurantID, req.TableID, req.SessionID, false,
		).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		var subtotal float64
		tokens := make(map[string]bool)
		for _, item := range items {
			subtotal += item.Subtotal()
			tokens[item.ClientToken] = true
		}

		order = models.Order{
			RestaurantID:  req.RestaurantID,
			TableID:       req.TableID,
			SessionID:     req.SessionID,
			Status:        models.OrderPlaced,
			OrderType:     "dine_in",
			Subtotal:      subtotal,
			Total:         subtotal,
			PaymentMethod: req.PaymentMethod,
		}
		if req.OrderType != "" {
			order.OrderType = req.OrderType
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, item := range items {
			orderItem := models.OrderItem{
				OrderID:     order.ID,
				MenuID:      item.MenuID,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				ClientToken: item.ClientToken,
			}
			var menu models.Menu
			if err := tx.First(&menu, item.MenuID).Error; err == nil {
				orderItem.MenuName = menu.Name
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			order.OrderItems = append(order.OrderItems, orderItem)
		}

		// Consume exactly the rows read above; processed items leave the
		// active cart but stay behind as the record of this order.
		res := tx.Model(&models.CartItem{}).Where(
			"restaurant_id = ? AND table_id = ? AND session_id = ? AND processed = ?",
			req.RestaurantID, req.TableID, req.SessionID, false,
		).Update("processed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(items)) {
			// A concurrent placement consumed some of these rows first.
			return ErrCartEmpty
		}

		// Flag visits of contributing customers so the CRM can tell which
		// scans converted.
		for token := range tokens {
			var customer models.Customer
			if err := tx.Where("restaurant_id = ? AND client_token = ?", req.RestaurantID, token).First(&customer).Error; err != nil {
				continue
			}
			tx.Model(&models.Visit{}).Where(
				"restaurant_id = ? AND customer_id = ? AND table_id = ? AND order_placed = ?",
				req.RestaurantID, customer.ID, req.TableID, false,
			).Update("order_placed", true)
		}

		return nil
	})

	if err == ErrCartEmpty {
		utils.RespondError(c, http.StatusConflict, err)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Spend/loyalty update is best-effort outside the transaction; the order
	// stands even if it fails.
	oc.recordSpend(&order)

	realtime.BroadcastOrderCreate(order)

	utils.InfoLogger.Printf("Order %d placed for table %d (restaurant=%d, total=%.2f)",
		order.ID, order.TableID, order.RestaurantID, order.Total)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// recordSpend attributes each contributor's share of the order to their
// customer record and refreshes the loyalty tier.
func (oc *OrderController) recordSpend(order *models.Order) {
	perToken := make(map[string]float64)
	for _, item := range order.OrderItems {
		perToken[item.ClientToken] += float64(item.Quantity) * item.UnitPrice
	}

	for token, spend := range perToken {
		var customer models.Customer
		if err := oc.DB.Where("restaurant_id = ? AND client_token = ?", order.RestaurantID, token).First(&customer).Error; err != nil {
			continue
		}
		customer.TotalSpend += spend
		customer.RefreshLoyaltyTier()
		if err := oc.DB.Save(&customer).Error; err != nil {
			utils.ErrorLogger.Printf("order %d: spend not recorded for customer %d: %v", order.ID, customer.ID, err)
		}
	}
}

// GetOrderByID -> public order detail, tenant-scoped via query parameter
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	restaurantID := c.Query("restaurant_id")
	if restaurantID == "" {
		utils.RespondErrorMsg(c, http.StatusBadRequest, "restaurant_id is required")
		return
	}

	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondErrorMsg(c, http.StatusBadRequest, "order_id must be numeric")
		return
	}

	var order models.Order
	if err := oc.DB.Preload("OrderItems").Where("restaurant_id = ?", restaurantID).First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetAllOrders -> staff listing for the caller's restaurant
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	query := oc.DB.Preload("OrderItems").Where("restaurant_id = ?", restaurantID).Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// UpdateOrderStatus -> staff moves an order along its lifecycle
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")
	orderID := c.Param("order_id")

	var req struct {
		Status string `json:"status" binding:"required,oneof=placed confirmed completed cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.Preload("OrderItems").Where("restaurant_id = ?", restaurantID).First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	order.Status = req.Status
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastOrderUpdate(order)

	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}
