package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/innerchild2401/qr-menu-sub002/config"
	"github.com/innerchild2401/qr-menu-sub002/models"
	"github.com/innerchild2401/qr-menu-sub002/realtime"
	"github.com/innerchild2401/qr-menu-sub002/services"
	"github.com/innerchild2401/qr-menu-sub002/utils"
	"gorm.io/gorm"
)

type WhatsAppController struct {
	DB    *gorm.DB
	Cache *services.RestaurantCache
}

func NewWhatsAppController(db *gorm.DB, cache *services.RestaurantCache) *WhatsAppController {
	return &WhatsAppController{DB: db, Cache: cache}
}

// CreateOrderToken -> mint a short-lived code binding the order payload to the
// WhatsApp handoff. The customer sends this code to the business number; the
// inbound webhook later exchanges it for their phone number.
func (wc *WhatsAppController) CreateOrderToken(c *gin.Context) {
	var req struct {
		RestaurantID uint            `json:"restaurant_id" binding:"required"`
		ClientToken  string          `json:"client_token" binding:"required"`
		OrderData    json.RawMessage `json:"order_data" binding:"required"`
		TableID      *uint           `json:"table_id"`
		AreaID       *uint           `json:"area_id"`
		OrderType    string          `json:"order_type"`
		Campaign     string          `json:"campaign"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurant, err := wc.Cache.Get(req.RestaurantID)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	code, err := models.GenerateOrderToken()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	token := models.WhatsAppOrderToken{
		RestaurantID: req.RestaurantID,
		Token:        code,
		ClientToken:  req.ClientToken,
		TableID:      req.TableID,
		AreaID:       req.AreaID,
		OrderType:    req.OrderType,
		Campaign:     req.Campaign,
		OrderPayload: string(req.OrderData),
		Status:       models.TokenPending,
		ExpiresAt:    time.Now().Add(models.OrderTokenTTL),
	}

	if err := wc.DB.Create(&token).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	number := restaurant.WhatsAppNumber
	if number == "" {
		number = config.WhatsAppNumber()
	}

	utils.InfoLogger.Printf("WhatsApp order token minted for restaurant %d (expires %s)",
		req.RestaurantID, token.ExpiresAt.Format(time.RFC3339))

	utils.RespondJSON(c, http.StatusCreated, "Order token created", gin.H{
		"token":           token.Token,
		"whatsapp_number": number,
		"expires_at":      token.ExpiresAt,
	})
}

// HandleWebhook -> inbound messaging provider supplies the phone number for a
// token. One-shot: a received token can never transition again, and an expired
// token is rejected at presentation (there is no background sweep).
//
// Provider signature verification is not implemented yet; the payload shape is
// validated and nothing else.
func (wc *WhatsAppController) HandleWebhook(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
		Phone string `json:"phone" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var token models.WhatsAppOrderToken
	if err := wc.DB.Where("token = ?", req.Token).First(&token).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if token.Status == models.TokenReceived {
		utils.RespondError(c, http.StatusConflict, ErrTokenUsed)
		return
	}

	if token.Expired(time.Now()) {
		utils.RespondError(c, http.StatusGone, ErrTokenExpired)
		return
	}

	token.Status = models.TokenReceived
	token.Phone = req.Phone
	if err := wc.DB.Save(&token).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastStaffNotification("WhatsApp order received: " + token.Token)

	utils.InfoLogger.Printf("WhatsApp token %s received (restaurant=%d)", token.Token, token.RestaurantID)
	utils.RespondJSON(c, http.StatusOK, "Token received", gin.H{
		"success": true,
	})
}
