package models

import (
	"crypto/rand"
	"time"
)

// Token statuses. pending -> received is the only transition; received is
// terminal.
const (
	TokenPending  = "pending"
	TokenReceived = "received"
)

// OrderTokenTTL is the fixed validity window for a handoff token.
const OrderTokenTTL = time.Hour

// Unambiguous alphabet: no 0/O, 1/I.
const orderTokenAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const orderTokenLength = 8

// WhatsAppOrderToken binds a short opaque code to an order payload awaiting a
// phone number from the inbound messaging webhook.
type WhatsAppOrderToken struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Token        string     `gorm:"type:varchar(8);uniqueIndex;not null" json:"token"`
	ClientToken  string     `gorm:"type:varchar(128);not null" json:"client_token"`
	TableID      *uint      `json:"table_id,omitempty"`
	AreaID       *uint      `json:"area_id,omitempty"`
	OrderType    string     `gorm:"type:varchar(20)" json:"order_type,omitempty"`
	Campaign     string     `gorm:"type:varchar(100)" json:"campaign,omitempty"`
	OrderPayload string     `gorm:"type:text;not null" json:"order_payload"`
	Status       string     `gorm:"type:varchar(10);not null;default:'pending'" json:"status"`
	Phone        string     `gorm:"type:varchar(30)" json:"phone,omitempty"`
	ExpiresAt    time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func (t *WhatsAppOrderToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// GenerateOrderToken returns an 8-character code from the unambiguous alphabet.
func GenerateOrderToken() (string, error) {
	buf := make([]byte, orderTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = orderTokenAlphabet[int(b)%len(orderTokenAlphabet)]
	}
	return string(buf), nil
}
