package models

import "time"

// Restaurant is the tenant. Every other entity carries a RestaurantID and every
// query filters by it.
type Restaurant struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug           string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	WhatsAppNumber string    `gorm:"type:varchar(30)" json:"whatsapp_number"`
	Active         bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
