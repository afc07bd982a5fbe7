package models

import "time"

// Area groups tables into a named zone ("Patio", "Main hall").
type Area struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name         string     `gorm:"type:varchar(100);not null" json:"name"`
	Capacity     int        `json:"capacity"`
	ServiceType  string     `gorm:"type:varchar(30);not null;default:'dine_in'" json:"service_type"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}
