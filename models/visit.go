package models

import "time"

// Visit records one QR scan / menu open. Immutable after insert except for
// OrderPlaced, which the order placer flips when the seating converts.
type Visit struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CustomerID   uint       `gorm:"not null;index" json:"customer_id"`
	Customer     Customer   `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	TableID      *uint      `gorm:"index" json:"table_id,omitempty"`
	AreaID       *uint      `json:"area_id,omitempty"`
	Campaign     string     `gorm:"type:varchar(100)" json:"campaign,omitempty"`
	QRCodeType   string     `gorm:"type:varchar(50)" json:"qr_code_type,omitempty"`
	DeviceInfo   string     `gorm:"type:varchar(255)" json:"device_info,omitempty"`
	Referrer     string     `gorm:"type:varchar(255)" json:"referrer,omitempty"`
	OrderPlaced  bool       `gorm:"not null;default:false" json:"order_placed"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
}
