package models

import "time"

type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"not null" json:"order_id"`
	Order       Order   `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID      uint    `gorm:"not null" json:"menu_id"`
	MenuName    string  `gorm:"type:varchar(255);not null" json:"menu_name"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	ClientToken string  `gorm:"type:varchar(128);not null" json:"client_token"` // contributor attribution
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}
