package models

import "time"

// CartItem is one contribution to a table's shared cart, tagged with the
// contributing client token. The set of unprocessed rows for a
// (restaurant, table, session) IS the live cart; processed rows stay behind as
// the record of a placed order.
type CartItem struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;index:idx_cart_scope" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	TableID      uint       `gorm:"not null;index:idx_cart_scope" json:"table_id"`
	Table        Table      `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	SessionID    string     `gorm:"type:varchar(64);not null;index:idx_cart_scope" json:"session_id"`
	MenuID       uint       `gorm:"not null" json:"menu_id"`
	Menu         Menu       `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu"`
	Quantity     int        `gorm:"not null" json:"quantity"`
	UnitPrice    float64    `gorm:"type:decimal(10,2);not null" json:"unit_price"` // price snapshot at add time
	ClientToken  string     `gorm:"type:varchar(128);not null;index" json:"client_token"`
	Processed    bool       `gorm:"not null;default:false;index" json:"processed"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func (ci *CartItem) Subtotal() float64 {
	return float64(ci.Quantity) * ci.UnitPrice
}
