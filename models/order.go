package models

import "time"

// Order statuses.
const (
	OrderPlaced    = "placed"
	OrderConfirmed = "confirmed"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// Order snapshots one placement of a table's shared cart. The cart items it
// consumed are flagged processed in the same transaction that creates it.
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	RestaurantID  uint        `gorm:"not null;index" json:"restaurant_id"`
	Restaurant    Restaurant  `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	TableID       uint        `gorm:"not null;index" json:"table_id"`
	Table         Table       `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table"`
	SessionID     string      `gorm:"type:varchar(64);not null;index" json:"session_id"`
	Status        string      `gorm:"type:varchar(20);not null;default:'placed'" json:"status"`
	OrderType     string      `gorm:"type:varchar(20);not null;default:'dine_in'" json:"order_type"`
	Subtotal      float64     `gorm:"type:decimal(12,2);not null;default:0.00" json:"subtotal"`
	Total         float64     `gorm:"type:decimal(12,2);not null;default:0.00" json:"total"`
	PaymentMethod string      `gorm:"type:varchar(30)" json:"payment_method"`
	OrderItems    []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
}
