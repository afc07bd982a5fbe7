package models

import "time"

// Table statuses. This is the single authoritative set; handlers must not
// compare against raw strings of their own.
const (
	TableAvailable    = "available"
	TableOccupied     = "occupied"
	TableCleaning     = "cleaning"
	TableOutOfService = "out_of_service"
)

// tableTransitions lists the allowed next statuses for each status.
var tableTransitions = map[string][]string{
	TableAvailable:    {TableOccupied, TableCleaning, TableOutOfService},
	TableOccupied:     {TableCleaning, TableAvailable, TableOutOfService},
	TableCleaning:     {TableAvailable, TableOutOfService},
	TableOutOfService: {TableAvailable, TableCleaning},
}

func ValidTableStatus(status string) bool {
	_, ok := tableTransitions[status]
	return ok
}

type Table struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	AreaID       *uint      `gorm:"index" json:"area_id,omitempty"`
	Area         *Area      `gorm:"foreignKey:AreaID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"area,omitempty"`
	TableNumber  string     `gorm:"type:varchar(50);not null" json:"table_number"`
	Capacity     int        `json:"capacity"`
	Status       string     `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	SessionID    string     `gorm:"type:varchar(64)" json:"session_id"`
	QRCodeURL    string     `gorm:"type:varchar(255)" json:"qr_code_url"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

// IsOrderable reports whether customers at this table may browse with a
// session and add cart items. Cleaning and out-of-service tables cannot order.
func (t *Table) IsOrderable() bool {
	return t.Status == TableAvailable || t.Status == TableOccupied
}

// CanTransition validates a staff status change against the transition table.
func (t *Table) CanTransition(next string) bool {
	for _, s := range tableTransitions[t.Status] {
		if s == next {
			return true
		}
	}
	return false
}
