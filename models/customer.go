package models

import "time"

// Loyalty tiers by lifetime spend.
const (
	LoyaltyBronze = "bronze"
	LoyaltySilver = "silver"
	LoyaltyGold   = "gold"

	silverThreshold = 500.0
	goldThreshold   = 2000.0
)

// Customer is the identity anchor for an anonymous diner. One row per
// (restaurant, client token); never hard-deleted.
type Customer struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	RestaurantID  uint       `gorm:"not null;index:idx_customer_token" json:"restaurant_id"`
	Restaurant    Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	ClientToken   string     `gorm:"type:varchar(128);not null;index:idx_customer_token" json:"client_token"`
	Fingerprint   string     `gorm:"type:varchar(128);index" json:"fingerprint,omitempty"`
	FirstSeenAt   time.Time  `gorm:"not null" json:"first_seen_at"`
	LastSeenAt    time.Time  `gorm:"not null" json:"last_seen_at"`
	VisitCount    int        `gorm:"not null;default:0" json:"visit_count"`
	TotalSpend    float64    `gorm:"type:decimal(12,2);not null;default:0.00" json:"total_spend"`
	LoyaltyTier   string     `gorm:"type:varchar(10);not null;default:'bronze'" json:"loyalty_tier"`
	Status        string     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

// RefreshLoyaltyTier recomputes the tier from total spend.
func (cu *Customer) RefreshLoyaltyTier() {
	switch {
	case cu.TotalSpend >= goldThreshold:
		cu.LoyaltyTier = LoyaltyGold
	case cu.TotalSpend >= silverThreshold:
		cu.LoyaltyTier = LoyaltySilver
	default:
		cu.LoyaltyTier = LoyaltyBronze
	}
}
