package models

import "time"

const (
	PriceSourceUEX    = "UEX"
	PriceSourceManual = "manual"

	// Synthetic location string for system-wide UEX estimates
	UEXEstimatedLocation = "UEX_ESTIMATED"
)

// MarketPrice rows are append-only; the newest CollectedAt per material wins,
// older rows double as price history.
type MarketPrice struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	MaterialID uint `gorm:"index;not null" json:"material_id"`
	Material   Material

	// Either a real location FK or a free-form label like UEX_ESTIMATED
	LocationID     *uint  `gorm:"index" json:"location_id"`
	Location       *Location
	LocationString string `gorm:"size:100" json:"location_string"`

	SellPrice *float64 `json:"sell_price"` // aUEC per SCU
	BuyPrice  *float64 `json:"buy_price"`

	Source      string    `gorm:"size:20;index" json:"source"`
	CollectedAt time.Time `gorm:"index;not null" json:"collected_at"`
}
