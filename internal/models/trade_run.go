package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRun: a cargo haul, buy leg at one location, sell leg at another.
type TradeRun struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user_id"`

	MaterialID uint `gorm:"index;not null" json:"material_id"`
	Material   Material
	Quantity   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity"`

	BuyPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"buy_price"`
	SellPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"sell_price"`

	BuyLocation  string `gorm:"size:100;not null" json:"buy_location"`
	SellLocation string `gorm:"size:100;not null" json:"sell_location"`

	TotalCost    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_cost"`
	TotalRevenue decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_revenue"`
	Profit       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"profit"`

	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
