package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user_id"`

	MaterialID   uint `gorm:"index;not null" json:"material_id"`
	Material     Material
	QuantitySold decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity_sold"`
	Unit         string          `gorm:"size:10;not null;default:SCU" json:"unit"`

	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalRevenue decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_revenue"`
	RefiningCost decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"refining_cost"`

	SaleLocationID   *uint `gorm:"index" json:"sale_location_id"`
	SaleLocation     *Location
	RefinerySourceID *uint `json:"refinery_source_id"`
	RefinerySource   *Refinery

	SaleDate  time.Time `gorm:"index;not null" json:"sale_date"`
	Notes     string    `gorm:"size:500" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// Profit is net revenue after the refining cost.
func (s *Sale) Profit() decimal.Decimal {
	return s.TotalRevenue.Sub(s.RefiningCost)
}

// ProfitPercentage relative to cost. Zero-cost sales report 0 by convention.
func (s *Sale) ProfitPercentage() decimal.Decimal {
	if s.RefiningCost.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return s.Profit().Div(s.RefiningCost).Mul(decimal.NewFromInt(100)).Round(2)
}
