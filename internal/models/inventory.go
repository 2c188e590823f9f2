package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory: refined material ledger, one row per (refinery, material, owner)
type Inventory struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	RefineryID uint `gorm:"not null;index;uniqueIndex:uq_inventory_refinery_material_user" json:"refinery_id"`
	Refinery   Refinery
	MaterialID uint `gorm:"not null;index;uniqueIndex:uq_inventory_refinery_material_user" json:"material_id"`
	Material   Material
	UserID     uint `gorm:"not null;index;uniqueIndex:uq_inventory_refinery_material_user" json:"user_id"`

	Quantity decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"quantity"`
	Unit     string          `gorm:"size:10;not null;default:SCU" json:"unit"`

	LastUpdated time.Time `gorm:"not null" json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
}
