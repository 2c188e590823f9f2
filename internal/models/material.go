package models

import "time"

type Material struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null;unique" json:"name"`
	Category string `gorm:"size:50;not null;index" json:"category"` // ore, metal, gas, salvage, agricultural...
	Unit     string `gorm:"size:10;not null" json:"unit"`           // SCU, cSCU

	IsMineable  bool `gorm:"not null;default:false" json:"is_mineable"`
	IsSalvage   bool `gorm:"not null;default:false" json:"is_salvage"`
	IsTradeGood bool `gorm:"not null;default:false" json:"is_trade_good"`

	// Static reference prices, used as fallback when no live UEX price exists
	BuyPrice  *float64 `json:"buy_price"`
	SellPrice *float64 `json:"sell_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
