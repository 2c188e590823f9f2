package models

import "time"

type Location struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;unique" json:"name"`
	Code string `gorm:"size:20;uniqueIndex" json:"code"` // UEX terminal code, e.g. "HURO1"

	System string `gorm:"size:50;index" json:"system"`
	Planet string `gorm:"size:50;index" json:"planet"`
	Moon   string `gorm:"size:50" json:"moon"`

	LocationType      string `gorm:"size:30;index" json:"location_type"` // station, outpost, city, rest_stop
	IsAvailable       bool   `gorm:"not null;default:true" json:"is_available"`
	HasTradeTerminals bool   `gorm:"not null;default:false" json:"has_trade_terminals"`
	HasRefinery       bool   `gorm:"not null;default:false" json:"has_refinery"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
