package models

import "time"

type Refinery struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	System   string `gorm:"size:50;not null;index" json:"system"` // Stanton, Pyro
	Location string `gorm:"size:100" json:"location"`             // station the refinery deck lives on
	IsActive bool   `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RefiningJobs []RefiningJob `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Inventory    []Inventory   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
