package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusReady      JobStatus = "ready"
	JobStatusCollected  JobStatus = "collected"
	JobStatusCancelled  JobStatus = "cancelled"
)

type JobType string

const (
	JobTypeMining  JobType = "mining"
	JobTypeSalvage JobType = "salvage"
)

type RefiningJob struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	RefineryID uint `gorm:"index;not null" json:"refinery_id"`
	Refinery   Refinery
	UserID     uint `gorm:"index;not null" json:"user_id"`

	JobType        JobType         `gorm:"size:20;not null;default:mining" json:"job_type"`
	TotalCost      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_cost"`
	ProcessingTime int             `gorm:"not null" json:"processing_time"` // minutes

	Status      JobStatus  `gorm:"size:20;not null;default:processing;index" json:"status"`
	StartTime   time.Time  `gorm:"not null" json:"start_time"`
	EndTime     time.Time  `gorm:"not null;index" json:"end_time"` // StartTime + ProcessingTime
	CollectedAt *time.Time `json:"collected_at"`

	Notes     string    `gorm:"size:500" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Materials []RefiningJobMaterial `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"materials"`
}

type RefiningJobMaterial struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	JobID      uint `gorm:"index;not null" json:"job_id"`
	MaterialID uint `gorm:"index;not null" json:"material_id"`
	Material   Material

	QuantityRefined decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"quantity_refined"` // raw units (cSCU)
	Unit            string          `gorm:"size:10;not null;default:SCU" json:"unit"`

	CreatedAt time.Time `json:"created_at"`
}

// SecondsRemaining reports how long until the refinery finishes the job.
func (j *RefiningJob) SecondsRemaining(now time.Time) int {
	if j.Status != JobStatusProcessing {
		return 0
	}
	remaining := int(j.EndTime.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ProgressPercentage returns 0-100 progress based on wall-clock time.
func (j *RefiningJob) ProgressPercentage(now time.Time) float64 {
	if j.Status != JobStatusProcessing {
		if j.Status == JobStatusReady || j.Status == JobStatusCollected {
			return 100
		}
		return 0
	}
	total := j.EndTime.Sub(j.StartTime).Seconds()
	if total <= 0 {
		return 100
	}
	elapsed := now.Sub(j.StartTime).Seconds()
	progress := elapsed / total * 100
	if progress > 100 {
		progress = 100
	}
	if progress < 0 {
		progress = 0
	}
	return progress
}

// IsDue reports whether a processing job has passed its end time.
func (j *RefiningJob) IsDue(now time.Time) bool {
	return j.Status == JobStatusProcessing && !now.Before(j.EndTime)
}
