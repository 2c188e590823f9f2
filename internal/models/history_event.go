package models

import "time"

type HistoryAction string

const (
	HistoryActionCreate  HistoryAction = "create"
	HistoryActionCollect HistoryAction = "collect"
	HistoryActionCancel  HistoryAction = "cancel"
	HistoryActionSale    HistoryAction = "sale"
)

// HistoryEvent: append-only activity feed entry. Never updated or deleted.
type HistoryEvent struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	UserID      uint          `gorm:"index;not null" json:"user_id"`
	UserHandle  string        `gorm:"size:100" json:"user_handle"`
	EntityType  string        `gorm:"size:50;index;not null" json:"entity_type"` // refining_job, sale, trade_run
	EntityID    uint          `gorm:"index" json:"entity_id"`
	Action      HistoryAction `gorm:"size:20;not null" json:"action"`
	Description string        `gorm:"size:500" json:"description"`
	CreatedAt   time.Time     `gorm:"index" json:"created_at"`
}
