package history

import (
	"fmt"

	"sctracker-backend/internal/models"

	"gorm.io/gorm"
)

type EventOptions struct {
	UserID      uint
	UserHandle  string
	EntityType  string
	EntityID    uint
	Action      models.HistoryAction
	Description string
}

// Record appends an activity feed entry. Best-effort from the callers' point
// of view: handlers log a failure but never fail the main operation over it.
func Record(db *gorm.DB, opts EventOptions) error {
	event := models.HistoryEvent{
		UserID:      opts.UserID,
		UserHandle:  opts.UserHandle,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
	}

	if err := db.Create(&event).Error; err != nil {
		return fmt.Errorf("could not record history event: %w", err)
	}
	return nil
}
