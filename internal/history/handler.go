package history

import (
	"strconv"

	"sctracker-backend/internal/database"
	"sctracker-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type EventResponse struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	UserHandle  string `json:"user_handle"`
	EntityType  string `json:"entity_type"`
	EntityID    uint   `json:"entity_id"`
	Action      string `json:"action"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// GET /api/history?entity_type=refining_job&limit=50
func ListEventsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 50
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > 500 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 500")
			}
			limit = n
		}

		q := database.DB.Model(&models.HistoryEvent{})
		if et := c.Query("entity_type"); et != "" {
			q = q.Where("entity_type = ?", et)
		}

		var events []models.HistoryEvent
		if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&events).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list history events")
		}

		resp := make([]EventResponse, 0, len(events))
		for _, e := range events {
			resp = append(resp, EventResponse{
				ID:          e.ID,
				UserID:      e.UserID,
				UserHandle:  e.UserHandle,
				EntityType:  e.EntityType,
				EntityID:    e.EntityID,
				Action:      string(e.Action),
				Description: e.Description,
				CreatedAt:   e.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}
