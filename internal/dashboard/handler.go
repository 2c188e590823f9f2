package dashboard

import (
	"time"

	"sctracker-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

// GET /api/dashboard
func StatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := Stats(database.DB, time.Now().UTC())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build dashboard snapshot")
		}
		return c.JSON(snap)
	}
}
