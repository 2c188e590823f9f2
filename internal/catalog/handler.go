package catalog

import (
	"sctracker-backend/internal/database"
	"sctracker-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Read-only reference data: materials, refineries and locations are seeded
// and maintained by admins, everyone else just lists them.

// GET /api/materials?category=ore&mineable_only=true
func ListMaterialsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("name ASC")

		if cat := c.Query("category"); cat != "" {
			q = q.Where("category = ?", cat)
		}
		if c.Query("mineable_only") == "true" {
			q = q.Where("is_mineable = ?", true)
		}
		if c.Query("salvage_only") == "true" {
			q = q.Where("is_salvage = ?", true)
		}

		var materials []models.Material
		if err := q.Find(&materials).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list materials")
		}
		return c.JSON(materials)
	}
}

// GET /api/refineries?system=Stanton&active_only=true
func ListRefineriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("name ASC")

		if system := c.Query("system"); system != "" {
			q = q.Where("system = ?", system)
		}
		if c.Query("active_only") == "true" {
			q = q.Where("is_active = ?", true)
		}

		var refineries []models.Refinery
		if err := q.Find(&refineries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list refineries")
		}
		return c.JSON(refineries)
	}
}

// GET /api/locations?system=Stanton&location_type=station&trade_only=true
func ListLocationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("name ASC")

		if system := c.Query("system"); system != "" {
			q = q.Where("system = ?", system)
		}
		if lt := c.Query("location_type"); lt != "" {
			q = q.Where("location_type = ?", lt)
		}
		if c.Query("trade_only") == "true" {
			q = q.Where("has_trade_terminals = ?", true)
		}

		var locations []models.Location
		if err := q.Find(&locations).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list locations")
		}
		return c.JSON(locations)
	}
}
