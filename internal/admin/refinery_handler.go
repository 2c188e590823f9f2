package admin

import (
	"strings"

	"sctracker-backend/internal/database"
	"sctracker-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type RefineryResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	System    string `json:"system"`
	Location  string `json:"location"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

type CreateRefineryRequest struct {
	Name     string `json:"name"`
	System   string `json:"system"`
	Location string `json:"location"`
}

type UpdateRefineryRequest struct {
	Name     *string `json:"name"`
	System   *string `json:"system"`
	Location *string `json:"location"`
	IsActive *bool   `json:"is_active"`
}

func buildRefineryResponse(r *models.Refinery) RefineryResponse {
	return RefineryResponse{
		ID:        r.ID,
		Name:      r.Name,
		System:    r.System,
		Location:  r.Location,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/admin/refineries
func CreateRefineryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRefineryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.System = strings.TrimSpace(body.System)
		if body.Name == "" || body.System == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and system are required")
		}

		refinery := models.Refinery{
			Name:     body.Name,
			System:   body.System,
			Location: strings.TrimSpace(body.Location),
			IsActive: true,
		}

		if err := database.DB.Create(&refinery).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create refinery")
		}

		return c.Status(fiber.StatusCreated).JSON(buildRefineryResponse(&refinery))
	}
}

// GET /api/admin/refineries/:id
func GetRefineryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var refinery models.Refinery
		if err := database.DB.First(&refinery, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Refinery not found")
		}
		return c.JSON(buildRefineryResponse(&refinery))
	}
}

// PUT /api/admin/refineries/:id
func UpdateRefineryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var refinery models.Refinery
		if err := database.DB.First(&refinery, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Refinery not found")
		}

		var body UpdateRefineryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			refinery.Name = name
		}
		if body.System != nil {
			system := strings.TrimSpace(*body.System)
			if system == "" {
				return fiber.NewError(fiber.StatusBadRequest, "system cannot be empty")
			}
			refinery.System = system
		}
		if body.Location != nil {
			refinery.Location = strings.TrimSpace(*body.Location)
		}
		if body.IsActive != nil {
			refinery.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&refinery).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update refinery")
		}

		return c.JSON(buildRefineryResponse(&refinery))
	}
}

// DELETE /api/admin/refineries/:id
// Deactivates instead of deleting: jobs and ledger rows reference the row.
func DeactivateRefineryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var refinery models.Refinery
		if err := database.DB.First(&refinery, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Refinery not found")
		}

		if err := database.DB.Model(&refinery).Update("is_active", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not deactivate refinery")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
