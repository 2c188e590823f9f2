package admin

import (
	"strings"

	"sctracker-backend/internal/database"
	"sctracker-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateMaterialRequest struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Unit        string   `json:"unit"`
	IsMineable  bool     `json:"is_mineable"`
	IsSalvage   bool     `json:"is_salvage"`
	IsTradeGood bool     `json:"is_trade_good"`
	BuyPrice    *float64 `json:"buy_price"`
	SellPrice   *float64 `json:"sell_price"`
}

type UpdateMaterialRequest struct {
	Category    *string  `json:"category"`
	Unit        *string  `json:"unit"`
	IsMineable  *bool    `json:"is_mineable"`
	IsSalvage   *bool    `json:"is_salvage"`
	IsTradeGood *bool    `json:"is_trade_good"`
	BuyPrice    *float64 `json:"buy_price"`
	SellPrice   *float64 `json:"sell_price"`
}

// POST /api/admin/materials
func CreateMaterialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Category = strings.TrimSpace(body.Category)
		if body.Name == "" || body.Category == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and category are required")
		}
		if body.Unit == "" {
			body.Unit = "SCU"
		}

		var exist models.Material
		if err := database.DB.Where("name = ?", body.Name).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Material already exists")
		}

		material := models.Material{
			Name:        body.Name,
			Category:    body.Category,
			Unit:        body.Unit,
			IsMineable:  body.IsMineable,
			IsSalvage:   body.IsSalvage,
			IsTradeGood: body.IsTradeGood,
			BuyPrice:    body.BuyPrice,
			SellPrice:   body.SellPrice,
		}

		if err := database.DB.Create(&material).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create material")
		}

		return c.Status(fiber.StatusCreated).JSON(material)
	}
}

// PUT /api/admin/materials/:id
// Name is immutable: jobs, sales and price rows all key on it for display.
func UpdateMaterialHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var material models.Material
		if err := database.DB.First(&material, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Material not found")
		}

		var body UpdateMaterialRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Category != nil {
			cat := strings.TrimSpace(*body.Category)
			if cat == "" {
				return fiber.NewError(fiber.StatusBadRequest, "category cannot be empty")
			}
			material.Category = cat
		}
		if body.Unit != nil {
			material.Unit = *body.Unit
		}
		if body.IsMineable != nil {
			material.IsMineable = *body.IsMineable
		}
		if body.IsSalvage != nil {
			material.IsSalvage = *body.IsSalvage
		}
		if body.IsTradeGood != nil {
			material.IsTradeGood = *body.IsTradeGood
		}
		if body.BuyPrice != nil {
			material.BuyPrice = body.BuyPrice
		}
		if body.SellPrice != nil {
			material.SellPrice = body.SellPrice
		}

		if err := database.DB.Save(&material).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update material")
		}

		return c.JSON(material)
	}
}
