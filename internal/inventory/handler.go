package inventory

import (
	"sctracker-backend/internal/database"
	"sctracker-backend/internal/market"
	"sctracker-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type InventoryResponse struct {
	ID                  uint    `json:"id"`
	RefineryID          uint    `json:"refinery_id"`
	RefineryName        string  `json:"refinery_name"`
	RefinerySystem      string  `json:"refinery_system"`
	MaterialID          uint    `json:"material_id"`
	MaterialName        string  `json:"material_name"`
	UserID              uint    `json:"user_id"`
	Quantity            string  `json:"quantity"`
	Unit                string  `json:"unit"`
	EstimatedUnitPrice  float64 `json:"estimated_unit_price"`
	EstimatedTotalValue float64 `json:"estimated_total_value"`
	LastUpdated         string  `json:"last_updated"`
}

// GET /api/inventory?refinery_id=1&material_id=2&min_quantity=0
// Price lookups degrade to zero when no market data exists; a dead price feed
// must not break the stock listing.
func ListInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Refinery").Preload("Material").
			Where("quantity > ?", c.Query("min_quantity", "0"))

		if rid := c.Query("refinery_id"); rid != "" {
			q = q.Where("refinery_id = ?", rid)
		}
		if mid := c.Query("material_id"); mid != "" {
			q = q.Where("material_id = ?", mid)
		}

		var rows []models.Inventory
		if err := q.Order("last_updated DESC").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list inventory")
		}

		resp := make([]InventoryResponse, 0, len(rows))
		for i := range rows {
			row := &rows[i]

			sellPrice, err := market.LatestSellPrice(database.DB, row.MaterialID)
			if err != nil {
				sellPrice = nil
			}
			if sellPrice == nil {
				sellPrice = row.Material.SellPrice
			}

			unitPrice := 0.0
			if sellPrice != nil {
				unitPrice = *sellPrice
			}

			resp = append(resp, InventoryResponse{
				ID:                  row.ID,
				RefineryID:          row.RefineryID,
				RefineryName:        row.Refinery.Name,
				RefinerySystem:      row.Refinery.System,
				MaterialID:          row.MaterialID,
				MaterialName:        row.Material.Name,
				UserID:              row.UserID,
				Quantity:            row.Quantity.StringFixed(2),
				Unit:                row.Unit,
				EstimatedUnitPrice:  unitPrice,
				EstimatedTotalValue: EstimatedValue(row, sellPrice),
				LastUpdated:         row.LastUpdated.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(resp)
	}
}
