package market

import (
	"strconv"
	"time"

	"sctracker-backend/internal/apperr"
	"sctracker-backend/internal/config"
	"sctracker-backend/internal/database"
	"sctracker-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PriceResponse struct {
	ID           uint     `json:"id"`
	MaterialID   uint     `json:"material_id"`
	MaterialName string   `json:"material_name"`
	Location     string   `json:"location"`
	SellPrice    *float64 `json:"sell_price"`
	BuyPrice     *float64 `json:"buy_price"`
	Source       string   `json:"source"`
	CollectedAt  string   `json:"collected_at"`
}

func buildPriceResponse(p *models.MarketPrice) PriceResponse {
	location := p.LocationString
	if p.Location != nil {
		location = p.Location.Name
	}
	return PriceResponse{
		ID:           p.ID,
		MaterialID:   p.MaterialID,
		MaterialName: p.Material.Name,
		Location:     location,
		SellPrice:    p.SellPrice,
		BuyPrice:     p.BuyPrice,
		Source:       p.Source,
		CollectedAt:  p.CollectedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/market/prices
// Latest price per material, newest first.
func ListPricesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var materials []models.Material
		if err := database.DB.Order("name ASC").Find(&materials).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list materials")
		}

		resp := make([]PriceResponse, 0, len(materials))
		for _, mat := range materials {
			var price models.MarketPrice
			err := database.DB.Preload("Material").Preload("Location").
				Where("material_id = ?", mat.ID).
				Order("collected_at DESC").
				First(&price).Error
			if err != nil {
				continue
			}
			resp = append(resp, buildPriceResponse(&price))
		}

		return c.JSON(resp)
	}
}

// GET /api/market/prices/:material_id/history?limit=100
func PriceHistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		materialID, err := strconv.ParseUint(c.Params("material_id"), 10, 32)
		if err != nil || materialID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid material id")
		}

		limit := 100
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > 1000 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 1000")
			}
			limit = n
		}

		var prices []models.MarketPrice
		if err := database.DB.Preload("Material").Preload("Location").
			Where("material_id = ?", materialID).
			Order("collected_at DESC").
			Limit(limit).
			Find(&prices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load price history")
		}

		resp := make([]PriceResponse, 0, len(prices))
		for i := range prices {
			resp = append(resp, buildPriceResponse(&prices[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/market/best-price/:material_id
func BestPriceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		materialID, err := strconv.ParseUint(c.Params("material_id"), 10, 32)
		if err != nil || materialID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid material id")
		}

		best, err := BestSellPrice(database.DB, uint(materialID))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not query best price")
		}

		return c.JSON(fiber.Map{
			"material_id":     materialID,
			"best_sell_price": best, // null when no price is known
		})
	}
}

// POST /api/market/refresh?force=true
// Admin-triggered UEX sweep; normally the scheduler keeps the cache warm.
func RefreshPricesHandler(cfg *config.Config, fetcher PriceFetcher, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		force := c.Query("force") == "true"
		ttl := time.Duration(cfg.PriceCacheTTL) * time.Hour

		updated, err := RefreshPrices(c.Context(), database.DB, fetcher, ttl, force, log)
		if err != nil {
			return apperr.ToFiber(err)
		}

		return c.JSON(fiber.Map{
			"updated": updated,
			"forced":  force,
		})
	}
}
