package sales

import (
	"fmt"
	"time"

	"sctracker-backend/internal/apperr"
	"sctracker-backend/internal/auth"
	"sctracker-backend/internal/database"
	"sctracker-backend/internal/history"
	"sctracker-backend/internal/models"
	"sctracker-backend/internal/validate"
	"sctracker-backend/internal/ws"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SaleResponse struct {
	ID                 uint    `json:"id"`
	MaterialID         uint    `json:"material_id"`
	MaterialName       string  `json:"material_name"`
	UserID             uint    `json:"user_id"`
	QuantitySold       string  `json:"quantity_sold"`
	Unit               string  `json:"unit"`
	UnitPrice          string  `json:"unit_price"`
	TotalRevenue       string  `json:"total_revenue"`
	RefiningCost       string  `json:"refining_cost"`
	Profit             string  `json:"profit"`
	ProfitPercentage   string  `json:"profit_percentage"`
	SaleLocationID     *uint   `json:"sale_location_id"`
	SaleLocationName   *string `json:"sale_location_name"`
	RefinerySourceID   *uint   `json:"refinery_source_id"`
	RefinerySourceName *string `json:"refinery_source_name"`
	SaleDate           string  `json:"sale_date"`
	Notes              string  `json:"notes"`
}

func buildSaleResponse(s *models.Sale) SaleResponse {
	resp := SaleResponse{
		ID:               s.ID,
		MaterialID:       s.MaterialID,
		MaterialName:     s.Material.Name,
		UserID:           s.UserID,
		QuantitySold:     s.QuantitySold.StringFixed(2),
		Unit:             s.Unit,
		UnitPrice:        s.UnitPrice.StringFixed(2),
		TotalRevenue:     s.TotalRevenue.StringFixed(2),
		RefiningCost:     s.RefiningCost.StringFixed(2),
		Profit:           s.Profit().StringFixed(2),
		ProfitPercentage: s.ProfitPercentage().StringFixed(2),
		SaleLocationID:   s.SaleLocationID,
		RefinerySourceID: s.RefinerySourceID,
		SaleDate:         s.SaleDate.Format("2006-01-02 15:04:05"),
		Notes:            s.Notes,
	}
	if s.SaleLocation != nil {
		resp.SaleLocationName = &s.SaleLocation.Name
	}
	if s.RefinerySource != nil {
		resp.RefinerySourceName = &s.RefinerySource.Name
	}
	return resp
}

// POST /api/sales
func CreateSaleHandler(hub *ws.Hub, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RecordSaleInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		body.UserID = userID

		sale, err := Record(database.DB, body, time.Now().UTC())
		if err != nil {
			return apperr.ToFiber(err)
		}

		if err := history.Record(database.DB, history.EventOptions{
			UserID:      userID,
			UserHandle:  auth.CurrentUserHandle(c),
			EntityType:  "sale",
			EntityID:    sale.ID,
			Action:      models.HistoryActionSale,
			Description: fmt.Sprintf("Sold %s SCU of %s for %s aUEC", sale.QuantitySold.StringFixed(2), sale.Material.Name, sale.TotalRevenue.StringFixed(2)),
		}); err != nil {
			log.Warn("history record failed", zap.Error(err))
		}

		hub.NotifyDashboardChanged("sale_recorded")

		return c.Status(fiber.StatusCreated).JSON(buildSaleResponse(sale))
	}
}

// GET /api/sales?material_id=1&start_date=2026-01-01&end_date=2026-02-01&limit=100
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Material").Preload("SaleLocation").Preload("RefinerySource")

		if mid := c.Query("material_id"); mid != "" {
			q = q.Where("material_id = ?", mid)
		}
		if sd := c.Query("start_date"); sd != "" {
			d, err := time.Parse("2006-01-02", sd)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start_date must be 'YYYY-MM-DD'")
			}
			q = q.Where("sale_date >= ?", d)
		}
		if ed := c.Query("end_date"); ed != "" {
			d, err := time.Parse("2006-01-02", ed)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "end_date must be 'YYYY-MM-DD'")
			}
			q = q.Where("sale_date <= ?", d.AddDate(0, 0, 1))
		}

		limit := c.QueryInt("limit", 100)
		if limit <= 0 || limit > 1000 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 1000")
		}

		var sales []models.Sale
		if err := q.Order("sale_date DESC").Limit(limit).Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}

		resp := make([]SaleResponse, 0, len(sales))
		for i := range sales {
			resp = append(resp, buildSaleResponse(&sales[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/sales/stats?start_date=...&end_date=...
func SalesStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var from, to *time.Time
		if sd := c.Query("start_date"); sd != "" {
			d, err := time.Parse("2006-01-02", sd)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start_date must be 'YYYY-MM-DD'")
			}
			from = &d
		}
		if ed := c.Query("end_date"); ed != "" {
			d, err := time.Parse("2006-01-02", ed)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "end_date must be 'YYYY-MM-DD'")
			}
			d = d.AddDate(0, 0, 1)
			to = &d
		}

		stats, err := ComputeStats(database.DB, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute sales stats")
		}

		return c.JSON(fiber.Map{
			"total_sales":           stats.TotalSales,
			"total_revenue":         stats.TotalRevenue.StringFixed(2),
			"total_cost":            stats.TotalCost.StringFixed(2),
			"total_profit":          stats.TotalProfit.StringFixed(2),
			"avg_profit_percentage": stats.AvgProfitPercentage.StringFixed(2),
		})
	}
}
