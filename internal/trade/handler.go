package trade

import (
	"strconv"
	"time"

	"sctracker-backend/internal/apperr"
	"sctracker-backend/internal/auth"
	"sctracker-backend/internal/database"
	"sctracker-backend/internal/models"
	"sctracker-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type RunResponse struct {
	ID               uint   `json:"id"`
	UserID           uint   `json:"user_id"`
	MaterialID       uint   `json:"material_id"`
	MaterialName     string `json:"material_name"`
	Quantity         string `json:"quantity"`
	BuyPrice         string `json:"buy_price"`
	SellPrice        string `json:"sell_price"`
	BuyLocation      string `json:"buy_location"`
	SellLocation     string `json:"sell_location"`
	TotalCost        string `json:"total_cost"`
	TotalRevenue     string `json:"total_revenue"`
	Profit           string `json:"profit"`
	ProfitPercentage string `json:"profit_percentage"`
	StartedAt        string `json:"started_at"`
	CompletedAt      string `json:"completed_at,omitempty"`
}

func buildRunResponse(run *models.TradeRun) RunResponse {
	pct := decimal.Zero
	if run.TotalCost.GreaterThan(decimal.Zero) {
		pct = run.Profit.Div(run.TotalCost).Mul(decimal.NewFromInt(100)).Round(2)
	}

	resp := RunResponse{
		ID:               run.ID,
		UserID:           run.UserID,
		MaterialID:       run.MaterialID,
		MaterialName:     run.Material.Name,
		Quantity:         run.Quantity.StringFixed(2),
		BuyPrice:         run.BuyPrice.StringFixed(2),
		SellPrice:        run.SellPrice.StringFixed(2),
		BuyLocation:      run.BuyLocation,
		SellLocation:     run.SellLocation,
		TotalCost:        run.TotalCost.StringFixed(2),
		TotalRevenue:     run.TotalRevenue.StringFixed(2),
		Profit:           run.Profit.StringFixed(2),
		ProfitPercentage: pct.StringFixed(2),
		StartedAt:        run.StartedAt.Format("2006-01-02 15:04:05"),
	}
	if run.CompletedAt != nil {
		resp.CompletedAt = run.CompletedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

// POST /api/trade-runs/simulate
func SimulateRunHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SimulationInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := Simulate(body)
		if err != nil {
			return apperr.ToFiber(err)
		}

		return c.JSON(fiber.Map{
			"total_cost":        res.TotalCost.StringFixed(2),
			"total_revenue":     res.TotalRevenue.StringFixed(2),
			"profit":            res.Profit.StringFixed(2),
			"profit_percentage": res.ProfitPercentage.StringFixed(2),
		})
	}
}

// POST /api/trade-runs
func CreateRunHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body StartRunInput
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

		run, err := StartRun(database.DB, body, time.Now().UTC())
		if err != nil {
			return apperr.ToFiber(err)
		}

		return c.Status(fiber.StatusCreated).JSON(buildRunResponse(run))
	}
}

// GET /api/trade-runs?material_id=1&open_only=true
func ListRunsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Material")

		if mid := c.Query("material_id"); mid != "" {
			q = q.Where("material_id = ?", mid)
		}
		if c.Query("open_only") == "true" {
			q = q.Where("completed_at IS NULL")
		}

		var runs []models.TradeRun
		if err := q.Order("started_at DESC").Find(&runs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list trade runs")
		}

		resp := make([]RunResponse, 0, len(runs))
		for i := range runs {
			resp = append(resp, buildRunResponse(&runs[i]))
		}
		return c.JSON(resp)
	}
}

// POST /api/trade-runs/:id/complete
func CompleteRunHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		runID, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil || runID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid trade run id")
		}

		var body struct {
			SellPrice decimal.Decimal `json:"sell_price" validate:"required"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		run, err := CompleteRun(database.DB, uint(runID), body.SellPrice, time.Now().UTC())
		if err != nil {
			return apperr.ToFiber(err)
		}

		return c.JSON(buildRunResponse(run))
	}
}
