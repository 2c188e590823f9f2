package trade

import (
	"errors"
	"fmt"
	"time"

	"sctracker-backend/internal/apperr"
	"sctracker-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SimulationInput struct {
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	BuyPrice  decimal.Decimal `json:"buy_price" validate:"required"`
	SellPrice decimal.Decimal `json:"sell_price" validate:"required"`
}

type SimulationResult struct {
	TotalCost        decimal.Decimal `json:"total_cost"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	Profit           decimal.Decimal `json:"profit"`
	ProfitPercentage decimal.Decimal `json:"profit_percentage"`
}

// Simulate is a pure calculation, nothing is persisted. Margin follows the
// sales convention: zero cost reports 0 instead of dividing by it.
func Simulate(in SimulationInput) (SimulationResult, error) {
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return SimulationResult{}, fmt.Errorf("%w: quantity must be positive", apperr.ErrInvalidArgument)
	}
	if in.BuyPrice.LessThan(decimal.Zero) || in.SellPrice.LessThan(decimal.Zero) {
		return SimulationResult{}, fmt.Errorf("%w: prices cannot be negative", apperr.ErrInvalidArgument)
	}

	res := SimulationResult{
		TotalCost:    in.Quantity.Mul(in.BuyPrice),
		TotalRevenue: in.Quantity.Mul(in.SellPrice),
	}
	res.Profit = res.TotalRevenue.Sub(res.TotalCost)

	if res.TotalCost.GreaterThan(decimal.Zero) {
		res.ProfitPercentage = res.Profit.Div(res.TotalCost).Mul(decimal.NewFromInt(100)).Round(2)
	} else {
		res.ProfitPercentage = decimal.Zero
	}

	return res, nil
}

type StartRunInput struct {
	MaterialID   uint            `json:"material_id" validate:"required"`
	UserID       uint            `json:"-"`
	Quantity     decimal.Decimal `json:"quantity" validate:"required"`
	BuyPrice     decimal.Decimal `json:"buy_price" validate:"required"`
	SellPrice    decimal.Decimal `json:"sell_price"`
	BuyLocation  string          `json:"buy_location" validate:"required,max=100"`
	SellLocation string          `json:"sell_location" validate:"required,max=100"`
}

// StartRun records the buy leg. Revenue and profit are provisional until the
// run is completed with the actual sell price.
func StartRun(db *gorm.DB, in StartRunInput, now time.Time) (*models.TradeRun, error) {
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity must be positive", apperr.ErrInvalidArgument)
	}
	if in.BuyPrice.LessThan(decimal.Zero) || in.SellPrice.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: prices cannot be negative", apperr.ErrInvalidArgument)
	}

	var material models.Material
	if err := db.First(&material, "id = ?", in.MaterialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: material %d", apperr.ErrNotFound, in.MaterialID)
		}
		return nil, err
	}

	run := models.TradeRun{
		UserID:       in.UserID,
		MaterialID:   in.MaterialID,
		Quantity:     in.Quantity,
		BuyPrice:     in.BuyPrice,
		SellPrice:    in.SellPrice,
		BuyLocation:  in.BuyLocation,
		SellLocation: in.SellLocation,
		TotalCost:    in.Quantity.Mul(in.BuyPrice),
		TotalRevenue: in.Quantity.Mul(in.SellPrice),
		StartedAt:    now,
	}
	run.Profit = run.TotalRevenue.Sub(run.TotalCost)

	if err := db.Create(&run).Error; err != nil {
		return nil, err
	}

	return GetRun(db, run.ID)
}

// CompleteRun closes the sell leg and fixes revenue at the realized price.
// Completing an already completed run is rejected.
func CompleteRun(db *gorm.DB, runID uint, sellPrice decimal.Decimal, now time.Time) (*models.TradeRun, error) {
	if sellPrice.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: sell_price cannot be negative", apperr.ErrInvalidArgument)
	}

	run, err := GetRun(db, runID)
	if err != nil {
		return nil, err
	}
	if run.CompletedAt != nil {
		return nil, fmt.Errorf("%w: trade run %d is already completed", apperr.ErrInvalidState, runID)
	}

	revenue := run.Quantity.Mul(sellPrice)
	res := db.Model(&models.TradeRun{}).
		Where("id = ? AND completed_at IS NULL", runID).
		Updates(map[string]interface{}{
			"sell_price":    sellPrice,
			"total_revenue": revenue,
			"profit":        revenue.Sub(run.TotalCost),
			"completed_at":  now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: trade run %d is already completed", apperr.ErrInvalidState, runID)
	}

	return GetRun(db, runID)
}

func GetRun(db *gorm.DB, runID uint) (*models.TradeRun, error) {
	var run models.TradeRun
	err := db.Preload("Material").First(&run, "id = ?", runID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: trade run %d", apperr.ErrNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
