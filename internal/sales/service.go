package sales

import (
	"errors"
	"fmt"
	"time"

	"sctracker-backend/internal/apperr"
	"sctracker-backend/internal/inventory"
	"sctracker-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecordSaleInput struct {
	MaterialID       uint            `json:"material_id" validate:"required"`
	RefinerySourceID uint            `json:"refinery_source_id" validate:"required"`
	UserID           uint            `json:"-"`
	QuantitySold     decimal.Decimal `json:"quantity_sold" validate:"required"`
	UnitPrice        decimal.Decimal `json:"unit_price" validate:"required"`
	RefiningCost     decimal.Decimal `json:"refining_cost"`
	SaleLocationID   *uint           `json:"sale_location_id"`
	Notes            string          `json:"notes" validate:"max=500"`
}

// Record debits the seller's ledger and writes the sale row in one
// transaction. A failure on either side rolls back both: the ledger and the
// sales book must never disagree.
func Record(db *gorm.DB, in RecordSaleInput, now time.Time) (*models.Sale, error) {
	if in.QuantitySold.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity_sold must be positive", apperr.ErrInvalidArgument)
	}
	if in.UnitPrice.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: unit_price cannot be negative", apperr.ErrInvalidArgument)
	}
	if in.RefiningCost.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: refining_cost cannot be negative", apperr.ErrInvalidArgument)
	}

	var sale models.Sale

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := inventory.Debit(tx, in.RefinerySourceID, in.MaterialID, in.UserID, in.QuantitySold); err != nil {
			return err
		}

		sale = models.Sale{
			UserID:           in.UserID,
			MaterialID:       in.MaterialID,
			QuantitySold:     in.QuantitySold,
			Unit:             "SCU",
			UnitPrice:        in.UnitPrice,
			TotalRevenue:     in.QuantitySold.Mul(in.UnitPrice),
			RefiningCost:     in.RefiningCost,
			SaleLocationID:   in.SaleLocationID,
			RefinerySourceID: &in.RefinerySourceID,
			SaleDate:         now,
			Notes:            in.Notes,
		}
		return tx.Create(&sale).Error
	})
	if err != nil {
		return nil, err
	}

	return GetSale(db, sale.ID)
}

// GetSale loads a sale with its references.
func GetSale(db *gorm.DB, saleID uint) (*models.Sale, error) {
	var sale models.Sale
	err := db.Preload("Material").Preload("SaleLocation").Preload("RefinerySource").
		First(&sale, "id = ?", saleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: sale %d", apperr.ErrNotFound, saleID)
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

type Stats struct {
	TotalSales          int64           `json:"total_sales"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	TotalProfit         decimal.Decimal `json:"total_profit"`
	AvgProfitPercentage decimal.Decimal `json:"avg_profit_percentage"`
}

// ComputeStats aggregates the sales book, optionally bounded by dates.
func ComputeStats(db *gorm.DB, from, to *time.Time) (Stats, error) {
	q := db.Model(&models.Sale{})
	if from != nil {
		q = q.Where("sale_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("sale_date <= ?", *to)
	}

	var sales []models.Sale
	if err := q.Find(&sales).Error; err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalRevenue: decimal.Zero,
		TotalCost:    decimal.Zero,
		TotalProfit:  decimal.Zero,
	}
	stats.TotalSales = int64(len(sales))

	for _, s := range sales {
		stats.TotalRevenue = stats.TotalRevenue.Add(s.TotalRevenue)
		stats.TotalCost = stats.TotalCost.Add(s.RefiningCost)
	}
	stats.TotalProfit = stats.TotalRevenue.Sub(stats.TotalCost)

	if stats.TotalCost.GreaterThan(decimal.Zero) {
		stats.AvgProfitPercentage = stats.TotalProfit.Div(stats.TotalCost).Mul(decimal.NewFromInt(100)).Round(2)
	} else {
		stats.AvgProfitPercentage = decimal.Zero
	}

	return stats, nil
}
