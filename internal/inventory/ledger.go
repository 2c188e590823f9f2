package inventory

import (
	"errors"
	"fmt"
	"time"

	"sctracker-backend/internal/apperr"
	"sctracker-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Credit adds amount to the (refinery, material, owner) ledger row, creating
// it on first use. Amount must be strictly positive.
func Credit(db *gorm.DB, refineryID, materialID, userID uint, amount decimal.Decimal) (*models.Inventory, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: credit amount must be positive, got %s", apperr.ErrInvalidArgument, amount)
	}

	var row models.Inventory
	err := db.Where("refinery_id = ? AND material_id = ? AND user_id = ?", refineryID, materialID, userID).
		First(&row).Error

	now := time.Now().UTC()

	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.Inventory{
			RefineryID:  refineryID,
			MaterialID:  materialID,
			UserID:      userID,
			Quantity:    amount,
			Unit:        "SCU",
			LastUpdated: now,
		}
		if err := db.Create(&row).Error; err != nil {
			return nil, err
		}
		return &row, nil
	}
	if err != nil {
		return nil, err
	}

	row.Quantity = row.Quantity.Add(amount)
	row.LastUpdated = now
	if err := db.Model(&models.Inventory{}).Where("id = ?", row.ID).
		Updates(map[string]interface{}{"quantity": row.Quantity, "last_updated": now}).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Debit subtracts amount from an existing ledger row. Underflow is a hard
// precondition failure, the row is left untouched.
func Debit(db *gorm.DB, refineryID, materialID, userID uint, amount decimal.Decimal) (*models.Inventory, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: debit amount must be positive, got %s", apperr.ErrInvalidArgument, amount)
	}

	var row models.Inventory
	err := db.Where("refinery_id = ? AND material_id = ? AND user_id = ?", refineryID, materialID, userID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no stock for material %d at refinery %d", apperr.ErrInsufficientStock, materialID, refineryID)
	}
	if err != nil {
		return nil, err
	}

	if row.Quantity.LessThan(amount) {
		return nil, fmt.Errorf("%w: have %s, requested %s", apperr.ErrInsufficientStock, row.Quantity, amount)
	}

	now := time.Now().UTC()
	row.Quantity = row.Quantity.Sub(amount)
	row.LastUpdated = now
	if err := db.Model(&models.Inventory{}).Where("id = ?", row.ID).
		Updates(map[string]interface{}{"quantity": row.Quantity, "last_updated": now}).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// EstimatedValue prices a ledger row with the latest known sell price for the
// material. Unknown price means zero value, never an error: valuation must not
// break the inventory read path.
func EstimatedValue(row *models.Inventory, sellPrice *float64) float64 {
	if sellPrice == nil {
		return 0
	}
	qty, _ := row.Quantity.Float64()
	return qty * *sellPrice
}
