package sales_test

import (
	"testing"
	"time"

	"sctracker-backend/internal/apperr"
	"sctracker-backend/internal/inventory"
	"sctracker-backend/internal/models"
	"sctracker-backend/internal/sales"
	"sctracker-backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDebitsLedgerAndComputesProfit(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "trader")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")
	material := testutil.CreateMaterial(t, db, "Quantainium", nil)

	_, err := inventory.Credit(db, refinery.ID, material.ID, user.ID, decimal.NewFromInt(100))
	require.NoError(t, err)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	sale, err := sales.Record(db, sales.RecordSaleInput{
		MaterialID:       material.ID,
		RefinerySourceID: refinery.ID,
		UserID:           user.ID,
		QuantitySold:     decimal.NewFromInt(50),
		UnitPrice:        decimal.NewFromInt(10),
		RefiningCost:     decimal.NewFromInt(200),
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "500.00", sale.TotalRevenue.StringFixed(2))
	assert.Equal(t, "300.00", sale.Profit().StringFixed(2))
	assert.Equal(t, "150.00", sale.ProfitPercentage().StringFixed(2))

	var row models.Inventory
	require.NoError(t, db.Where("refinery_id = ? AND material_id = ? AND user_id = ?",
		refinery.ID, material.ID, user.ID).First(&row).Error)
	assert.Equal(t, "50.00", row.Quantity.StringFixed(2))
}

func TestRecordZeroCostReportsZeroMargin(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "trader")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")
	material := testutil.CreateMaterial(t, db, "RMC", nil)

	_, err := inventory.Credit(db, refinery.ID, material.ID, user.ID, decimal.NewFromInt(1))
	require.NoError(t, err)

	sale, err := sales.Record(db, sales.RecordSaleInput{
		MaterialID:       material.ID,
		RefinerySourceID: refinery.ID,
		UserID:           user.ID,
		QuantitySold:     decimal.NewFromInt(1),
		UnitPrice:        decimal.NewFromInt(50),
	}, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, "50.00", sale.Profit().StringFixed(2))
	assert.True(t, sale.ProfitPercentage().IsZero())
}

func TestRecordInsufficientStockRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "trader")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")
	material := testutil.CreateMaterial(t, db, "Gold", nil)

	_, err := inventory.Credit(db, refinery.ID, material.ID, user.ID, decimal.NewFromInt(10))
	require.NoError(t, err)

	_, err = sales.Record(db, sales.RecordSaleInput{
		MaterialID:       material.ID,
		RefinerySourceID: refinery.ID,
		UserID:           user.ID,
		QuantitySold:     decimal.NewFromInt(11),
		UnitPrice:        decimal.NewFromInt(5),
	}, time.Now().UTC())
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	// no sale row, ledger untouched
	var saleCount int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&saleCount).Error)
	assert.EqualValues(t, 0, saleCount)

	var row models.Inventory
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&row).Error)
	assert.Equal(t, "10.00", row.Quantity.StringFixed(2))
}

func TestRecordRejectsBadInput(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "trader")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")
	material := testutil.CreateMaterial(t, db, "Titanium", nil)

	base := sales.RecordSaleInput{
		MaterialID:       material.ID,
		RefinerySourceID: refinery.ID,
		UserID:           user.ID,
		QuantitySold:     decimal.NewFromInt(1),
		UnitPrice:        decimal.NewFromInt(1),
	}

	in := base
	in.QuantitySold = decimal.Zero
	_, err := sales.Record(db, in, time.Now().UTC())
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	in = base
	in.UnitPrice = decimal.NewFromInt(-1)
	_, err = sales.Record(db, in, time.Now().UTC())
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	in = base
	in.RefiningCost = decimal.NewFromInt(-1)
	_, err = sales.Record(db, in, time.Now().UTC())
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestComputeStats(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "trader")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")
	material := testutil.CreateMaterial(t, db, "Bexalite", nil)

	_, err := inventory.Credit(db, refinery.ID, material.ID, user.ID, decimal.NewFromInt(100))
	require.NoError(t, err)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	_, err = sales.Record(db, sales.RecordSaleInput{
		MaterialID:       material.ID,
		RefinerySourceID: refinery.ID,
		UserID:           user.ID,
		QuantitySold:     decimal.NewFromInt(40),
		UnitPrice:        decimal.NewFromInt(10),
		RefiningCost:     decimal.NewFromInt(100),
	}, now)
	require.NoError(t, err)

	_, err = sales.Record(db, sales.RecordSaleInput{
		MaterialID:       material.ID,
		RefinerySourceID: refinery.ID,
		UserID:           user.ID,
		QuantitySold:     decimal.NewFromInt(10),
		UnitPrice:        decimal.NewFromInt(20),
		RefiningCost:     decimal.NewFromInt(100),
	}, now.Add(time.Hour))
	require.NoError(t, err)

	stats, err := sales.ComputeStats(db, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalSales)
	assert.Equal(t, "600.00", stats.TotalRevenue.StringFixed(2))
	assert.Equal(t, "200.00", stats.TotalCost.StringFixed(2))
	assert.Equal(t, "400.00", stats.TotalProfit.StringFixed(2))
	assert.Equal(t, "200.00", stats.AvgProfitPercentage.StringFixed(2))

	// bounded window excludes the second sale
	to := now.Add(30 * time.Minute)
	stats, err = sales.ComputeStats(db, nil, &to)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalSales)
	assert.Equal(t, "400.00", stats.TotalRevenue.StringFixed(2))
}
