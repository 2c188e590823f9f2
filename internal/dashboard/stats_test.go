package dashboard_test

import (
	"testing"
	"time"

	"sctracker-backend/internal/dashboard"
	"sctracker-backend/internal/inventory"
	"sctracker-backend/internal/models"
	"sctracker-backend/internal/refining"
	"sctracker-backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestStatsEmptyDatabase(t *testing.T) {
	db := testutil.NewDB(t)

	snap, err := dashboard.Stats(db, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, "0.00", snap.TotalStockSCU)
	assert.Equal(t, "0.00", snap.EstimatedStockValue)
	assert.EqualValues(t, 0, snap.ProcessingJobs)
	assert.Empty(t, snap.RecentCollections)
}

func TestStatsValuesStockWithUEXPriceAndFallback(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "miner")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")

	// priced via a live UEX row
	quant := testutil.CreateMaterial(t, db, "Quantainium", floatPtr(80.0))
	// no UEX row, falls back to the static reference price
	gold := testutil.CreateMaterial(t, db, "Gold", floatPtr(60.0))
	// no price at all, contributes stock but zero value
	scrap := testutil.CreateMaterial(t, db, "Scrap", nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.MarketPrice{
		MaterialID:     quant.ID,
		LocationString: models.UEXEstimatedLocation,
		SellPrice:      floatPtr(88.0),
		Source:         models.PriceSourceUEX,
		CollectedAt:    now.Add(-time.Hour),
	}).Error)

	_, err := inventory.Credit(db, refinery.ID, quant.ID, user.ID, decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = inventory.Credit(db, refinery.ID, gold.ID, user.ID, decimal.NewFromInt(5))
	require.NoError(t, err)
	_, err = inventory.Credit(db, refinery.ID, scrap.ID, user.ID, decimal.NewFromInt(3))
	require.NoError(t, err)

	snap, err := dashboard.Stats(db, now)
	require.NoError(t, err)

	assert.Equal(t, "18.00", snap.TotalStockSCU)
	// 10 * 88 (UEX) + 5 * 60 (fallback) + 3 * 0
	assert.Equal(t, "1180.00", snap.EstimatedStockValue)
}

func TestStatsCountsProcessingAndRecentCollections(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "miner")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")
	material := testutil.CreateMaterial(t, db, "Bexalite", nil)

	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	// one still processing
	_, err := refining.Start(db, refining.StartJobInput{
		RefineryID:     refinery.ID,
		UserID:         user.ID,
		ProcessingTime: 120,
		Materials: []refining.JobMaterialInput{
			{MaterialID: material.ID, QuantityRefined: decimal.NewFromInt(100)},
		},
	}, now)
	require.NoError(t, err)

	// one collected inside the 7-day window
	recent, err := refining.Start(db, refining.StartJobInput{
		RefineryID:     refinery.ID,
		UserID:         user.ID,
		ProcessingTime: 0,
		Materials: []refining.JobMaterialInput{
			{MaterialID: material.ID, QuantityRefined: decimal.NewFromInt(250)},
		},
	}, now.AddDate(0, 0, -2))
	require.NoError(t, err)
	_, err = refining.Collect(db, recent.ID, now.AddDate(0, 0, -2))
	require.NoError(t, err)

	// one collected outside the window
	old, err := refining.Start(db, refining.StartJobInput{
		RefineryID:     refinery.ID,
		UserID:         user.ID,
		ProcessingTime: 0,
		Materials: []refining.JobMaterialInput{
			{MaterialID: material.ID, QuantityRefined: decimal.NewFromInt(100)},
		},
	}, now.AddDate(0, 0, -10))
	require.NoError(t, err)
	_, err = refining.Collect(db, old.ID, now.AddDate(0, 0, -10))
	require.NoError(t, err)

	snap, err := dashboard.Stats(db, now)
	require.NoError(t, err)

	assert.EqualValues(t, 1, snap.ProcessingJobs)
	require.Len(t, snap.RecentCollections, 1)
	assert.Equal(t, recent.ID, snap.RecentCollections[0].JobID)
	assert.Equal(t, "Bexalite", snap.RecentCollections[0].Materials)
	assert.Equal(t, "2.50", snap.RecentCollections[0].TotalSCU)
}
