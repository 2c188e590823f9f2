package trade_test

import (
	"testing"
	"time"

	"sctracker-backend/internal/apperr"
	"sctracker-backend/internal/testutil"
	"sctracker-backend/internal/trade"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate(t *testing.T) {
	res, err := trade.Simulate(trade.SimulationInput{
		Quantity:  decimal.NewFromInt(100),
		BuyPrice:  decimal.NewFromInt(20),
		SellPrice: decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	assert.Equal(t, "2000.00", res.TotalCost.StringFixed(2))
	assert.Equal(t, "2500.00", res.TotalRevenue.StringFixed(2))
	assert.Equal(t, "500.00", res.Profit.StringFixed(2))
	assert.Equal(t, "25.00", res.ProfitPercentage.StringFixed(2))
}

func TestSimulateZeroCostMargin(t *testing.T) {
	res, err := trade.Simulate(trade.SimulationInput{
		Quantity:  decimal.NewFromInt(10),
		BuyPrice:  decimal.Zero,
		SellPrice: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	assert.Equal(t, "50.00", res.Profit.StringFixed(2))
	assert.True(t, res.ProfitPercentage.IsZero())
}

func TestSimulateRejectsBadInput(t *testing.T) {
	_, err := trade.Simulate(trade.SimulationInput{
		Quantity: decimal.Zero, BuyPrice: decimal.NewFromInt(1), SellPrice: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = trade.Simulate(trade.SimulationInput{
		Quantity: decimal.NewFromInt(1), BuyPrice: decimal.NewFromInt(-1), SellPrice: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestStartAndCompleteRun(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "hauler")
	material := testutil.CreateMaterial(t, db, "Medical Supplies", nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	run, err := trade.StartRun(db, trade.StartRunInput{
		MaterialID:   material.ID,
		UserID:       user.ID,
		Quantity:     decimal.NewFromInt(50),
		BuyPrice:     decimal.NewFromInt(17),
		SellPrice:    decimal.NewFromInt(19),
		BuyLocation:  "Area 18",
		SellLocation: "New Babbage",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "850.00", run.TotalCost.StringFixed(2))
	assert.Equal(t, "950.00", run.TotalRevenue.StringFixed(2))
	assert.Equal(t, "100.00", run.Profit.StringFixed(2))
	assert.Nil(t, run.CompletedAt)

	// sold above the plan
	done, err := trade.CompleteRun(db, run.ID, decimal.NewFromInt(20), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "1000.00", done.TotalRevenue.StringFixed(2))
	assert.Equal(t, "150.00", done.Profit.StringFixed(2))
	require.NotNil(t, done.CompletedAt)

	// completing twice is rejected
	_, err = trade.CompleteRun(db, run.ID, decimal.NewFromInt(21), now.Add(2*time.Hour))
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestStartRunUnknownMaterial(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "hauler")

	_, err := trade.StartRun(db, trade.StartRunInput{
		MaterialID:   999,
		UserID:       user.ID,
		Quantity:     decimal.NewFromInt(1),
		BuyPrice:     decimal.NewFromInt(1),
		BuyLocation:  "A",
		SellLocation: "B",
	}, time.Now().UTC())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCompleteRunNotFound(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := trade.CompleteRun(db, 42, decimal.NewFromInt(1), time.Now().UTC())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
