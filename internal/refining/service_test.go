package refining_test

import (
	"testing"
	"time"

	"sctracker-backend/internal/apperr"
	"sctracker-backend/internal/models"
	"sctracker-backend/internal/refining"
	"sctracker-backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func startJob(t *testing.T, db *gorm.DB, refineryID, userID, materialID uint, rawQty int64, minutes int, now time.Time) *models.RefiningJob {
	t.Helper()
	job, err := refining.Start(db, refining.StartJobInput{
		RefineryID:     refineryID,
		UserID:         userID,
		ProcessingTime: minutes,
		Materials: []refining.JobMaterialInput{
			{MaterialID: materialID, QuantityRefined: decimal.NewFromInt(rawQty)},
		},
	}, now)
	require.NoError(t, err)
	return job
}

func TestStartSetsEndTimeFromProcessingMinutes(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "miner")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")
	material := testutil.CreateMaterial(t, db, "Quantainium", nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	job := startJob(t, db, refinery.ID, user.ID, material.ID, 1000, 90, now)

	assert.Equal(t, models.JobStatusProcessing, job.Status)
	assert.Equal(t, now.Add(90*time.Minute), job.EndTime.UTC())
	require.Len(t, job.Materials, 1)
	assert.Equal(t, "1000.00", job.Materials[0].QuantityRefined.StringFixed(2))
}

func TestStartUnknownRefinery(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "miner")
	material := testutil.CreateMaterial(t, db, "Gold", nil)

	_, err := refining.Start(db, refining.StartJobInput{
		RefineryID: 999,
		UserID:     user.ID,
		Materials: []refining.JobMaterialInput{
			{MaterialID: material.ID, QuantityRefined: decimal.NewFromInt(100)},
		},
	}, time.Now().UTC())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestFinalizeBeforeAndAfterEndTime(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "miner")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")
	material := testutil.CreateMaterial(t, db, "Bexalite", nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	job := startJob(t, db, refinery.ID, user.ID, material.ID, 500, 60, now)

	// before end time: no-op
	flipped, err := refining.CheckAndFinalize(db, job, now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.False(t, flipped)
	assert.Equal(t, models.JobStatusProcessing, job.Status)

	// after end time: processing -> ready
	flipped, err = refining.CheckAndFinalize(db, job, now.Add(61*time.Minute))
	require.NoError(t, err)
	assert.True(t, flipped)
	assert.Equal(t, models.JobStatusReady, job.Status)

	// second pass is idempotent
	reloaded, err := refining.GetJob(db, job.ID)
	require.NoError(t, err)
	flipped, err = refining.CheckAndFinalize(db, reloaded, now.Add(62*time.Minute))
	require.NoError(t, err)
	assert.False(t, flipped)
}

func TestFinalizeDueJobsSweep(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "miner")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")
	material := testutil.CreateMaterial(t, db, "Taranite", nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	due := startJob(t, db, refinery.ID, user.ID, material.ID, 100, 10, now)
	pending := startJob(t, db, refinery.ID, user.ID, material.ID, 100, 120, now)

	count, err := refining.FinalizeDueJobs(db, now.Add(15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	reloaded, err := refining.GetJob(db, due.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusReady, reloaded.Status)

	reloaded, err = refining.GetJob(db, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusProcessing, reloaded.Status)
}

func TestCollectCreditsHundredthOfRawQuantity(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "miner")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")
	material := testutil.CreateMaterial(t, db, "Quantainium", nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	job := startJob(t, db, refinery.ID, user.ID, material.ID, 1550, 30, now)

	_, err := refining.FinalizeDueJobs(db, now.Add(time.Hour))
	require.NoError(t, err)

	collected, err := refining.Collect(db, job.ID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCollected, collected.Status)
	require.NotNil(t, collected.CollectedAt)

	var row models.Inventory
	require.NoError(t, db.Where("refinery_id = ? AND material_id = ? AND user_id = ?",
		refinery.ID, material.ID, user.ID).First(&row).Error)
	assert.Equal(t, "15.50", row.Quantity.StringFixed(2))
}

func TestCollectWhileStillProcessing(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "miner")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")
	material := testutil.CreateMaterial(t, db, "Gold", nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	job := startJob(t, db, refinery.ID, user.ID, material.ID, 200, 240, now)

	// owner stands at the terminal early, collect is allowed anyway
	collected, err := refining.Collect(db, job.ID, now.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCollected, collected.Status)
}

func TestCollectTwiceIsInvalidStateAndInventoryUnchanged(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "miner")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")
	material := testutil.CreateMaterial(t, db, "Bexalite", nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	job := startJob(t, db, refinery.ID, user.ID, material.ID, 800, 0, now)

	_, err := refining.Collect(db, job.ID, now)
	require.NoError(t, err)

	_, err = refining.Collect(db, job.ID, now.Add(time.Minute))
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	var row models.Inventory
	require.NoError(t, db.Where("refinery_id = ? AND material_id = ? AND user_id = ?",
		refinery.ID, material.ID, user.ID).First(&row).Error)
	assert.Equal(t, "8.00", row.Quantity.StringFixed(2))
}

func TestCancelAndDoubleCancel(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "miner")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")
	material := testutil.CreateMaterial(t, db, "Taranite", nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	job := startJob(t, db, refinery.ID, user.ID, material.ID, 100, 60, now)

	cancelled, err := refining.Cancel(db, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCancelled, cancelled.Status)

	_, err = refining.Cancel(db, job.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	// cancelled job cannot be collected
	_, err = refining.Collect(db, job.ID, now.Add(2*time.Hour))
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	// nothing reached the ledger
	var count int64
	require.NoError(t, db.Model(&models.Inventory{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCancelCollectedJob(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "miner")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")
	material := testutil.CreateMaterial(t, db, "Laranite", nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	job := startJob(t, db, refinery.ID, user.ID, material.ID, 100, 0, now)

	_, err := refining.Collect(db, job.ID, now)
	require.NoError(t, err)

	_, err = refining.Cancel(db, job.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestZeroDurationJobFullLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "miner")
	refinery := testutil.CreateRefinery(t, db, "ARC-L1")
	material := testutil.CreateMaterial(t, db, "Quantainium", nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	job := startJob(t, db, refinery.ID, user.ID, material.ID, 100, 0, now)
	assert.Equal(t, job.StartTime, job.EndTime)

	// immediately due
	count, err := refining.FinalizeDueJobs(db, now)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	collected, err := refining.Collect(db, job.ID, now)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCollected, collected.Status)

	var row models.Inventory
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&row).Error)
	assert.Equal(t, "1.00", row.Quantity.StringFixed(2))
}
