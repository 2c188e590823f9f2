package history_test

import (
	"testing"

	"sctracker-backend/internal/history"
	"sctracker-backend/internal/models"
	"sctracker-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAppendsEvent(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "miner")

	err := history.Record(db, history.EventOptions{
		UserID:      user.ID,
		UserHandle:  user.Handle,
		EntityType:  "refining_job",
		EntityID:    1,
		Action:      models.HistoryActionCollect,
		Description: "Collected job #1",
	})
	require.NoError(t, err)

	var events []models.HistoryEvent
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, models.HistoryActionCollect, events[0].Action)
	assert.Equal(t, "miner", events[0].UserHandle)
}
