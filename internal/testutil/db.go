package testutil

import (
	"path/filepath"
	"testing"

	"sctracker-backend/internal/database"
	"sctracker-backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a throwaway sqlite database with the full schema migrated.
// File-based under t.TempDir so parallel tests never share state.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func CreateUser(t *testing.T, db *gorm.DB, handle string) *models.User {
	t.Helper()
	user := &models.User{
		Handle:       handle,
		Email:        handle + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleMember,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateRefinery(t *testing.T, db *gorm.DB, name string) *models.Refinery {
	t.Helper()
	refinery := &models.Refinery{
		Name:     name,
		System:   "Stanton",
		IsActive: true,
	}
	require.NoError(t, db.Create(refinery).Error)
	return refinery
}

func CreateMaterial(t *testing.T, db *gorm.DB, name string, sellPrice *float64) *models.Material {
	t.Helper()
	material := &models.Material{
		Name:       name,
		Category:   "ore",
		Unit:       "SCU",
		IsMineable: true,
		SellPrice:  sellPrice,
	}
	require.NoError(t, db.Create(material).Error)
	return material
}
