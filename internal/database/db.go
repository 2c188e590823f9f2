package database

import (
	"log"

	"sctracker-backend/internal/config"
	"sctracker-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("database connected, migrations done")
}

// Migrate is shared with the seed command and the sqlite test helper.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Material{},
		&models.Refinery{},
		&models.Location{},
		&models.RefiningJob{},
		&models.RefiningJobMaterial{},
		&models.Inventory{},
		&models.Sale{},
		&models.MarketPrice{},
		&models.TradeRun{},
		&models.HistoryEvent{},
	)
}
