package main

import (
	"log"
	"os"

	"sctracker-backend/internal/config"
	"sctracker-backend/internal/database"
	"sctracker-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func floatPtr(v float64) *float64 { return &v }

// Seeds the reference tables and a bootstrap admin. Safe to run repeatedly:
// existing rows are matched by name and left alone.
func main() {
	cfg := config.Load()
	database.Init(cfg)

	materials := []models.Material{
		{Name: "Quantainium", Category: "ore", Unit: "SCU", IsMineable: true, BuyPrice: floatPtr(80.00), SellPrice: floatPtr(88.00)},
		{Name: "Bexalite", Category: "ore", Unit: "SCU", IsMineable: true, BuyPrice: floatPtr(40.00), SellPrice: floatPtr(44.00)},
		{Name: "Taranite", Category: "ore", Unit: "SCU", IsMineable: true, BuyPrice: floatPtr(32.00), SellPrice: floatPtr(35.00)},
		{Name: "Laranite", Category: "ore", Unit: "SCU", IsMineable: true, BuyPrice: floatPtr(28.00), SellPrice: floatPtr(31.00)},
		{Name: "Agricium", Category: "metal", Unit: "SCU", IsMineable: true, BuyPrice: floatPtr(25.00), SellPrice: floatPtr(27.50)},
		{Name: "Gold", Category: "metal", Unit: "SCU", IsMineable: true, BuyPrice: floatPtr(58.00), SellPrice: floatPtr(64.00)},
		{Name: "Titanium", Category: "metal", Unit: "SCU", IsMineable: true, BuyPrice: floatPtr(8.00), SellPrice: floatPtr(8.80)},
		{Name: "Aluminum", Category: "metal", Unit: "SCU", IsMineable: true, BuyPrice: floatPtr(1.10), SellPrice: floatPtr(1.30)},
		{Name: "RMC", Category: "salvage", Unit: "SCU", IsSalvage: true, SellPrice: floatPtr(128.00)},
		{Name: "Construction Materials", Category: "salvage", Unit: "SCU", IsSalvage: true, SellPrice: floatPtr(22.00)},
		{Name: "Laranite Raw", Category: "ore", Unit: "cSCU", IsMineable: true},
		{Name: "Medical Supplies", Category: "trade", Unit: "SCU", IsTradeGood: true, BuyPrice: floatPtr(17.50), SellPrice: floatPtr(19.50)},
	}
	for _, m := range materials {
		var exist models.Material
		if err := database.DB.Where("name = ?", m.Name).First(&exist).Error; err == nil {
			continue
		}
		if err := database.DB.Create(&m).Error; err != nil {
			log.Fatalf("seed material %q: %v", m.Name, err)
		}
	}

	refineries := []models.Refinery{
		{Name: "ARC-L1 Wide Forest Station", System: "Stanton", Location: "ARC-L1", IsActive: true},
		{Name: "ARC-L2 Lively Pathway Station", System: "Stanton", Location: "ARC-L2", IsActive: true},
		{Name: "CRU-L1 Ambitious Dream Station", System: "Stanton", Location: "CRU-L1", IsActive: true},
		{Name: "HUR-L1 Green Glade Station", System: "Stanton", Location: "HUR-L1", IsActive: true},
		{Name: "HUR-L2 Faithful Dream Station", System: "Stanton", Location: "HUR-L2", IsActive: true},
		{Name: "MIC-L1 Shallow Frontier Station", System: "Stanton", Location: "MIC-L1", IsActive: true},
		{Name: "MIC-L2 Long Forest Station", System: "Stanton", Location: "MIC-L2", IsActive: true},
		{Name: "Checkmate Station", System: "Pyro", Location: "Pyro IV", IsActive: true},
		{Name: "Ruin Station", System: "Pyro", Location: "Pyro VI", IsActive: true},
	}
	for _, r := range refineries {
		var exist models.Refinery
		if err := database.DB.Where("name = ?", r.Name).First(&exist).Error; err == nil {
			continue
		}
		if err := database.DB.Create(&r).Error; err != nil {
			log.Fatalf("seed refinery %q: %v", r.Name, err)
		}
	}

	locations := []models.Location{
		{Name: "Area 18", Code: "A18", System: "Stanton", Planet: "ArcCorp", LocationType: "city", IsAvailable: true, HasTradeTerminals: true},
		{Name: "Lorville", Code: "LORV", System: "Stanton", Planet: "Hurston", LocationType: "city", IsAvailable: true, HasTradeTerminals: true},
		{Name: "New Babbage", Code: "NBAB", System: "Stanton", Planet: "microTech", LocationType: "city", IsAvailable: true, HasTradeTerminals: true},
		{Name: "Orison", Code: "ORIS", System: "Stanton", Planet: "Crusader", LocationType: "city", IsAvailable: true, HasTradeTerminals: true},
		{Name: "Port Olisar", Code: "OLIS", System: "Stanton", Planet: "Crusader", LocationType: "station", IsAvailable: false, HasTradeTerminals: false},
		{Name: "Everus Harbor", Code: "EVER", System: "Stanton", Planet: "Hurston", LocationType: "station", IsAvailable: true, HasTradeTerminals: true},
		{Name: "Baijini Point", Code: "BAIJ", System: "Stanton", Planet: "ArcCorp", LocationType: "station", IsAvailable: true, HasTradeTerminals: true},
		{Name: "CRU-L5 Beautiful Glen Station", Code: "CRUL5", System: "Stanton", LocationType: "rest_stop", IsAvailable: true, HasTradeTerminals: true},
	}
	for _, l := range locations {
		var exist models.Location
		if err := database.DB.Where("name = ?", l.Name).First(&exist).Error; err == nil {
			continue
		}
		if err := database.DB.Create(&l).Error; err != nil {
			log.Fatalf("seed location %q: %v", l.Name, err)
		}
	}

	// bootstrap admin, only when no admin exists
	var adminCount int64
	database.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount)
	if adminCount == 0 {
		password := os.Getenv("SEED_ADMIN_PASSWORD")
		if password == "" {
			log.Println("SEED_ADMIN_PASSWORD not set, skipping admin user")
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				log.Fatalf("hash admin password: %v", err)
			}
			admin := models.User{
				Handle:       getEnvDefault("SEED_ADMIN_HANDLE", "org-admin"),
				Email:        getEnvDefault("SEED_ADMIN_EMAIL", "admin@example.com"),
				PasswordHash: string(hash),
				Role:         models.RoleAdmin,
				IsActive:     true,
			}
			if err := database.DB.Create(&admin).Error; err != nil {
				log.Fatalf("seed admin user: %v", err)
			}
			log.Printf("admin user %q created", admin.Handle)
		}
	}

	log.Println("seed complete")
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
