package market

import (
	"context"
	"errors"
	"time"

	"sctracker-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LatestSellPrice returns the newest known sell price for a material from any
// source, or nil when no price exists.
func LatestSellPrice(db *gorm.DB, materialID uint) (*float64, error) {
	var price models.MarketPrice
	err := db.Where("material_id = ? AND sell_price IS NOT NULL", materialID).
		Order("collected_at DESC").
		First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return price.SellPrice, nil
}

// LatestUEXSellPrice is the dashboard variant: UEX rows only, so estimates
// stay on one consistent source.
func LatestUEXSellPrice(db *gorm.DB, materialID uint) (*float64, error) {
	var price models.MarketPrice
	err := db.Where("material_id = ? AND source = ? AND sell_price IS NOT NULL", materialID, models.PriceSourceUEX).
		Order("collected_at DESC").
		First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return price.SellPrice, nil
}

// BestSellPrice returns the highest sell price on record for a material.
func BestSellPrice(db *gorm.DB, materialID uint) (*float64, error) {
	var price models.MarketPrice
	err := db.Where("material_id = ? AND sell_price IS NOT NULL", materialID).
		Order("sell_price DESC").
		First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return price.SellPrice, nil
}

// CacheIsFresh reports whether a UEX price newer than the TTL exists.
func CacheIsFresh(db *gorm.DB, ttl time.Duration, now time.Time) (bool, error) {
	var latest models.MarketPrice
	err := db.Where("source = ?", models.PriceSourceUEX).
		Order("collected_at DESC").
		First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !latest.CollectedAt.Before(now.Add(-ttl)), nil
}

// RefreshPrices pulls current UEX prices for every tradeable material and
// appends one MarketPrice row per material (best sell across terminals,
// lowest buy). Guarded by the TTL unless force is set; a stale cache is the
// only thing that triggers network traffic. Per-material fetch failures are
// logged and skipped so one flaky commodity does not lose the whole sweep.
// Returns how many materials got a fresh price.
func RefreshPrices(ctx context.Context, db *gorm.DB, fetcher PriceFetcher, ttl time.Duration, force bool, log *zap.Logger) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}

	now := time.Now().UTC()

	if !force {
		fresh, err := CacheIsFresh(db, ttl, now)
		if err != nil {
			return 0, err
		}
		if fresh {
			return 0, nil
		}
	}

	var materials []models.Material
	if err := db.Where("is_mineable = ? OR is_salvage = ? OR is_trade_good = ?", true, true, true).
		Find(&materials).Error; err != nil {
		return 0, err
	}

	updated := 0
	for _, mat := range materials {
		rows, err := fetcher.FetchCommodityPrices(ctx, mat.Name)
		if err != nil {
			log.Warn("uex fetch failed", zap.String("material", mat.Name), zap.Error(err))
			continue
		}

		var bestSell, lowestBuy *float64
		for _, row := range rows {
			if row.PriceSell != nil && *row.PriceSell > 0 {
				if bestSell == nil || *row.PriceSell > *bestSell {
					v := *row.PriceSell
					bestSell = &v
				}
			}
			if row.PriceBuy != nil && *row.PriceBuy > 0 {
				if lowestBuy == nil || *row.PriceBuy < *lowestBuy {
					v := *row.PriceBuy
					lowestBuy = &v
				}
			}
		}

		if bestSell == nil && lowestBuy == nil {
			continue
		}

		price := models.MarketPrice{
			MaterialID:     mat.ID,
			LocationString: models.UEXEstimatedLocation,
			SellPrice:      bestSell,
			BuyPrice:       lowestBuy,
			Source:         models.PriceSourceUEX,
			CollectedAt:    now,
		}
		if err := db.Create(&price).Error; err != nil {
			return updated, err
		}
		updated++
	}

	return updated, nil
}
