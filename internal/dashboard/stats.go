package dashboard

import (
	"time"

	"sctracker-backend/internal/market"
	"sctracker-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecentCollection struct {
	JobID       uint   `json:"job_id"`
	RefineryID  uint   `json:"refinery_id"`
	Refinery    string `json:"refinery"`
	JobType     string `json:"job_type"`
	Materials   string `json:"materials"`
	TotalSCU    string `json:"total_scu"`
	CollectedAt string `json:"collected_at"`
}

type Snapshot struct {
	TotalStockSCU       string             `json:"total_stock_scu"`
	EstimatedStockValue string             `json:"estimated_stock_value"`
	ProcessingJobs      int64              `json:"processing_jobs"`
	RecentCollections   []RecentCollection `json:"recent_collections"`
	GeneratedAt         string             `json:"generated_at"`
}

// Stats assembles the dashboard snapshot inside one transaction so the stock
// total and the per-row valuation are read from the same state.
func Stats(db *gorm.DB, now time.Time) (*Snapshot, error) {
	snap := &Snapshot{
		RecentCollections: []RecentCollection{},
		GeneratedAt:       now.Format("2006-01-02 15:04:05"),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var rows []models.Inventory
		if err := tx.Preload("Material").Where("quantity > 0").Find(&rows).Error; err != nil {
			return err
		}

		totalStock := decimal.Zero
		totalValue := decimal.Zero
		// one price lookup per material, not per inventory row
		priceByMaterial := make(map[uint]*float64)

		for i := range rows {
			row := &rows[i]
			totalStock = totalStock.Add(row.Quantity)

			price, seen := priceByMaterial[row.MaterialID]
			if !seen {
				p, err := market.LatestUEXSellPrice(tx, row.MaterialID)
				if err != nil || p == nil {
					p = row.Material.SellPrice
				}
				price = p
				priceByMaterial[row.MaterialID] = price
			}
			if price != nil {
				totalValue = totalValue.Add(row.Quantity.Mul(decimal.NewFromFloat(*price)))
			}
		}

		snap.TotalStockSCU = totalStock.StringFixed(2)
		snap.EstimatedStockValue = totalValue.StringFixed(2)

		if err := tx.Model(&models.RefiningJob{}).
			Where("status = ?", models.JobStatusProcessing).
			Count(&snap.ProcessingJobs).Error; err != nil {
			return err
		}

		cutoff := now.AddDate(0, 0, -7)
		var jobs []models.RefiningJob
		if err := tx.Preload("Refinery").Preload("Materials.Material").
			Where("status = ? AND collected_at >= ?", models.JobStatusCollected, cutoff).
			Order("collected_at DESC").
			Limit(5).
			Find(&jobs).Error; err != nil {
			return err
		}

		for i := range jobs {
			job := &jobs[i]
			names := ""
			totalSCU := decimal.Zero
			for j, item := range job.Materials {
				if j > 0 {
					names += ", "
				}
				names += item.Material.Name
				totalSCU = totalSCU.Add(item.QuantityRefined.Div(decimal.NewFromInt(100)))
			}
			collectedAt := ""
			if job.CollectedAt != nil {
				collectedAt = job.CollectedAt.Format("2006-01-02 15:04:05")
			}
			snap.RecentCollections = append(snap.RecentCollections, RecentCollection{
				JobID:       job.ID,
				RefineryID:  job.RefineryID,
				Refinery:    job.Refinery.Name,
				JobType:     string(job.JobType),
				Materials:   names,
				TotalSCU:    totalSCU.StringFixed(2),
				CollectedAt: collectedAt,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return snap, nil
}
