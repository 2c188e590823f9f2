package refining

import (
	"errors"
	"fmt"
	"time"

	"sctracker-backend/internal/apperr"
	"sctracker-backend/internal/inventory"
	"sctracker-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Raw refinery output is reported in cSCU; collection converts to SCU.
// Fixed domain constant, not configurable.
var rawPerSCU = decimal.NewFromInt(100)

type JobMaterialInput struct {
	MaterialID      uint            `json:"material_id" validate:"required"`
	QuantityRefined decimal.Decimal `json:"quantity_refined" validate:"required"`
}

type StartJobInput struct {
	RefineryID     uint               `json:"refinery_id" validate:"required"`
	UserID         uint               `json:"-"`
	JobType        models.JobType     `json:"job_type" validate:"omitempty,oneof=mining salvage"`
	TotalCost      decimal.Decimal    `json:"total_cost"`
	ProcessingTime int                `json:"processing_time" validate:"min=0"`
	Materials      []JobMaterialInput `json:"materials" validate:"required,min=1,dive"`
	Notes          string             `json:"notes" validate:"max=500"`
}

// Start creates a job in processing state with one line item per declared
// output material. Nothing is deducted up front: output only materializes on
// collection.
func Start(db *gorm.DB, in StartJobInput, now time.Time) (*models.RefiningJob, error) {
	var refinery models.Refinery
	if err := db.First(&refinery, "id = ?", in.RefineryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: refinery %d", apperr.ErrNotFound, in.RefineryID)
		}
		return nil, err
	}

	for _, m := range in.Materials {
		if m.QuantityRefined.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: material %d quantity must be positive", apperr.ErrInvalidArgument, m.MaterialID)
		}
	}

	jobType := in.JobType
	if jobType == "" {
		jobType = models.JobTypeMining
	}

	job := models.RefiningJob{
		RefineryID:     in.RefineryID,
		UserID:         in.UserID,
		JobType:        jobType,
		TotalCost:      in.TotalCost,
		ProcessingTime: in.ProcessingTime,
		Status:         models.JobStatusProcessing,
		StartTime:      now,
		EndTime:        now.Add(time.Duration(in.ProcessingTime) * time.Minute),
		Notes:          in.Notes,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&job).Error; err != nil {
			return err
		}
		for _, m := range in.Materials {
			item := models.RefiningJobMaterial{
				JobID:           job.ID,
				MaterialID:      m.MaterialID,
				QuantityRefined: m.QuantityRefined,
				Unit:            "SCU",
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetJob(db, job.ID)
}

// GetJob loads a job with its refinery and line items.
func GetJob(db *gorm.DB, jobID uint) (*models.RefiningJob, error) {
	var job models.RefiningJob
	err := db.Preload("Refinery").Preload("Materials.Material").
		First(&job, "id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: refining job %d", apperr.ErrNotFound, jobID)
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// CheckAndFinalize flips a single processing job to ready once its end time
// has passed. Idempotent: the update is guarded by the current status, so
// repeated or concurrent calls produce at most duplicate no-ops.
func CheckAndFinalize(db *gorm.DB, job *models.RefiningJob, now time.Time) (bool, error) {
	if !job.IsDue(now) {
		return false, nil
	}

	res := db.Model(&models.RefiningJob{}).
		Where("id = ? AND status = ?", job.ID, models.JobStatusProcessing).
		Update("status", models.JobStatusReady)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// someone else won the race, nothing to do
		return false, nil
	}
	job.Status = models.JobStatusReady
	return true, nil
}

// FinalizeDueJobs sweeps all processing jobs whose end time has passed.
// Returns how many jobs were flipped to ready.
func FinalizeDueJobs(db *gorm.DB, now time.Time) (int, error) {
	res := db.Model(&models.RefiningJob{}).
		Where("status = ? AND end_time <= ?", models.JobStatusProcessing, now).
		Update("status", models.JobStatusReady)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

// Collect transfers the job's refined output into the inventory ledger and
// marks the job collected. Allowed from ready and, leniently, from processing
// (the owner can stand at the terminal before the sweep has run). The status
// flip and all ledger credits commit in one transaction so a job can never be
// collected twice.
func Collect(db *gorm.DB, jobID uint, now time.Time) (*models.RefiningJob, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var job models.RefiningJob
		if err := tx.Preload("Materials").First(&job, "id = ?", jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: refining job %d", apperr.ErrNotFound, jobID)
			}
			return err
		}

		if job.Status != models.JobStatusReady && job.Status != models.JobStatusProcessing {
			return fmt.Errorf("%w: job %d already %s", apperr.ErrInvalidState, job.ID, job.Status)
		}

		// Claim the job before crediting; RowsAffected == 0 means a
		// concurrent collect or cancel got there first.
		res := tx.Model(&models.RefiningJob{}).
			Where("id = ? AND status IN ?", job.ID, []models.JobStatus{models.JobStatusReady, models.JobStatusProcessing}).
			Updates(map[string]interface{}{"status": models.JobStatusCollected, "collected_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: job %d already collected or cancelled", apperr.ErrInvalidState, job.ID)
		}

		for _, item := range job.Materials {
			scu := item.QuantityRefined.Div(rawPerSCU)
			if _, err := inventory.Credit(tx, job.RefineryID, item.MaterialID, job.UserID, scu); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetJob(db, jobID)
}

// Cancel abandons a job that has not been collected yet. Soft delete: the row
// stays, only the status flips.
func Cancel(db *gorm.DB, jobID uint) (*models.RefiningJob, error) {
	var job models.RefiningJob
	if err := db.First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: refining job %d", apperr.ErrNotFound, jobID)
		}
		return nil, err
	}

	if job.Status == models.JobStatusCollected {
		return nil, fmt.Errorf("%w: job %d already collected", apperr.ErrInvalidState, job.ID)
	}
	if job.Status == models.JobStatusCancelled {
		return nil, fmt.Errorf("%w: job %d already cancelled", apperr.ErrInvalidState, job.ID)
	}

	res := db.Model(&models.RefiningJob{}).
		Where("id = ? AND status IN ?", job.ID, []models.JobStatus{models.JobStatusProcessing, models.JobStatusReady}).
		Update("status", models.JobStatusCancelled)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: job %d already collected or cancelled", apperr.ErrInvalidState, job.ID)
	}

	job.Status = models.JobStatusCancelled
	return &job, nil
}
