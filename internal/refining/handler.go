package refining

import (
	"fmt"
	"strconv"
	"time"

	"sctracker-backend/internal/apperr"
	"sctracker-backend/internal/auth"
	"sctracker-backend/internal/database"
	"sctracker-backend/internal/history"
	"sctracker-backend/internal/models"
	"sctracker-backend/internal/validate"
	"sctracker-backend/internal/ws"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type JobMaterialResponse struct {
	ID              uint   `json:"id"`
	MaterialID      uint   `json:"material_id"`
	MaterialName    string `json:"material_name"`
	QuantityRefined string `json:"quantity_refined"`
	Unit            string `json:"unit"`
}

type JobResponse struct {
	ID               uint                  `json:"id"`
	RefineryID       uint                  `json:"refinery_id"`
	RefineryName     string                `json:"refinery_name"`
	RefinerySystem   string                `json:"refinery_system"`
	UserID           uint                  `json:"user_id"`
	JobType          string                `json:"job_type"`
	TotalCost        string                `json:"total_cost"`
	ProcessingTime   int                   `json:"processing_time"`
	Status           string                `json:"status"`
	StartTime        time.Time             `json:"start_time"`
	EndTime          time.Time             `json:"end_time"`
	CollectedAt      *time.Time            `json:"collected_at"`
	SecondsRemaining int                   `json:"seconds_remaining"`
	Progress         float64               `json:"progress_percentage"`
	Notes            string                `json:"notes"`
	Materials        []JobMaterialResponse `json:"materials"`
}

func buildJobResponse(job *models.RefiningJob, now time.Time) JobResponse {
	materials := make([]JobMaterialResponse, 0, len(job.Materials))
	for _, m := range job.Materials {
		materials = append(materials, JobMaterialResponse{
			ID:              m.ID,
			MaterialID:      m.MaterialID,
			MaterialName:    m.Material.Name,
			QuantityRefined: m.QuantityRefined.StringFixed(2),
			Unit:            m.Unit,
		})
	}

	return JobResponse{
		ID:               job.ID,
		RefineryID:       job.RefineryID,
		RefineryName:     job.Refinery.Name,
		RefinerySystem:   job.Refinery.System,
		UserID:           job.UserID,
		JobType:          string(job.JobType),
		TotalCost:        job.TotalCost.StringFixed(2),
		ProcessingTime:   job.ProcessingTime,
		Status:           string(job.Status),
		StartTime:        job.StartTime,
		EndTime:          job.EndTime,
		CollectedAt:      job.CollectedAt,
		SecondsRemaining: job.SecondsRemaining(now),
		Progress:         job.ProgressPercentage(now),
		Notes:            job.Notes,
		Materials:        materials,
	}
}

// POST /api/refining/jobs
func CreateJobHandler(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body StartJobInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		body.UserID = userID

		job, err := Start(database.DB, body, time.Now().UTC())
		if err != nil {
			return apperr.ToFiber(err)
		}

		if err := history.Record(database.DB, history.EventOptions{
			UserID:      userID,
			UserHandle:  auth.CurrentUserHandle(c),
			EntityType:  "refining_job",
			EntityID:    job.ID,
			Action:      models.HistoryActionCreate,
			Description: fmt.Sprintf("Started %s job at %s (%d min)", job.JobType, job.Refinery.Name, job.ProcessingTime),
		}); err != nil {
			log.Warn("history record failed", zap.Error(err))
		}

		return c.Status(fiber.StatusCreated).JSON(buildJobResponse(job, time.Now().UTC()))
	}
}

// GET /api/refining/jobs?status=processing&refinery_id=1&job_type=mining
func ListJobsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now().UTC()

		// Lazy sweep so clients polling the list always see up-to-date statuses
		// even when the cron sweep has not fired yet.
		if _, err := FinalizeDueJobs(database.DB, now); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not finalize due jobs")
		}

		q := database.DB.Preload("Refinery").Preload("Materials.Material")

		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		if rid := c.Query("refinery_id"); rid != "" {
			q = q.Where("refinery_id = ?", rid)
		}
		if jt := c.Query("job_type"); jt != "" {
			q = q.Where("job_type = ?", jt)
		}

		var jobs []models.RefiningJob
		if err := q.Order("end_time ASC").Find(&jobs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list refining jobs")
		}

		resp := make([]JobResponse, 0, len(jobs))
		for i := range jobs {
			resp = append(resp, buildJobResponse(&jobs[i], now))
		}
		return c.JSON(resp)
	}
}

// GET /api/refining/jobs/:id
func GetJobHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		jobID, err := parseJobID(c)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		job, err := GetJob(database.DB, jobID)
		if err != nil {
			return apperr.ToFiber(err)
		}

		if _, err := CheckAndFinalize(database.DB, job, now); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update job status")
		}

		return c.JSON(buildJobResponse(job, now))
	}
}

// POST /api/refining/jobs/:id/collect
func CollectJobHandler(hub *ws.Hub, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		jobID, err := parseJobID(c)
		if err != nil {
			return err
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		job, err := Collect(database.DB, jobID, now)
		if err != nil {
			return apperr.ToFiber(err)
		}

		if err := history.Record(database.DB, history.EventOptions{
			UserID:      userID,
			UserHandle:  auth.CurrentUserHandle(c),
			EntityType:  "refining_job",
			EntityID:    job.ID,
			Action:      models.HistoryActionCollect,
			Description: fmt.Sprintf("Collected job #%d at %s", job.ID, job.Refinery.Name),
		}); err != nil {
			log.Warn("history record failed", zap.Error(err))
		}

		hub.NotifyDashboardChanged("job_collected")

		return c.JSON(buildJobResponse(job, now))
	}
}

// DELETE /api/refining/jobs/:id
func CancelJobHandler(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		jobID, err := parseJobID(c)
		if err != nil {
			return err
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		job, err := Cancel(database.DB, jobID)
		if err != nil {
			return apperr.ToFiber(err)
		}

		if err := history.Record(database.DB, history.EventOptions{
			UserID:      userID,
			UserHandle:  auth.CurrentUserHandle(c),
			EntityType:  "refining_job",
			EntityID:    job.ID,
			Action:      models.HistoryActionCancel,
			Description: fmt.Sprintf("Cancelled job #%d", job.ID),
		}); err != nil {
			log.Warn("history record failed", zap.Error(err))
		}

		return c.JSON(fiber.Map{"message": "Job cancelled", "job_id": job.ID})
	}
}

func parseJobID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid job id")
	}
	return uint(id), nil
}
