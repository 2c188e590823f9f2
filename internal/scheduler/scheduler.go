package scheduler

import (
	"context"
	"time"

	"sctracker-backend/internal/config"
	"sctracker-backend/internal/market"
	"sctracker-backend/internal/refining"
	"sctracker-backend/internal/ws"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// New wires the background jobs: a sweep that flips due refining jobs to
// ready, and a UEX price refresh behind the cache TTL.
func New(cfg *config.Config, db *gorm.DB, fetcher market.PriceFetcher, hub *ws.Hub, log *zap.Logger) (*Scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc(cfg.FinalizeCronSpec, func() {
		count, err := refining.FinalizeDueJobs(db, time.Now().UTC())
		if err != nil {
			log.Error("finalize sweep failed", zap.Error(err))
			return
		}
		if count > 0 {
			log.Info("refining jobs finalized", zap.Int("count", count))
			hub.NotifyDashboardChanged("jobs_ready")
		}
	})
	if err != nil {
		return nil, err
	}

	_, err = c.AddFunc(cfg.PriceRefreshSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		ttl := time.Duration(cfg.PriceCacheTTL) * time.Hour
		updated, err := market.RefreshPrices(ctx, db, fetcher, ttl, false, log)
		if err != nil {
			log.Error("price refresh failed", zap.Error(err))
			return
		}
		if updated > 0 {
			log.Info("market prices refreshed", zap.Int("materials", updated))
		}
	})
	if err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, log: log}, nil
}

func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}
