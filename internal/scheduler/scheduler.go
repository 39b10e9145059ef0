// Package scheduler runs periodic background jobs for the service.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"inventory-billing/internal/model"
	"inventory-billing/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const snapshotTimeout = 30 * time.Second

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// StockGauge receives the latest stock levels.
type StockGauge interface {
	SetStockLevels(products []model.Product)
}

// Scheduler owns the cron runner and the jobs registered on it.
type Scheduler struct {
	cron        *cron.Cron
	productRepo repository.ProductRepository
	gauge       StockGauge
	logger      zerolog.Logger
}

// New creates a scheduler whose schedules are evaluated in loc.
func New(productRepo repository.ProductRepository, gauge StockGauge, loc *time.Location, logger zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:        cron.New(cron.WithLocation(loc), cron.WithParser(cronParser)),
		productRepo: productRepo,
		gauge:       gauge,
		logger:      logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the inventory snapshot job and starts the runner.
// A snapshot is also taken immediately so gauges are populated before the first tick.
func (s *Scheduler) Start(ctx context.Context, snapshotSchedule string) error {
	_, err := s.cron.AddFunc(snapshotSchedule, func() {
		jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotTimeout)
		defer cancel()

		if err := s.SnapshotInventory(jobCtx); err != nil {
			s.logger.Error().Err(err).Msg("inventory snapshot failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid inventory snapshot schedule %q: %w", snapshotSchedule, err)
	}

	if err := s.SnapshotInventory(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("initial inventory snapshot failed")
	}

	s.cron.Start()

	s.logger.Info().Str("schedule", snapshotSchedule).Msg("scheduler started")

	return nil
}

// Stop halts the runner and returns a context that is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info().Msg("stopping scheduler")
	return s.cron.Stop()
}

// SnapshotInventory refreshes the stock gauges and logs products running low.
func (s *Scheduler) SnapshotInventory(ctx context.Context) error {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	s.gauge.SetStockLevels(products)

	low := 0
	for _, p := range products {
		if p.Stock >= model.LowStockThreshold {
			continue
		}
		low++
		s.logger.Warn().
			Str("product_id", p.ID).
			Str("product_name", p.Name).
			Int("stock", p.Stock).
			Msg("low stock")
	}

	s.logger.Debug().
		Int("products", len(products)).
		Int("low_stock", low).
		Msg("inventory snapshot taken")

	return nil
}
