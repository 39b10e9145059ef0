package service

import (
	"context"
	"fmt"
	"time"

	"inventory-billing/internal/access"
	"inventory-billing/internal/model"
	"inventory-billing/internal/repository"

	"github.com/rs/zerolog"
)

type dashboardService struct {
	productRepo repository.ProductRepository
	billRepo    repository.BillRepository
	location    *time.Location
	now         func() time.Time
	logger      zerolog.Logger
}

// NewDashboardService creates a dashboard service whose "today" is the
// calendar day in loc.
func NewDashboardService(
	productRepo repository.ProductRepository,
	billRepo repository.BillRepository,
	loc *time.Location,
	logger zerolog.Logger,
) DashboardService {
	return newDashboardService(productRepo, billRepo, loc, time.Now, logger)
}

func newDashboardService(
	productRepo repository.ProductRepository,
	billRepo repository.BillRepository,
	loc *time.Location,
	now func() time.Time,
	logger zerolog.Logger,
) *dashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &dashboardService{
		productRepo: productRepo,
		billRepo:    billRepo,
		location:    loc,
		now:         now,
		logger:      logger.With().Str("service", "dashboard").Logger(),
	}
}

// Summary returns product counts and the sum of today's bills.
func (s *dashboardService) Summary(ctx context.Context, actor *access.Actor) (*model.DashboardSummary, error) {
	if err := access.Authorize(actor, access.OpReadDashboard); err != nil {
		return nil, err
	}

	total, err := s.productRepo.Count(ctx, model.ProductFilter{})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count products")
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	threshold := model.LowStockThreshold
	low, err := s.productRepo.Count(ctx, model.ProductFilter{StockBelow: &threshold})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count low stock products")
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	start, end := DayBounds(s.now(), s.location)
	sales, err := s.billRepo.SumTotalsInRange(ctx, start, end)
	if err != nil {
		s.logger.Error().Err(err).Time("day_start", start).Msg("failed to sum today's sales")
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	return &model.DashboardSummary{
		TotalProducts: total,
		LowStockCount: low,
		TodaySales:    sales,
	}, nil
}

// DayBounds returns the [start, end) of the calendar day containing t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
