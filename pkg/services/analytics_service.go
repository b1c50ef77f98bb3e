package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/insightlane/sales-engine/pkg/apperrors"
	"github.com/insightlane/sales-engine/pkg/models"
	"github.com/insightlane/sales-engine/pkg/repositories"
)

// AnalyticsService serves the read-side aggregate queries behind the
// dashboard widgets.
type AnalyticsService struct {
	repo   repositories.SalesRepository
	logger *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(repo repositories.SalesRepository, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, logger: logger}
}

// Totals returns transaction count, quantity and revenue over an optional
// date range.
func (s *AnalyticsService) Totals(ctx context.Context, r models.DateRange) (*models.SalesTotals, error) {
	return s.repo.Totals(ctx, r)
}

// Filtered returns one page of sales rows matching the filter.
func (s *AnalyticsService) Filtered(ctx context.Context, filter models.SalesFilter) (*models.SalesPage, error) {
	return s.repo.List(ctx, filter)
}

// Trend returns time-bucketed aggregates. An empty period defaults to
// daily; anything other than daily/weekly/monthly is rejected.
func (s *AnalyticsService) Trend(ctx context.Context, r models.DateRange, period models.TrendPeriod) ([]models.TrendPoint, error) {
	if period == "" {
		period = models.TrendDaily
	}
	if !period.IsValid() {
		return nil, apperrors.ErrInvalidPeriod
	}
	return s.repo.Trend(ctx, r, period)
}

// ByProduct returns per-product aggregates, highest revenue first.
func (s *AnalyticsService) ByProduct(ctx context.Context, r models.DateRange) ([]models.ProductSales, error) {
	return s.repo.ByProduct(ctx, r)
}

// ByRegion returns per-region aggregates, highest revenue first.
func (s *AnalyticsService) ByRegion(ctx context.Context, r models.DateRange) ([]models.RegionRevenue, error) {
	return s.repo.ByRegion(ctx, r)
}

// Categories returns the distinct category list in ascending order.
func (s *AnalyticsService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Regions returns the distinct region list in ascending order.
func (s *AnalyticsService) Regions(ctx context.Context) ([]string, error) {
	return s.repo.Regions(ctx)
}
