package handlers

import (
	"context"

	"github.com/insightlane/sales-engine/pkg/models"
)

// stubImportService records its last call and returns canned values.
type stubImportService struct {
	lastPath string
	lastExt  string
	result   *models.ImportResult
	err      error
}

func (s *stubImportService) Import(ctx context.Context, path, ext string) (*models.ImportResult, error) {
	s.lastPath = path
	s.lastExt = ext
	return s.result, s.err
}

// stubAnalyticsService returns canned values and records the filters it saw.
type stubAnalyticsService struct {
	totals     *models.SalesTotals
	page       *models.SalesPage
	trend      []models.TrendPoint
	products   []models.ProductSales
	regions    []models.RegionRevenue
	categories []string
	regionList []string
	err        error

	lastRange  models.DateRange
	lastFilter models.SalesFilter
	lastPeriod models.TrendPeriod
}

func (s *stubAnalyticsService) Totals(ctx context.Context, r models.DateRange) (*models.SalesTotals, error) {
	s.lastRange = r
	return s.totals, s.err
}

func (s *stubAnalyticsService) Filtered(ctx context.Context, filter models.SalesFilter) (*models.SalesPage, error) {
	s.lastFilter = filter
	return s.page, s.err
}

func (s *stubAnalyticsService) Trend(ctx context.Context, r models.DateRange, period models.TrendPeriod) ([]models.TrendPoint, error) {
	s.lastRange = r
	s.lastPeriod = period
	return s.trend, s.err
}

func (s *stubAnalyticsService) ByProduct(ctx context.Context, r models.DateRange) ([]models.ProductSales, error) {
	s.lastRange = r
	return s.products, s.err
}

func (s *stubAnalyticsService) ByRegion(ctx context.Context, r models.DateRange) ([]models.RegionRevenue, error) {
	s.lastRange = r
	return s.regions, s.err
}

func (s *stubAnalyticsService) Categories(ctx context.Context) ([]string, error) {
	return s.categories, s.err
}

func (s *stubAnalyticsService) Regions(ctx context.Context) ([]string, error) {
	return s.regionList, s.err
}
