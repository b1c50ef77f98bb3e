package services

import (
	"context"
	"sort"
	"strings"

	"github.com/insightlane/sales-engine/pkg/models"
)

// mockSalesRepository is an in-memory SalesRepository. InsertBatch honors
// the all-or-nothing contract: when a simulated insert fails, nothing is
// retained.
type mockSalesRepository struct {
	records []models.SalesRecord

	// insertFailAt makes the Nth (1-based) insert fail.
	insertFailAt int
	insertErr    error
}

func (m *mockSalesRepository) InsertBatch(ctx context.Context, records []models.SalesRecord) (int, error) {
	staged := make([]models.SalesRecord, 0, len(records))
	for i, rec := range records {
		if m.insertFailAt > 0 && i+1 == m.insertFailAt {
			return 0, m.insertErr
		}
		staged = append(staged, rec)
	}
	m.records = append(m.records, staged...)
	return len(staged), nil
}

func (m *mockSalesRepository) inRange(rec models.SalesRecord, r models.DateRange) bool {
	if !r.Start.IsZero() && rec.Date.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && rec.Date.After(r.End) {
		return false
	}
	return true
}

func (m *mockSalesRepository) Totals(ctx context.Context, r models.DateRange) (*models.SalesTotals, error) {
	totals := &models.SalesTotals{}
	for _, rec := range m.records {
		if !m.inRange(rec, r) {
			continue
		}
		totals.TotalTransactions++
		totals.TotalQuantity += rec.Quantity
		totals.TotalRevenue += rec.TotalRevenue
	}
	return totals, nil
}

func (m *mockSalesRepository) List(ctx context.Context, filter models.SalesFilter) (*models.SalesPage, error) {
	records := []models.SalesRecord{}
	for _, rec := range m.records {
		if m.inRange(rec, filter.DateRange) {
			records = append(records, rec)
		}
	}
	return &models.SalesPage{
		Records: records,
		Pagination: models.Pagination{
			Page: 1, Limit: len(records), Total: len(records), TotalPages: 1,
		},
	}, nil
}

func (m *mockSalesRepository) Trend(ctx context.Context, r models.DateRange, period models.TrendPeriod) ([]models.TrendPoint, error) {
	buckets := map[string]*models.TrendPoint{}
	for _, rec := range m.records {
		if !m.inRange(rec, r) {
			continue
		}
		key := rec.Date.Format("2006-01-02")
		if period == models.TrendMonthly {
			key = rec.Date.Format("2006-01")
		}
		p, ok := buckets[key]
		if !ok {
			p = &models.TrendPoint{Period: key}
			buckets[key] = p
		}
		p.TotalQuantity += rec.Quantity
		p.TotalRevenue += rec.TotalRevenue
		p.TransactionCount++
	}
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	points := make([]models.TrendPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, *buckets[k])
	}
	return points, nil
}

func (m *mockSalesRepository) ByProduct(ctx context.Context, r models.DateRange) ([]models.ProductSales, error) {
	agg := map[string]*models.ProductSales{}
	for _, rec := range m.records {
		if !m.inRange(rec, r) {
			continue
		}
		p, ok := agg[rec.ProductName]
		if !ok {
			p = &models.ProductSales{ProductName: rec.ProductName}
			agg[rec.ProductName] = p
		}
		p.TotalQuantity += rec.Quantity
		p.TotalRevenue += rec.TotalRevenue
		p.TransactionCount++
	}
	products := make([]models.ProductSales, 0, len(agg))
	for _, p := range agg {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].TotalRevenue > products[j].TotalRevenue
	})
	return products, nil
}

func (m *mockSalesRepository) ByRegion(ctx context.Context, r models.DateRange) ([]models.RegionRevenue, error) {
	agg := map[string]*models.RegionRevenue{}
	for _, rec := range m.records {
		if !m.inRange(rec, r) {
			continue
		}
		reg, ok := agg[rec.Region]
		if !ok {
			reg = &models.RegionRevenue{Region: rec.Region}
			agg[rec.Region] = reg
		}
		reg.TotalRevenue += rec.TotalRevenue
		reg.TotalQuantity += rec.Quantity
		reg.TransactionCount++
	}
	regions := make([]models.RegionRevenue, 0, len(agg))
	for _, reg := range agg {
		regions = append(regions, *reg)
	}
	sort.Slice(regions, func(i, j int) bool {
		return regions[i].TotalRevenue > regions[j].TotalRevenue
	})
	return regions, nil
}

func (m *mockSalesRepository) distinct(pick func(models.SalesRecord) string) []string {
	seen := map[string]bool{}
	for _, rec := range m.records {
		seen[pick(rec)] = true
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		return strings.Compare(values[i], values[j]) < 0
	})
	return values
}

func (m *mockSalesRepository) Categories(ctx context.Context) ([]string, error) {
	return m.distinct(func(r models.SalesRecord) string { return r.Category }), nil
}

func (m *mockSalesRepository) Regions(ctx context.Context) ([]string, error) {
	return m.distinct(func(r models.SalesRecord) string { return r.Region }), nil
}
