package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightlane/sales-engine/pkg/models"
)

func fixedNormalizer(t *testing.T) (*Normalizer, time.Time) {
	t.Helper()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	n := NewNormalizer(DefaultEstimationPolicy())
	n.now = func() time.Time { return now }
	return n, now
}

func TestNormalizeSalesRows(t *testing.T) {
	n, _ := fixedNormalizer(t)

	rows := []models.RawRow{
		{
			"date":         "2024-01-15",
			"product_name": "  Widget  ",
			"category":     "Tools",
			"region":       "North",
			"quantity":     "3",
			"unit_price":   "19.99",
		},
	}

	records := n.Normalize(rows, models.FormatSales)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, "Widget", rec.ProductName)
	assert.Equal(t, "Tools", rec.Category)
	assert.Equal(t, "North", rec.Region)
	assert.Equal(t, 3, rec.Quantity)
	assert.Equal(t, 19.99, rec.UnitPrice)
	assert.InDelta(t, 59.97, rec.TotalRevenue, 1e-9)
}

func TestNormalizeSalesAliasFallbacks(t *testing.T) {
	n, _ := fixedNormalizer(t)

	rows := []models.RawRow{
		{
			"date":         "2024-01-15",
			"Product Name": "Gadget",
			"Category":     "Electronics",
			"Region":       "South",
			"quantity":     "2",
			"unit_price":   "5",
		},
	}

	records := n.Normalize(rows, models.FormatSales)
	require.Len(t, records, 1)
	assert.Equal(t, "Gadget", records[0].ProductName)
	assert.Equal(t, "Electronics", records[0].Category)
	assert.Equal(t, "South", records[0].Region)
}

func TestNormalizeSalesTolerantDefaults(t *testing.T) {
	n, _ := fixedNormalizer(t)

	rows := []models.RawRow{
		{"date": "2024-01-15", "product_name": "Widget", "quantity": "junk", "unit_price": "junk"},
	}

	records := n.Normalize(rows, models.FormatSales)
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].Quantity)
	assert.Equal(t, float64(0), records[0].UnitPrice)
	assert.Equal(t, float64(0), records[0].TotalRevenue)
}

func TestNormalizeReviewQuantityEstimation(t *testing.T) {
	n, _ := fixedNormalizer(t)

	rows := []models.RawRow{
		{"product_id": "A", "discounted_price": "₹399.00", "rating_count": "24,269"},
		{"product_id": "B", "discounted_price": "₹159.00"},
	}

	records := n.Normalize(rows, models.FormatProductReview)
	require.Len(t, records, 2)

	// floor(24269 * 0.1) = 2426
	assert.Equal(t, 2426, records[0].Quantity)
	// absent rating_count floors at one unit
	assert.Equal(t, 1, records[1].Quantity)
}

func TestNormalizeReviewPricePreference(t *testing.T) {
	n, _ := fixedNormalizer(t)

	rows := []models.RawRow{
		{"product_id": "A", "discounted_price": "₹399.00", "actual_price": "₹999.00", "rating_count": "10"},
		{"product_id": "B", "discounted_price": "", "actual_price": "₹999.00", "rating_count": "10"},
		{"product_id": "C", "discounted_price": "", "actual_price": "", "rating_count": "10"},
	}

	records := n.Normalize(rows, models.FormatProductReview)
	require.Len(t, records, 3)
	assert.Equal(t, 399.0, records[0].UnitPrice)
	assert.Equal(t, 999.0, records[1].UnitPrice)
	assert.Equal(t, 0.0, records[2].UnitPrice)
}

func TestNormalizeReviewDateSpread(t *testing.T) {
	n, now := fixedNormalizer(t)

	rows := make([]models.RawRow, 32)
	for i := range rows {
		rows[i] = models.RawRow{"product_id": "P", "discounted_price": "₹100", "rating_count": "10"}
	}

	records := n.Normalize(rows, models.FormatProductReview)
	require.Len(t, records, 32)

	assert.Equal(t, now, records[0].Date)
	assert.Equal(t, now.AddDate(0, 0, -1), records[1].Date)
	assert.Equal(t, now.AddDate(0, 0, -29), records[29].Date)
	// the window wraps after DateSpreadDays rows
	assert.Equal(t, now, records[30].Date)
	assert.Equal(t, now.AddDate(0, 0, -1), records[31].Date)
}

func TestNormalizeReviewFixedRegionAndPlaceholderName(t *testing.T) {
	n, _ := fixedNormalizer(t)

	rows := []models.RawRow{
		{"product_id": "", "discounted_price": "₹100", "rating_count": "10"},
		{"product_id": "B0TEST", "discounted_price": "₹100", "rating_count": "10", "category": "Electronics|Audio"},
	}

	records := n.Normalize(rows, models.FormatProductReview)
	require.Len(t, records, 2)

	assert.Equal(t, "Product 1", records[0].ProductName)
	assert.Equal(t, "Online", records[0].Region)
	assert.Equal(t, "Uncategorized", records[0].Category)

	assert.Equal(t, "B0TEST", records[1].ProductName)
	assert.Equal(t, "Online", records[1].Region)
	assert.Equal(t, "Electronics", records[1].Category)
}

func TestNormalizeRevenueCapAppliesOnBothPaths(t *testing.T) {
	n, _ := fixedNormalizer(t)

	// quantity 2,000,000 exceeds the estimation clamp, so drive the review
	// path to its maximums: 1,000,000 * 10,000,000 = 1e13 > cap.
	review := []models.RawRow{
		{"product_id": "A", "discounted_price": "10000000", "rating_count": "20,000,000"},
	}
	records := n.Normalize(review, models.FormatProductReview)
	require.Len(t, records, 1)
	assert.Equal(t, 1_000_000, records[0].Quantity)
	assert.Equal(t, MaxTotalRevenue, records[0].TotalRevenue)

	sales := []models.RawRow{
		{"date": "2024-01-15", "product_name": "W", "category": "C", "region": "R",
			"quantity": "2000000", "unit_price": "10000000"},
	}
	records = n.Normalize(sales, models.FormatSales)
	require.Len(t, records, 1)
	assert.Equal(t, MaxTotalRevenue, records[0].TotalRevenue)
}

func TestNormalizePreservesOrderAndLength(t *testing.T) {
	n, _ := fixedNormalizer(t)

	rows := []models.RawRow{
		{"product_id": "first", "discounted_price": "₹1", "rating_count": "10"},
		{"product_id": "second", "discounted_price": "₹2", "rating_count": "10"},
		{"product_id": "third", "discounted_price": "₹3", "rating_count": "10"},
	}

	records := n.Normalize(rows, models.FormatProductReview)
	require.Len(t, records, 3)
	assert.Equal(t, "first", records[0].ProductName)
	assert.Equal(t, "second", records[1].ProductName)
	assert.Equal(t, "third", records[2].ProductName)
}

func TestZeroPolicyFallsBackToDefaults(t *testing.T) {
	n := NewNormalizer(EstimationPolicy{})
	n.now = func() time.Time { return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC) }

	rows := []models.RawRow{
		{"product_id": "A", "discounted_price": "₹100", "rating_count": "100"},
		{"product_id": "B", "discounted_price": "₹100", "rating_count": "100"},
	}

	records := n.Normalize(rows, models.FormatProductReview)
	require.Len(t, records, 2)
	assert.Equal(t, 10, records[0].Quantity)
	assert.Equal(t, "Online", records[0].Region)
	assert.True(t, records[1].Date.Before(records[0].Date))
}

func TestCustomEstimationPolicy(t *testing.T) {
	n := NewNormalizer(EstimationPolicy{
		ReviewPurchaseRate: 0.5,
		DateSpreadDays:     7,
		DefaultRegion:      "Marketplace",
	})
	n.now = func() time.Time { return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC) }

	rows := []models.RawRow{
		{"product_id": "A", "discounted_price": "₹100", "rating_count": "100"},
	}

	records := n.Normalize(rows, models.FormatProductReview)
	require.Len(t, records, 1)
	assert.Equal(t, 50, records[0].Quantity)
	assert.Equal(t, "Marketplace", records[0].Region)
}
