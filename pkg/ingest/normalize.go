package ingest

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/insightlane/sales-engine/pkg/models"
)

// maxEstimatedQuantity caps the quantity derived from a review count.
const maxEstimatedQuantity = 1_000_000

// EstimationPolicy tunes how product-review rows are turned into sales
// facts. The defaults are an acknowledged approximation: a review count is
// taken as a proxy for purchases at an assumed review rate, dateless rows
// are spread over a trailing window so trend charts have variation, and
// review-sourced rows carry a fixed region because the source has none.
type EstimationPolicy struct {
	// ReviewPurchaseRate is the assumed fraction of purchasers who leave a
	// rating. quantity = floor(rating_count * rate), floored at 1.
	ReviewPurchaseRate float64
	// DateSpreadDays is the width of the trailing window review rows are
	// distributed across.
	DateSpreadDays int
	// DefaultRegion is assigned to review-sourced rows.
	DefaultRegion string
}

// DefaultEstimationPolicy returns the stock estimation parameters.
func DefaultEstimationPolicy() EstimationPolicy {
	return EstimationPolicy{
		ReviewPurchaseRate: 0.1,
		DateSpreadDays:     30,
		DefaultRegion:      "Online",
	}
}

// Header aliases accepted per canonical field, in lookup order.
var (
	productNameAliases = []string{"product_name", "product", "Product Name"}
	categoryAliases    = []string{"category", "Category"}
	regionAliases      = []string{"region", "Region"}
)

// Normalizer maps validated raw rows of either format into canonical sales
// records.
type Normalizer struct {
	policy EstimationPolicy
	now    func() time.Time
}

// NewNormalizer creates a Normalizer with the given estimation policy.
// Zero-valued policy fields fall back to the defaults, so
// NewNormalizer(EstimationPolicy{}) behaves like the stock policy.
func NewNormalizer(policy EstimationPolicy) *Normalizer {
	def := DefaultEstimationPolicy()
	if policy.ReviewPurchaseRate <= 0 {
		policy.ReviewPurchaseRate = def.ReviewPurchaseRate
	}
	if policy.DateSpreadDays < 1 {
		policy.DateSpreadDays = def.DateSpreadDays
	}
	if policy.DefaultRegion == "" {
		policy.DefaultRegion = def.DefaultRegion
	}
	return &Normalizer{policy: policy, now: time.Now}
}

// Normalize converts every row into a SalesRecord, preserving input length
// and order. Rows are assumed to have passed Validate for the given format;
// malformed scalars still degrade to safe defaults rather than failing.
func (n *Normalizer) Normalize(rows []models.RawRow, format models.DataFormat) []models.SalesRecord {
	records := make([]models.SalesRecord, 0, len(rows))
	for i, row := range rows {
		if format == models.FormatProductReview {
			records = append(records, n.normalizeReviewRow(row, i))
		} else {
			records = append(records, n.normalizeSalesRow(row))
		}
	}
	return records
}

// normalizeReviewRow synthesizes a sales record from catalog/review data.
func (n *Normalizer) normalizeReviewRow(row models.RawRow, index int) models.SalesRecord {
	productName := strings.TrimSpace(row["product_id"])
	if productName == "" {
		productName = fmt.Sprintf("Product %d", index+1)
	}

	// Prefer the discounted price; fall back to the list price.
	unitPrice := ExtractPrice(row["discounted_price"])
	if unitPrice == 0 {
		unitPrice = ExtractPrice(row["actual_price"])
	}
	unitPrice = clampFloat(unitPrice, 0, MaxUnitPrice)

	ratingCount := ExtractNumber(row["rating_count"])
	quantity := 1
	if ratingCount > 0 {
		quantity = int(math.Floor(float64(ratingCount) * n.policy.ReviewPurchaseRate))
	}
	quantity = clampInt(quantity, 1, maxEstimatedQuantity)

	category := ExtractCategory(firstNonEmpty(row, categoryAliases))

	// Review exports carry no date; spread rows across a trailing window so
	// the trend chart is not a single spike.
	daysAgo := index % n.policy.DateSpreadDays
	date := n.now().AddDate(0, 0, -daysAgo)

	return models.SalesRecord{
		Date:         date,
		ProductName:  productName,
		Category:     category,
		Region:       n.policy.DefaultRegion,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		TotalRevenue: cappedRevenue(quantity, unitPrice),
	}
}

// normalizeSalesRow maps a sales row directly, with tolerant fallbacks.
func (n *Normalizer) normalizeSalesRow(row models.RawRow) models.SalesRecord {
	quantity, _ := parseLeadingInt(strings.TrimSpace(row["quantity"]))
	unitPrice, _ := parseLeadingFloat(strings.TrimSpace(row["unit_price"]))

	date, _ := ParseDate(row["date"])

	return models.SalesRecord{
		Date:         date,
		ProductName:  strings.TrimSpace(firstNonEmpty(row, productNameAliases)),
		Category:     strings.TrimSpace(firstNonEmpty(row, categoryAliases)),
		Region:       strings.TrimSpace(firstNonEmpty(row, regionAliases)),
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		TotalRevenue: cappedRevenue(quantity, unitPrice),
	}
}

// cappedRevenue computes quantity * unitPrice bounded by what the
// DECIMAL(15,2) storage column can hold. The cap is a storage constraint,
// applied identically for both input formats.
func cappedRevenue(quantity int, unitPrice float64) float64 {
	return math.Min(float64(quantity)*unitPrice, MaxTotalRevenue)
}

// firstNonEmpty resolves a canonical field through its ordered alias list.
func firstNonEmpty(row models.RawRow, aliases []string) string {
	for _, alias := range aliases {
		if v := row[alias]; v != "" {
			return v
		}
	}
	return ""
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
