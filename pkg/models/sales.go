package models

import (
	"time"
)

// DataFormat identifies which of the two supported upload shapes a batch uses.
type DataFormat string

const (
	// FormatSales is the direct sales export shape
	// (date, product_name, category, region, quantity, unit_price).
	FormatSales DataFormat = "sales"
	// FormatProductReview is the product catalog/review export shape
	// (product_id, discounted_price, actual_price, rating_count, category).
	FormatProductReview DataFormat = "product_review"
	// FormatUnknown is returned for an empty batch.
	FormatUnknown DataFormat = ""
)

// RawRow is one data row of an uploaded file, keyed by header name exactly as
// it appears in the file. Values are the raw cell text.
type RawRow map[string]string

// ValidationResult accumulates every violation found across an import batch.
// Valid is true iff Errors is empty.
type ValidationResult struct {
	Valid  bool       `json:"valid"`
	Errors []string   `json:"errors"`
	Format DataFormat `json:"format"`
}

// SalesRecord is the canonical, persisted shape every upload normalizes into.
type SalesRecord struct {
	ID           int64     `json:"id,omitempty"`
	Date         time.Time `json:"date"`
	ProductName  string    `json:"product_name"`
	Category     string    `json:"category"`
	Region       string    `json:"region"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	TotalRevenue float64   `json:"total_revenue"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// ImportResult reports a successful import.
type ImportResult struct {
	RecordsImported int `json:"recordsImported"`
}

// DateRange bounds a read query. Either side may be zero (unbounded).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// SalesFilter drives the paginated row listing. Text filters match as
// case-insensitive substrings.
type SalesFilter struct {
	DateRange
	Product  string
	Category string
	Region   string
	Page     int
	Limit    int
}

// Pagination describes one page of a filtered listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// SalesPage is one page of filtered sales rows.
type SalesPage struct {
	Records    []SalesRecord `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// SalesTotals aggregates the whole table (optionally date-bounded).
type SalesTotals struct {
	TotalTransactions int     `json:"totalTransactions"`
	TotalQuantity     int     `json:"totalQuantity"`
	TotalRevenue      float64 `json:"totalRevenue"`
}

// TrendPoint is one time bucket of the revenue trend.
type TrendPoint struct {
	Period           string  `json:"period"`
	TotalQuantity    int     `json:"totalQuantity"`
	TotalRevenue     float64 `json:"totalRevenue"`
	TransactionCount int     `json:"transactionCount"`
}

// ProductSales aggregates one product across the selected range.
type ProductSales struct {
	ProductName      string  `json:"productName"`
	TotalQuantity    int     `json:"totalQuantity"`
	TotalRevenue     float64 `json:"totalRevenue"`
	TransactionCount int     `json:"transactionCount"`
}

// RegionRevenue aggregates one region across the selected range.
type RegionRevenue struct {
	Region           string  `json:"region"`
	TotalRevenue     float64 `json:"totalRevenue"`
	TotalQuantity    int     `json:"totalQuantity"`
	TransactionCount int     `json:"transactionCount"`
}

// TrendPeriod is the bucket size for trend queries.
type TrendPeriod string

const (
	TrendDaily   TrendPeriod = "daily"
	TrendWeekly  TrendPeriod = "weekly"
	TrendMonthly TrendPeriod = "monthly"
)

// IsValid reports whether p is one of the supported trend periods.
func (p TrendPeriod) IsValid() bool {
	switch p {
	case TrendDaily, TrendWeekly, TrendMonthly:
		return true
	}
	return false
}
