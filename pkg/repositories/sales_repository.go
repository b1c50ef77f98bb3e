package repositories

import (
	"context"
	"fmt"

	"github.com/insightlane/sales-engine/pkg/database"
	"github.com/insightlane/sales-engine/pkg/models"
)

// SalesRepository provides data access for the sales table.
type SalesRepository interface {
	// InsertBatch persists every record inside a single transaction. Either
	// all records are committed or none are; the count of inserted records
	// is returned on success.
	InsertBatch(ctx context.Context, records []models.SalesRecord) (int, error)
	Totals(ctx context.Context, r models.DateRange) (*models.SalesTotals, error)
	List(ctx context.Context, filter models.SalesFilter) (*models.SalesPage, error)
	Trend(ctx context.Context, r models.DateRange, period models.TrendPeriod) ([]models.TrendPoint, error)
	ByProduct(ctx context.Context, r models.DateRange) ([]models.ProductSales, error)
	ByRegion(ctx context.Context, r models.DateRange) ([]models.RegionRevenue, error)
	Categories(ctx context.Context) ([]string, error)
	Regions(ctx context.Context) ([]string, error)
}

type salesRepository struct {
	db *database.DB
}

// NewSalesRepository creates a new SalesRepository backed by the given pool.
func NewSalesRepository(db *database.DB) SalesRepository {
	return &salesRepository{db: db}
}

var _ SalesRepository = (*salesRepository)(nil)

const insertSaleQuery = `
	INSERT INTO sales (date, product_name, category, region, quantity, unit_price, total_revenue)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (r *salesRepository) InsertBatch(ctx context.Context, records []models.SalesRecord) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback on defer is best-effort

	for _, rec := range records {
		_, err := tx.Exec(ctx, insertSaleQuery,
			rec.Date,
			rec.ProductName,
			rec.Category,
			rec.Region,
			rec.Quantity,
			rec.UnitPrice,
			rec.TotalRevenue,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert sales record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(records), nil
}

func (r *salesRepository) Totals(ctx context.Context, dr models.DateRange) (*models.SalesTotals, error) {
	b := &conditionBuilder{}
	b.addDateRange(dr)

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(total_revenue), 0)
		FROM sales` + b.whereClause()

	var totals models.SalesTotals
	err := r.db.QueryRow(ctx, query, b.args...).Scan(
		&totals.TotalTransactions,
		&totals.TotalQuantity,
		&totals.TotalRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales totals: %w", err)
	}
	return &totals, nil
}

func (r *salesRepository) List(ctx context.Context, filter models.SalesFilter) (*models.SalesPage, error) {
	b := &conditionBuilder{}
	b.addDateRange(filter.DateRange)
	if filter.Product != "" {
		b.addSubstring("product_name", filter.Product)
	}
	if filter.Category != "" {
		b.addSubstring("category", filter.Category)
	}
	if filter.Region != "" {
		b.addSubstring("region", filter.Region)
	}

	where := b.whereClause()

	var total int
	countQuery := "SELECT COUNT(*) FROM sales" + where
	if err := r.db.QueryRow(ctx, countQuery, b.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count filtered sales: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := `
		SELECT id, date, product_name, category, region, quantity, unit_price, total_revenue
		FROM sales` + where +
		" ORDER BY date DESC LIMIT " + b.nextPlaceholder(limit) +
		" OFFSET " + b.nextPlaceholder(offset)

	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query filtered sales: %w", err)
	}
	defer rows.Close()

	records := []models.SalesRecord{}
	for rows.Next() {
		var rec models.SalesRecord
		if err := rows.Scan(
			&rec.ID, &rec.Date, &rec.ProductName, &rec.Category,
			&rec.Region, &rec.Quantity, &rec.UnitPrice, &rec.TotalRevenue,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sales record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read filtered sales: %w", err)
	}

	totalPages := (total + limit - 1) / limit
	return &models.SalesPage{
		Records: records,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// trendBucket maps a trend period onto its Postgres TO_CHAR format.
func trendBucket(period models.TrendPeriod) string {
	switch period {
	case models.TrendWeekly:
		return "TO_CHAR(date, 'IYYY-IW')"
	case models.TrendMonthly:
		return "TO_CHAR(date, 'YYYY-MM')"
	default:
		return "TO_CHAR(date, 'YYYY-MM-DD')"
	}
}

func (r *salesRepository) Trend(ctx context.Context, dr models.DateRange, period models.TrendPeriod) ([]models.TrendPoint, error) {
	b := &conditionBuilder{}
	b.addDateRange(dr)

	bucket := trendBucket(period)
	query := fmt.Sprintf(`
		SELECT
			%s AS period,
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(total_revenue), 0),
			COUNT(*)
		FROM sales%s
		GROUP BY %s
		ORDER BY period ASC`, bucket, b.whereClause(), bucket)

	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales trend: %w", err)
	}
	defer rows.Close()

	points := []models.TrendPoint{}
	for rows.Next() {
		var p models.TrendPoint
		if err := rows.Scan(&p.Period, &p.TotalQuantity, &p.TotalRevenue, &p.TransactionCount); err != nil {
			return nil, fmt.Errorf("failed to scan trend point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sales trend: %w", err)
	}
	return points, nil
}

func (r *salesRepository) ByProduct(ctx context.Context, dr models.DateRange) ([]models.ProductSales, error) {
	b := &conditionBuilder{}
	b.addDateRange(dr)

	query := `
		SELECT
			product_name,
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(total_revenue), 0),
			COUNT(*)
		FROM sales` + b.whereClause() + `
		GROUP BY product_name
		ORDER BY 3 DESC`

	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query product sales: %w", err)
	}
	defer rows.Close()

	products := []models.ProductSales{}
	for rows.Next() {
		var p models.ProductSales
		if err := rows.Scan(&p.ProductName, &p.TotalQuantity, &p.TotalRevenue, &p.TransactionCount); err != nil {
			return nil, fmt.Errorf("failed to scan product sales: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product sales: %w", err)
	}
	return products, nil
}

func (r *salesRepository) ByRegion(ctx context.Context, dr models.DateRange) ([]models.RegionRevenue, error) {
	b := &conditionBuilder{}
	b.addDateRange(dr)

	query := `
		SELECT
			region,
			COALESCE(SUM(total_revenue), 0),
			COALESCE(SUM(quantity), 0),
			COUNT(*)
		FROM sales` + b.whereClause() + `
		GROUP BY region
		ORDER BY 2 DESC`

	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query region revenue: %w", err)
	}
	defer rows.Close()

	regions := []models.RegionRevenue{}
	for rows.Next() {
		var reg models.RegionRevenue
		if err := rows.Scan(&reg.Region, &reg.TotalRevenue, &reg.TotalQuantity, &reg.TransactionCount); err != nil {
			return nil, fmt.Errorf("failed to scan region revenue: %w", err)
		}
		regions = append(regions, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read region revenue: %w", err)
	}
	return regions, nil
}

func (r *salesRepository) Categories(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "category")
}

func (r *salesRepository) Regions(ctx context.Context) ([]string, error) {
	return r.distinctColumn(ctx, "region")
}

// distinctColumn returns the distinct values of a text column in ascending
// order. Callers pass a literal column name, never user input.
func (r *salesRepository) distinctColumn(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT %s FROM sales ORDER BY %s", column, column)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct %s: %w", column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", column, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read distinct %s: %w", column, err)
	}
	return values, nil
}
