package ingest

import (
	"fmt"

	"github.com/insightlane/sales-engine/pkg/models"
)

// salesRequiredFields are the columns every row of a sales-format upload
// must carry. A cell holding "0" counts as present; only an empty cell is
// treated as missing.
var salesRequiredFields = []string{"date", "product_name", "category", "region", "quantity", "unit_price"}

// Validate checks every row of a batch against its detected format and
// accumulates all violations rather than stopping at the first. Row numbers
// in messages are 1-based.
func Validate(rows []models.RawRow) models.ValidationResult {
	if len(rows) == 0 {
		return models.ValidationResult{
			Valid:  false,
			Errors: []string{"data must be a non-empty row set"},
			Format: models.FormatUnknown,
		}
	}

	format := DetectFormat(rows)

	var errs []string
	for i, row := range rows {
		if format == models.FormatProductReview {
			errs = append(errs, validateReviewRow(row, i+1)...)
		} else {
			errs = append(errs, validateSalesRow(row, i+1)...)
		}
	}

	return models.ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
		Format: format,
	}
}

// validateReviewRow checks one product-review row. A row is usable as long
// as it identifies a product and carries at least one price signal.
func validateReviewRow(row models.RawRow, rowNum int) []string {
	var errs []string
	if row["product_id"] == "" {
		errs = append(errs, fmt.Sprintf("Row %d: Missing product_id", rowNum))
	}
	if row["discounted_price"] == "" && row["actual_price"] == "" {
		errs = append(errs, fmt.Sprintf("Row %d: Missing price information", rowNum))
	}
	return errs
}

// validateSalesRow checks one sales row: required fields present, date
// parseable, numeric fields numeric.
func validateSalesRow(row models.RawRow, rowNum int) []string {
	var errs []string
	for _, field := range salesRequiredFields {
		if row[field] == "" {
			errs = append(errs, fmt.Sprintf("Row %d: Missing required field '%s'", rowNum, field))
		}
	}

	if date := row["date"]; date != "" {
		if _, ok := ParseDate(date); !ok {
			errs = append(errs, fmt.Sprintf("Row %d: Invalid date format", rowNum))
		}
	}

	if quantity := row["quantity"]; quantity != "" {
		if _, ok := parseLeadingInt(quantity); !ok {
			errs = append(errs, fmt.Sprintf("Row %d: Quantity must be a number", rowNum))
		}
	}

	if unitPrice := row["unit_price"]; unitPrice != "" {
		if _, ok := parseLeadingFloat(unitPrice); !ok {
			errs = append(errs, fmt.Sprintf("Row %d: Unit price must be a number", rowNum))
		}
	}

	return errs
}
