package ingest

import (
	"strings"

	"github.com/insightlane/sales-engine/pkg/models"
)

// DetectFormat classifies an upload batch by inspecting the key set of its
// first row. It is a header heuristic, not a schema validator: cell values
// are never examined, and all rows in a batch are assumed to share the
// first row's shape.
func DetectFormat(rows []models.RawRow) models.DataFormat {
	if len(rows) == 0 {
		return models.FormatUnknown
	}

	first := rows[0]
	hasKey := func(k string) bool {
		_, ok := first[k]
		return ok
	}

	if hasKey("product_id") || (hasKey("discounted_price") && hasKey("rating_count")) {
		return models.FormatProductReview
	}

	if hasKey("date") && hasKey("product_name") && hasKey("quantity") && hasKey("unit_price") {
		return models.FormatSales
	}

	// Loose match on header names for exports we have not seen before.
	var hasProduct, hasPrice bool
	for k := range first {
		lower := strings.ToLower(k)
		if strings.Contains(lower, "product") {
			hasProduct = true
		}
		if strings.Contains(lower, "price") {
			hasPrice = true
		}
	}
	if hasProduct && hasPrice {
		return models.FormatProductReview
	}

	return models.FormatSales
}
