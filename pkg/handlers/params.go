package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/insightlane/sales-engine/pkg/models"
)

const dateParamLayout = "2006-01-02"

// ParseDateRange reads the optional startDate/endDate query parameters.
// Both are YYYY-MM-DD; either may be absent.
func ParseDateRange(r *http.Request) (models.DateRange, error) {
	var dr models.DateRange

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		t, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return dr, fmt.Errorf("invalid startDate %q, expected YYYY-MM-DD", raw)
		}
		dr.Start = t
	}

	if raw := r.URL.Query().Get("endDate"); raw != "" {
		t, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return dr, fmt.Errorf("invalid endDate %q, expected YYYY-MM-DD", raw)
		}
		dr.End = t
	}

	return dr, nil
}

// queryInt reads a positive integer query parameter, falling back to def
// when absent or unparseable.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
