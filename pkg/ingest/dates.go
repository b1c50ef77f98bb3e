package ingest

import (
	"strings"
	"time"
)

// dateLayouts are the date shapes accepted in uploaded files, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

// ParseDate parses a date cell against the accepted layouts.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
