package ingest

import (
	"strconv"
	"strings"
)

const (
	// MaxUnitPrice is the upper bound on a usable unit price. Anything above
	// it is treated as "no usable price" rather than an error.
	MaxUnitPrice = 10_000_000

	// MaxTotalRevenue is the largest value the DECIMAL(15,2) revenue column
	// can hold. Computed revenue is capped here, never rejected.
	MaxTotalRevenue = 9_999_999_999_999.99

	// DefaultCategory is used when a row carries no category signal.
	DefaultCategory = "Uncategorized"
)

// ExtractPrice coerces a raw cell like "₹399.00" or "$1,200.50" into a price.
// Currency symbols, thousands separators and whitespace are stripped before
// parsing. Unparseable, negative, or out-of-range values degrade to 0.
func ExtractPrice(raw string) float64 {
	if raw == "" {
		return 0
	}
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '₹', '$', '€', '£', ',', ' ', '\t':
			return -1
		}
		return r
	}, raw)
	// Drop anything that is not part of a signed decimal (e.g. trailing units).
	var b strings.Builder
	for _, r := range cleaned {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	price, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || price < 0 || price > MaxUnitPrice {
		return 0
	}
	return price
}

// ExtractNumber coerces a raw cell like "24,269" into an integer. Thousands
// separators and whitespace are stripped; a decimal suffix is ignored.
// Unparseable input degrades to 0.
func ExtractNumber(raw string) int {
	if raw == "" {
		return 0
	}
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ', '\t':
			return -1
		}
		return r
	}, raw)
	n, ok := parseLeadingInt(cleaned)
	if !ok {
		return 0
	}
	return n
}

// ExtractCategory takes the top level of a pipe-delimited hierarchical
// category ("Electronics|Audio|Headphones" -> "Electronics"). Absent or
// empty input degrades to DefaultCategory.
func ExtractCategory(raw string) string {
	if raw == "" {
		return DefaultCategory
	}
	category := strings.TrimSpace(strings.SplitN(raw, "|", 2)[0])
	if category == "" {
		return DefaultCategory
	}
	return category
}

// parseLeadingInt parses the longest integer prefix of s, so "12.5" yields 12.
// Returns false when s has no integer prefix at all.
func parseLeadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == end {
		return 0, false
	}
	n, err := strconv.Atoi(s[:digits])
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseLeadingFloat parses the longest decimal prefix of s, so "12.5kg"
// yields 12.5. Returns false when s has no numeric prefix.
func parseLeadingFloat(s string) (float64, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	seenDigit := false
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			seenDigit = true
		} else if c == '.' && !seenDot {
			seenDot = true
		} else {
			break
		}
		end++
	}
	if !seenDigit {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
