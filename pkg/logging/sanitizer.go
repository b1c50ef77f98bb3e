package logging

import (
	"regexp"
)

// RedactedText is the replacement text for sensitive data.
const RedactedText = "[REDACTED]"

var (
	// Matches password=xxx, pwd=xxx, pass=xxx (until next delimiter).
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Matches connection string credentials (user:pass@host format).
	connStringPattern = regexp.MustCompile(`://[^:]+:[^@]+@[^/\s]+`)
)

// SanitizeConnectionString removes credentials from a connection string.
// Use this before logging any database URL.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)

	return sanitized
}

// SanitizeError sanitizes error messages that might contain credentials,
// such as pgx connection failures.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeConnectionString(err.Error())
}
