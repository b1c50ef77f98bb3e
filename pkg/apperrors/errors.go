package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoFileUploaded    = errors.New("no file uploaded")
	ErrInvalidPeriod     = errors.New("invalid period, must be daily, weekly, or monthly")
)

// ParseError indicates the uploaded file is malformed for its claimed extension.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError carries every row-level violation found in an import batch.
// Nothing is persisted when validation fails.
type ValidationError struct {
	Format string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("data validation failed with %d error(s)", len(e.Errors))
}

// IngestionError wraps a storage error raised during the bulk insert.
// The surrounding transaction has already been rolled back.
type IngestionError struct {
	Err error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("failed to import sales records: %v", e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }
