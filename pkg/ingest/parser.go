package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/insightlane/sales-engine/pkg/apperrors"
	"github.com/insightlane/sales-engine/pkg/models"
)

// biffMaxColumns is the BIFF8 worksheet column limit.
const biffMaxColumns = 256

// ParseFile reads an uploaded file into raw rows. The first row is treated
// as the header; each data row becomes a RawRow keyed by header name.
// Supported extensions are .csv, .xls and .xlsx; anything else fails with
// ErrUnsupportedFormat before any parsing. Malformed content fails with a
// ParseError wrapping the underlying parser's message.
func ParseFile(path, ext string) ([]models.RawRow, error) {
	switch strings.ToLower(ext) {
	case ".csv":
		return parseCSV(path)
	case ".xls":
		return parseLegacyExcel(path)
	case ".xlsx":
		return parseExcel(path)
	default:
		return nil, apperrors.ErrUnsupportedFormat
	}
}

func parseCSV(path string) ([]models.RawRow, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}

	r := csv.NewReader(bytes.NewReader(content))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, &apperrors.ParseError{Filename: filepath.Base(path), Err: err}
	}

	var rows []models.RawRow
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &apperrors.ParseError{Filename: filepath.Base(path), Err: err}
		}
		rows = append(rows, rowFromRecord(headers, record))
	}
	return rows, nil
}

func parseExcel(path string) ([]models.RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &apperrors.ParseError{Filename: filepath.Base(path), Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &apperrors.ParseError{Filename: filepath.Base(path), Err: err}
	}
	if len(raw) < 2 {
		return nil, nil
	}

	headers := raw[0]
	rows := make([]models.RawRow, 0, len(raw)-1)
	for _, record := range raw[1:] {
		rows = append(rows, rowFromRecord(headers, record))
	}
	return rows, nil
}

// parseLegacyExcel reads a binary BIFF .xls workbook, which excelize does
// not understand. Only the first sheet is read, matching parseExcel.
func parseLegacyExcel(path string) ([]models.RawRow, error) {
	workbook, err := xls.OpenFile(path)
	if err != nil {
		return nil, &apperrors.ParseError{Filename: filepath.Base(path), Err: err}
	}

	sh, err := workbook.GetSheet(0)
	if err != nil {
		return nil, &apperrors.ParseError{Filename: filepath.Base(path), Err: err}
	}

	var table [][]string
	for i := 0; i <= sh.GetNumberRows(); i++ {
		r, err := sh.GetRow(i)
		if err != nil {
			break
		}
		cells := make([]string, 0, biffMaxColumns)
		for j := 0; j < biffMaxColumns; j++ {
			cell, err := r.GetCol(j)
			if err != nil {
				break
			}
			cells = append(cells, cell.GetString())
		}
		table = append(table, cells)
	}

	if len(table) < 2 {
		return nil, nil
	}

	headers := table[0]
	rows := make([]models.RawRow, 0, len(table)-1)
	for _, record := range table[1:] {
		rows = append(rows, rowFromRecord(headers, record))
	}
	return rows, nil
}

// rowFromRecord maps one data record onto the header names. Cells beyond
// the header width are dropped; short records leave the trailing headers
// mapped to the empty string.
func rowFromRecord(headers, record []string) models.RawRow {
	row := make(models.RawRow, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if i < len(record) {
			row[h] = strings.TrimSpace(record[i])
		} else {
			row[h] = ""
		}
	}
	return row
}
