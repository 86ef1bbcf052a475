// =============================================================================
// fxexport - Rate Sheet Parser
// =============================================================================
//
// Parses a daily exchange-rate list from an XLSX workbook so offices can
// post the list the report conversion depends on. The expected sheet layout
// matches the list the national bank distributes:
//
//   | Code | Currency | Unit | Buy     | Middle  | Sell    |
//   | 978  | EUR      | 1    | 1.95583 | 1.95583 | 1.95583 |
//   | 840  | USD      | 1    | 1.67104 | 1.67523 | 1.67942 |
//
// Rows whose code column is not a numeric currency code (headers, footers,
// section titles) are skipped. Decimal commas are accepted alongside
// decimal points.
//
// =============================================================================

package ratesheet

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/exchbih/fxexport/internal/store"
)

// =============================================================================
// COLUMN CONFIGURATION
// =============================================================================

// Columns defines which sheet columns contain which data.
// Column indices are 0-based (A=0, B=1, C=2, ...).
type Columns struct {
	// Code is the column with the numeric currency code.
	Code int

	// Buy, Middle and Sell are the rate columns.
	Buy    int
	Middle int
	Sell   int
}

// DefaultColumns matches the distributed rate-list layout.
func DefaultColumns() Columns {
	return Columns{Code: 0, Buy: 3, Middle: 4, Sell: 5}
}

// =============================================================================
// PARSING
// =============================================================================

// Parse reads the first sheet of the workbook with the default layout.
func Parse(path string) ([]store.RateRow, error) {
	return ParseWithColumns(path, DefaultColumns())
}

// ParseWithColumns reads the first sheet of the workbook with a custom
// column layout.
//
// RETURNS:
//   - One RateRow per currency row found.
//   - An error if the workbook cannot be read or contains no rate rows.
func ParseWithColumns(path string, cols Columns) ([]store.RateRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open rate sheet %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("rate sheet %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	var out []store.RateRow
	for i, row := range rows {
		code := cell(row, cols.Code)
		if !isCurrencyCode(code) {
			// Header, footer or section row.
			continue
		}

		buy, err := parseRate(cell(row, cols.Buy))
		if err != nil {
			return nil, fmt.Errorf("row %d, currency %s, buy rate: %w", i+1, code, err)
		}
		middle, err := parseRate(cell(row, cols.Middle))
		if err != nil {
			return nil, fmt.Errorf("row %d, currency %s, middle rate: %w", i+1, code, err)
		}
		sell, err := parseRate(cell(row, cols.Sell))
		if err != nil {
			return nil, fmt.Errorf("row %d, currency %s, sell rate: %w", i+1, code, err)
		}

		out = append(out, store.RateRow{
			Currency: code,
			Buy:      buy,
			Middle:   middle,
			Sell:     sell,
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("rate sheet %s contains no rate rows", path)
	}

	return out, nil
}

// =============================================================================
// CELL HELPERS
// =============================================================================

// cell returns the trimmed value of a column, "" when the row is short.
func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// isCurrencyCode reports whether s looks like a numeric ISO 4217 code.
func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseRate parses a rate cell, accepting a decimal comma.
func parseRate(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty rate cell")
	}
	return decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
}
