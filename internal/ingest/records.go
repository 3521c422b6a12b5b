package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AhmadFikry/subscription-recovery/internal/domain"
)

// Columns names the table columns the engine reads. Statement exports from
// different banks label things differently, so the names are overridable
// through configuration. Matching is case-insensitive and ignores
// surrounding whitespace; extra columns are ignored entirely.
type Columns struct {
	Date     string
	Merchant string
	Amount   string
}

// DefaultColumns are the column names the original export format uses.
func DefaultColumns() Columns {
	return Columns{Date: "date", Merchant: "merchant", Amount: "amount"}
}

// dateLayouts are the accepted date representations, tried in order. Only
// unambiguous layouts are listed; slashed day/month forms are deliberately
// absent.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"Jan 2, 2006",
	"2 January 2006",
}

// Records validates a raw table and converts it into typed transactions.
// It fails with *SchemaError when a required column is absent and with
// *ParseError on the first cell that does not parse; there is no row-level
// recovery. A table with zero data rows is a valid, empty input.
func Records(t *Table, cols Columns) ([]domain.Transaction, error) {
	idx, err := resolveColumns(t.Headers, cols)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Transaction, 0, len(t.Rows))
	for i, row := range t.Rows {
		if rowEmpty(row) {
			continue
		}
		rowNum := i + 1

		date, err := parseDate(cell(row, idx.date))
		if err != nil {
			return nil, &ParseError{Row: rowNum, Column: cols.Date, Value: cell(row, idx.date), Err: err}
		}

		amountStr := strings.TrimSpace(cell(row, idx.amount))
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, &ParseError{Row: rowNum, Column: cols.Amount, Value: amountStr, Err: err}
		}

		records = append(records, domain.Transaction{
			Date:     date,
			Merchant: strings.TrimSpace(cell(row, idx.merchant)),
			Amount:   amount,
			Index:    len(records),
		})
	}

	return records, nil
}

type columnIndex struct {
	date, merchant, amount int
}

// resolveColumns locates the required columns in the header row. Every
// missing column is reported at once rather than one at a time.
func resolveColumns(headers []string, cols Columns) (columnIndex, error) {
	find := func(name string) int {
		for i, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
				return i
			}
		}
		return -1
	}

	idx := columnIndex{
		date:     find(cols.Date),
		merchant: find(cols.Merchant),
		amount:   find(cols.Amount),
	}

	var missing []string
	if idx.date < 0 {
		missing = append(missing, cols.Date)
	}
	if idx.merchant < 0 {
		missing = append(missing, cols.Merchant)
	}
	if idx.amount < 0 {
		missing = append(missing, cols.Amount)
	}
	if len(missing) > 0 {
		return columnIndex{}, &SchemaError{Missing: missing}
	}
	return idx, nil
}

func parseDate(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
