package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is the raw tabular input handed to the validator: one header row and
// zero or more data rows, all values still strings. Both the CSV and the
// XLSX reader produce this shape so validation happens in exactly one place.
type Table struct {
	Headers []string
	Rows    [][]string
	Source  string // file path or URI the table was read from
}

// ReadTable parses raw bytes into a Table, choosing the reader by the file
// extension of name. Anything that is not .xlsx is treated as CSV.
func ReadTable(name string, data []byte) (*Table, error) {
	if strings.EqualFold(path.Ext(name), ".xlsx") {
		return ReadXLSX(bytes.NewReader(data), name)
	}
	return ReadCSV(bytes.NewReader(data), name)
}

// ReadCSV reads a comma-separated table. The first row is the header.
// An input with zero rows yields a Table with no headers, which the
// validator will reject as missing every required column.
func ReadCSV(r io.Reader, source string) (*Table, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	// Statement exports are often hand-edited; tolerate ragged rows and
	// sloppy quoting, validation catches real problems later.
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ReadCSV %s: %w", source, err)
	}
	if len(rows) == 0 {
		return &Table{Source: source}, nil
	}
	return &Table{Headers: rows[0], Rows: rows[1:], Source: source}, nil
}

// ReadXLSX reads the first sheet of an XLSX workbook as a table. Cell values
// come back as formatted strings, the same shape the CSV reader produces.
func ReadXLSX(r io.Reader, source string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ReadXLSX %s: open workbook: %w", source, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("ReadXLSX %s: workbook has no sheets", source)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("ReadXLSX %s: read sheet %q: %w", source, sheet, err)
	}
	if len(rows) == 0 {
		return &Table{Source: source}, nil
	}
	return &Table{Headers: rows[0], Rows: rows[1:], Source: source}, nil
}
