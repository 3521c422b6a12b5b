package ingest

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns that are absent from the input.
// It is fatal for the invocation; there is no partial result.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input is missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// ParseError reports a cell value that could not be coerced to its expected
// type. A single bad row aborts the whole run; the engine never skips rows.
type ParseError struct {
	Row    int    // 1-based data row number (excluding the header)
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: column %q: cannot parse %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
