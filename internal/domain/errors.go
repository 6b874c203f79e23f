package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyReport is returned when none of the requested report sections
// produced a sheet.
var ErrEmptyReport = errors.New("no report sections selected")

// MissingColumnsError aborts a load when required columns are absent.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// UnsupportedFormatError aborts a load for an unrecognised file type.
type UnsupportedFormatError struct {
	Name      string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("unsupported file format for %s (expected .csv or .xlsx)", e.Name)
	}
	return fmt.Sprintf("unsupported file format %s for %s (expected .csv or .xlsx)", e.Extension, e.Name)
}

// DegenerateInputError means ABC percentages are undefined because the value
// total is zero or not representable. Metrics are unaffected.
type DegenerateInputError struct {
	Rows     int
	Overflow bool
}

func (e *DegenerateInputError) Error() string {
	if e.Rows == 0 {
		return "abc classification undefined: table is empty"
	}
	if e.Overflow {
		return fmt.Sprintf("abc classification undefined: total value of %d row(s) overflows", e.Rows)
	}
	return fmt.Sprintf("abc classification undefined: total value of %d row(s) is zero", e.Rows)
}
