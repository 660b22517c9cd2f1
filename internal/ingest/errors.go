package ingest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyFile is returned when the file has no header row
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrMissingValue is returned when a row has no value for a required column
	ErrMissingValue = errors.New("missing value")

	// ErrOutOfRange is returned when a decimal does not fit DECIMAL(4,2) or a
	// temperature does not fit an int
	ErrOutOfRange = errors.New("value out of range")
)

// MissingColumnsError is returned when the header row lacks required columns
type MissingColumnsError struct {
	Missing []string
	Headers []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("CSV header missing required columns %s (found %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Headers, ", "))
}

// RowError reports a value that could not be coerced. Line is the 1-based
// line number in the file, counting the header.
type RowError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("line %d, column %q, value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
