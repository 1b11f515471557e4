package data

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned when the input file does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidInput marks a column or matrix that cannot be processed,
	// e.g. an all-missing numeric column during fence computation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyColumn marks a categorical column with no observed values.
	ErrEmptyColumn = errors.New("empty column")
	// ErrSchemaMismatch marks an expected column that is absent or of the wrong kind.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// ColumnError ties a failure to the column and operation that produced it.
type ColumnError struct {
	Op     string
	Column string
	Err    error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }

func columnErr(op, col string, err error) error {
	return &ColumnError{Op: op, Column: col, Err: err}
}

// NewColumnError builds a ColumnError for callers outside this package.
func NewColumnError(op, col string, err error) error {
	return columnErr(op, col, err)
}
