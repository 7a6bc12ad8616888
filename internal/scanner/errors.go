package scanner

import (
	"errors"
	"fmt"
)

// ErrNoMatch is returned when a trigger line does not contain the fragment
// the field is extracted from.
var ErrNoMatch = errors.New("pattern did not match")

// errNotText marks an Info line that cannot be treated as text.
var errNotText = errors.New("line is not text")

// ExtractError reports a fatal extraction failure on a specific input line.
type ExtractError struct {
	// Line is the 1-based input line number.
	Line int

	// Field names the column being extracted.
	Field string

	// Err is the underlying cause.
	Err error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("line %d: extracting %s: %v", e.Line, e.Field, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}
