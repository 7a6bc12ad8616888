package domain

import "time"

// ExtractResult describes one completed or aborted extraction run.
type ExtractResult struct {
	// Input and Output are the file paths used.
	Input  string
	Output string

	// Lines is the number of input lines read.
	Lines int

	// Rows is the number of complete table rows written.
	Rows int

	// YieldMatches counts yield lines, normal and small exponent separately.
	YieldMatches int

	// FirstDate is the retrieval date found in the dump, if any.
	FirstDate string

	// Duration is how long the run took.
	Duration time.Duration
}
