package driving

import (
	"context"

	"github.com/custodia-labs/yieldgrab/internal/core/domain"
)

// ExtractionService turns a yield database HTML dump into a TSV table.
type ExtractionService interface {
	// Extract reads inputPath and writes the table to outputPath,
	// creating or truncating it. On a fatal extraction error the output
	// is left partially written and the returned result covers the lines
	// read so far.
	Extract(ctx context.Context, inputPath, outputPath string) (*domain.ExtractResult, error)
}
