package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/yieldgrab/internal/core/domain"
	"github.com/custodia-labs/yieldgrab/internal/core/ports/driving"
	"github.com/custodia-labs/yieldgrab/internal/logger"
	"github.com/custodia-labs/yieldgrab/internal/scanner"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// ExtractionService runs the line scanner over files on disk.
type ExtractionService struct{}

// NewExtractionService creates a new extraction service.
func NewExtractionService() *ExtractionService {
	return &ExtractionService{}
}

// Extract reads inputPath and writes the yield table to outputPath.
func (s *ExtractionService) Extract(ctx context.Context, inputPath, outputPath string) (*domain.ExtractResult, error) {
	logger.Section("Extraction")
	logger.Info("Beginning reading from %s...", inputPath)

	in, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}

	start := time.Now()
	stats, scanErr := scanner.Scan(ctx, in, out)
	closeErr := out.Close()

	result := &domain.ExtractResult{
		Input:        inputPath,
		Output:       outputPath,
		Lines:        stats.Lines,
		Rows:         stats.Rows,
		YieldMatches: stats.YieldMatches,
		FirstDate:    stats.FirstDate,
		Duration:     time.Since(start),
	}

	if scanErr != nil {
		return result, fmt.Errorf("extracting %s: %w", inputPath, scanErr)
	}
	if closeErr != nil {
		return result, fmt.Errorf("closing output: %w", closeErr)
	}

	logger.Debug("Lines: %d, yield matches: %d, retrieved: %q", result.Lines, result.YieldMatches, result.FirstDate)
	logger.Info("Wrote %d rows to %s in %s", result.Rows, outputPath, result.Duration.Round(time.Millisecond))
	return result, nil
}
