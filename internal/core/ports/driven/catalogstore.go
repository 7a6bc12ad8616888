package driven

import (
	"context"

	"github.com/custodia-labs/yieldgrab/internal/core/domain"
)

// CatalogStore persists imported yield measurements.
type CatalogStore interface {
	// SaveImport stores an import batch and its measurements atomically.
	// Each measurement's ImportID is set to imp.ID.
	SaveImport(ctx context.Context, imp domain.Import, measurements []domain.Measurement) error

	// GetImport retrieves an import batch by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetImport(ctx context.Context, id string) (*domain.Import, error)

	// ListImports returns all import batches, oldest first.
	ListImports(ctx context.Context) ([]domain.Import, error)

	// DeleteImport removes an import batch and its measurements.
	// Returns domain.ErrNotFound if it does not exist.
	DeleteImport(ctx context.Context, id string) error

	// ListMeasurements returns every measurement for the nucleus (Z, N).
	ListMeasurements(ctx context.Context, z, n int) ([]domain.Measurement, error)

	// ListAllMeasurements returns every stored measurement.
	ListAllMeasurements(ctx context.Context) ([]domain.Measurement, error)
}
