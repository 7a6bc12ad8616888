package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/yieldgrab/internal/core/domain"
)

// ImportOptions controls how a yield table is loaded.
type ImportOptions struct {
	// Target is the target material the table was measured on.
	Target string

	// Origin names where the table came from, usually its file path.
	Origin string

	// SkipInvalid drops unparsable rows instead of failing the import.
	SkipInvalid bool
}

// CatalogService stores extracted yield tables and answers nucleus queries.
type CatalogService interface {
	// Import parses a table and stores its rows as a new import batch.
	Import(ctx context.Context, r io.Reader, opts ImportOptions) (*domain.Import, error)

	// ImportDir imports every <target>.tsv file in dir, using the file
	// name without extension as the target. Unparsable rows are skipped.
	ImportDir(ctx context.Context, dir string) ([]domain.Import, error)

	// Imports lists all import batches.
	Imports(ctx context.Context) ([]domain.Import, error)

	// Remove deletes an import batch and its measurements, returning the
	// batch that was removed.
	Remove(ctx context.Context, importID string) (*domain.Import, error)

	// Isotope returns all measurements for nucleus (Z, N), ordered by
	// state and then by descending yield.
	Isotope(ctx context.Context, z, n int) ([]domain.Measurement, error)

	// Summary aggregates the yields for nucleus (Z, N). An empty source
	// includes every ion source.
	Summary(ctx context.Context, z, n int, source domain.IonSource) (*domain.NucleusSummary, error)

	// Matrix aggregates every stored nucleus into one mean or max yield,
	// ordered by Z then N. An empty source includes every ion source.
	// Nuclei with no measurement from the source are left out.
	Matrix(ctx context.Context, source domain.IonSource, kind domain.IntensityKind) ([]domain.NucleusIntensity, error)
}
