package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/yieldgrab/internal/core/domain"
	"github.com/custodia-labs/yieldgrab/internal/core/ports/driven"
	"github.com/custodia-labs/yieldgrab/internal/core/ports/driving"
	"github.com/custodia-labs/yieldgrab/internal/logger"
	"github.com/custodia-labs/yieldgrab/internal/yieldtab"
)

// tableExt is the extension of yield tables loaded by ImportDir.
const tableExt = ".tsv"

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService stores yield tables per target and aggregates them per nucleus.
type CatalogService struct {
	store driven.CatalogStore
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store driven.CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// Import parses a yield table and stores it as a new batch.
func (s *CatalogService) Import(ctx context.Context, r io.Reader, opts driving.ImportOptions) (*domain.Import, error) {
	if s.store == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	target := strings.TrimSpace(opts.Target)
	if target == "" {
		return nil, fmt.Errorf("%w: target material is required", domain.ErrInvalidInput)
	}

	logger.Section("Catalog Import")
	reader := yieldtab.NewReader(r, target)
	reader.SkipInvalid = opts.SkipInvalid
	measurements, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading yield table: %w", err)
	}

	imp := domain.Import{
		ID:         uuid.New().String(),
		Target:     target,
		Origin:     opts.Origin,
		Count:      len(measurements),
		ImportedAt: time.Now().UTC(),
	}
	if err := s.store.SaveImport(ctx, imp, measurements); err != nil {
		return nil, fmt.Errorf("saving import: %w", err)
	}

	logger.Debug("Import %s: %d measurements on %s", imp.ID, imp.Count, imp.Target)
	return &imp, nil
}

// ImportDir imports each <target>.tsv table in dir, in name order.
func (s *CatalogService) ImportDir(ctx context.Context, dir string) ([]domain.Import, error) {
	if s.store == nil {
		return nil, domain.ErrCatalogUnavailable
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*"+tableExt))
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	sort.Strings(paths)

	imports := make([]domain.Import, 0, len(paths))
	for _, path := range paths {
		imp, err := s.importFile(ctx, path)
		if err != nil {
			return imports, err
		}
		imports = append(imports, *imp)
	}

	if len(imports) == 0 {
		logger.Warn("no %s tables found in %s", tableExt, dir)
	}
	return imports, nil
}

func (s *CatalogService) importFile(ctx context.Context, path string) (*domain.Import, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table: %w", err)
	}
	defer f.Close()

	target := strings.TrimSuffix(filepath.Base(path), tableExt)
	return s.Import(ctx, f, driving.ImportOptions{
		Target:      target,
		Origin:      path,
		SkipInvalid: true,
	})
}

// Imports lists all stored batches.
func (s *CatalogService) Imports(ctx context.Context) ([]domain.Import, error) {
	if s.store == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	return s.store.ListImports(ctx)
}

// Remove deletes a batch and returns what was deleted.
func (s *CatalogService) Remove(ctx context.Context, importID string) (*domain.Import, error) {
	if s.store == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	imp, err := s.store.GetImport(ctx, importID)
	if err != nil {
		return nil, err
	}
	if err := s.store.DeleteImport(ctx, importID); err != nil {
		return nil, err
	}
	logger.Debug("Removed import %s: %d measurements on %s", imp.ID, imp.Count, imp.Target)
	return imp, nil
}

// Isotope returns the measurements for one nucleus.
func (s *CatalogService) Isotope(ctx context.Context, z, n int) ([]domain.Measurement, error) {
	if s.store == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	if err := validateNucleus(z, n); err != nil {
		return nil, err
	}

	measurements, err := s.store.ListMeasurements(ctx, z, n)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(measurements, func(i, j int) bool {
		if measurements[i].State != measurements[j].State {
			return measurements[i].State < measurements[j].State
		}
		return measurements[i].Yield > measurements[j].Yield
	})
	return measurements, nil
}

// Summary returns the count, states, average and maximum yield for a nucleus.
func (s *CatalogService) Summary(ctx context.Context, z, n int, source domain.IonSource) (*domain.NucleusSummary, error) {
	measurements, err := s.Isotope(ctx, z, n)
	if err != nil {
		return nil, err
	}

	summary := &domain.NucleusSummary{Z: z, N: n, IonSource: source}
	var sum float64
	for i := range measurements {
		m := measurements[i]
		if m.State > summary.States {
			summary.States = m.State
		}
		if source != "" && m.IonSource != source {
			continue
		}
		summary.Count++
		sum += m.Yield
		if m.Yield > summary.MaxYield {
			summary.MaxYield = m.Yield
		}
	}
	if sum > 0 {
		summary.AverageYield = sum / float64(summary.Count)
	}
	return summary, nil
}

// Matrix returns the mean or max yield of every stored nucleus.
func (s *CatalogService) Matrix(ctx context.Context, source domain.IonSource, kind domain.IntensityKind) ([]domain.NucleusIntensity, error) {
	if s.store == nil {
		return nil, domain.ErrCatalogUnavailable
	}

	measurements, err := s.store.ListAllMeasurements(ctx)
	if err != nil {
		return nil, err
	}

	type nucleus struct{ z, n int }
	type cell struct {
		count int
		sum   float64
		max   float64
	}
	cells := make(map[nucleus]*cell)
	for i := range measurements {
		m := measurements[i]
		if source != "" && m.IonSource != source {
			continue
		}
		key := nucleus{m.Z, m.N}
		c, ok := cells[key]
		if !ok {
			c = &cell{}
			cells[key] = c
		}
		c.count++
		c.sum += m.Yield
		if m.Yield > c.max {
			c.max = m.Yield
		}
	}

	matrix := make([]domain.NucleusIntensity, 0, len(cells))
	for key, c := range cells {
		entry := domain.NucleusIntensity{Z: key.z, N: key.n, Count: c.count}
		switch kind {
		case domain.IntensityMax:
			entry.Value = c.max
		default:
			if c.sum > 0 {
				entry.Value = c.sum / float64(c.count)
			}
		}
		matrix = append(matrix, entry)
	}
	sort.Slice(matrix, func(i, j int) bool {
		if matrix[i].Z != matrix[j].Z {
			return matrix[i].Z < matrix[j].Z
		}
		return matrix[i].N < matrix[j].N
	})

	logger.Debug("Matrix (%s, source %q): %d nuclei from %d measurements", kind, source, len(matrix), len(measurements))
	return matrix, nil
}

func validateNucleus(z, n int) error {
	if z < 1 || n < 0 {
		return fmt.Errorf("%w: Z must be positive and N non-negative (got Z=%d, N=%d)",
			domain.ErrInvalidInput, z, n)
	}
	return nil
}
