// Package memory provides in-memory implementations of driven ports,
// used by tests and by the catalog when catalog.memory is set.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/yieldgrab/internal/core/domain"
	"github.com/custodia-labs/yieldgrab/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interface.
var _ driven.CatalogStore = (*CatalogStore)(nil)

// CatalogStore is an in-memory implementation of driven.CatalogStore.
type CatalogStore struct {
	mu           sync.RWMutex
	imports      map[string]domain.Import
	measurements map[string][]domain.Measurement
}

// NewCatalogStore creates a new in-memory catalog store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		imports:      make(map[string]domain.Import),
		measurements: make(map[string][]domain.Measurement),
	}
}

// SaveImport stores an import batch and its measurements.
func (s *CatalogStore) SaveImport(_ context.Context, imp domain.Import, measurements []domain.Measurement) error {
	if imp.ID == "" {
		return domain.ErrInvalidInput
	}
	stored := make([]domain.Measurement, len(measurements))
	for i, m := range measurements {
		m.ImportID = imp.ID
		stored[i] = m
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.imports[imp.ID] = imp
	s.measurements[imp.ID] = stored
	return nil
}

// GetImport retrieves an import batch by ID.
func (s *CatalogStore) GetImport(_ context.Context, id string) (*domain.Import, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	imp, ok := s.imports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &imp, nil
}

// ListImports returns all import batches, oldest first.
func (s *CatalogStore) ListImports(_ context.Context) ([]domain.Import, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Import, 0, len(s.imports))
	for _, imp := range s.imports {
		result = append(result, imp)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ImportedAt.Equal(result[j].ImportedAt) {
			return result[i].ImportedAt.Before(result[j].ImportedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteImport removes an import batch and its measurements.
func (s *CatalogStore) DeleteImport(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.imports[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.imports, id)
	delete(s.measurements, id)
	return nil
}

// ListMeasurements returns every measurement for the nucleus (Z, N).
func (s *CatalogStore) ListMeasurements(_ context.Context, z, n int) ([]domain.Measurement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Measurement
	for _, imp := range s.sortedImportIDs() {
		for _, m := range s.measurements[imp] {
			if m.Z == z && m.N == n {
				result = append(result, m)
			}
		}
	}
	return result, nil
}

// ListAllMeasurements returns every stored measurement in import order.
func (s *CatalogStore) ListAllMeasurements(_ context.Context) ([]domain.Measurement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Measurement
	for _, imp := range s.sortedImportIDs() {
		result = append(result, s.measurements[imp]...)
	}
	return result, nil
}

// sortedImportIDs returns import IDs in import order (caller must hold lock).
func (s *CatalogStore) sortedImportIDs() []string {
	ids := make([]string, 0, len(s.imports))
	for id := range s.imports {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.imports[ids[i]], s.imports[ids[j]]
		if !a.ImportedAt.Equal(b.ImportedAt) {
			return a.ImportedAt.Before(b.ImportedAt)
		}
		return a.ID < b.ID
	})
	return ids
}
