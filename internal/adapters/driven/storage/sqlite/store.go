package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/yieldgrab/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/yieldgrab/internal/core/domain"
	"github.com/custodia-labs/yieldgrab/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CatalogStore = (*Store)(nil)

// Store is a SQLite-based catalog store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.yieldgrab/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".yieldgrab", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations and records their versions.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_catalog.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveImport stores an import batch and its measurements in one transaction.
func (s *Store) SaveImport(ctx context.Context, imp domain.Import, measurements []domain.Measurement) (err error) {
	if imp.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO imports (id, target, origin, count, imported_at)
		VALUES (?, ?, ?, ?, ?)
	`, imp.ID, imp.Target, imp.Origin, imp.Count, imp.ImportedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving import: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO measurements (import_id, z, a, n, state, symbol, yield, proton_current, ion_source, target, info)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing measurement insert: %w", err)
	}
	defer stmt.Close()

	for i := range measurements {
		m := &measurements[i]
		_, err = stmt.ExecContext(ctx, imp.ID, m.Z, m.A, m.N, m.State, m.Symbol, m.Yield,
			m.ProtonCurrent, string(m.IonSource), m.Target, m.Info)
		if err != nil {
			return fmt.Errorf("saving measurement %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

// GetImport retrieves an import batch by ID.
func (s *Store) GetImport(ctx context.Context, id string) (*domain.Import, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, target, origin, count, imported_at FROM imports WHERE id = ?
	`, id)

	var imp domain.Import
	if err := row.Scan(&imp.ID, &imp.Target, &imp.Origin, &imp.Count, &imp.ImportedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning import: %w", err)
	}
	return &imp, nil
}

// ListImports returns all import batches, oldest first.
func (s *Store) ListImports(ctx context.Context) ([]domain.Import, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, target, origin, count, imported_at FROM imports ORDER BY imported_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing imports: %w", err)
	}
	defer rows.Close()

	var imports []domain.Import
	for rows.Next() {
		var imp domain.Import
		if err := rows.Scan(&imp.ID, &imp.Target, &imp.Origin, &imp.Count, &imp.ImportedAt); err != nil {
			return nil, fmt.Errorf("scanning import: %w", err)
		}
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}

// DeleteImport removes an import batch; its measurements cascade.
func (s *Store) DeleteImport(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM imports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting import: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListMeasurements returns every measurement for the nucleus (Z, N).
func (s *Store) ListMeasurements(ctx context.Context, z, n int) ([]domain.Measurement, error) {
	return s.queryMeasurements(ctx, "WHERE m.z = ? AND m.n = ?", z, n)
}

// ListAllMeasurements returns every stored measurement.
func (s *Store) ListAllMeasurements(ctx context.Context) ([]domain.Measurement, error) {
	return s.queryMeasurements(ctx, "")
}

// queryMeasurements lists measurements matching where, in import order.
func (s *Store) queryMeasurements(ctx context.Context, where string, args ...any) ([]domain.Measurement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.import_id, m.z, m.a, m.n, m.state, m.symbol, m.yield,
		       m.proton_current, m.ion_source, m.target, m.info
		FROM measurements m
		JOIN imports i ON i.id = m.import_id
		`+where+`
		ORDER BY i.imported_at, i.id, m.id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing measurements: %w", err)
	}
	defer rows.Close()

	var result []domain.Measurement
	for rows.Next() {
		var m domain.Measurement
		var source string
		if err := rows.Scan(&m.ImportID, &m.Z, &m.A, &m.N, &m.State, &m.Symbol, &m.Yield,
			&m.ProtonCurrent, &source, &m.Target, &m.Info); err != nil {
			return nil, fmt.Errorf("scanning measurement: %w", err)
		}
		m.IonSource = domain.IonSource(source)
		result = append(result, m)
	}
	return result, rows.Err()
}
