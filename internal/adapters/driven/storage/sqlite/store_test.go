package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/yieldgrab/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func sampleMeasurements() []domain.Measurement {
	return []domain.Measurement{
		{Z: 38, A: 98, N: 60, State: 1, Symbol: "Sr", Yield: 1.23e7, ProtonCurrent: 2,
			IonSource: domain.IonSourceTaSurface, Target: "UCx", Info: "cooldown test"},
		{Z: 37, A: 98, N: 61, State: 2, Symbol: "Rb", Yield: 4e5, ProtonCurrent: 10,
			IonSource: domain.IonSourceTRILIS, Target: "UCx"},
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "catalog.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	var count int
	require.NoError(t, reopened.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestStore_SaveAndGetImport(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	imp := domain.Import{ID: "imp-1", Target: "UCx", Origin: "ucx.tsv", Count: 2, ImportedAt: now}
	require.NoError(t, store.SaveImport(ctx, imp, sampleMeasurements()))

	got, err := store.GetImport(ctx, "imp-1")
	require.NoError(t, err)
	assert.Equal(t, "UCx", got.Target)
	assert.Equal(t, "ucx.tsv", got.Origin)
	assert.Equal(t, 2, got.Count)
	assert.True(t, now.Equal(got.ImportedAt))
}

func TestStore_GetImport_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetImport(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveImport_DuplicateRollsBack(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	imp := domain.Import{ID: "imp-1", Target: "UCx", ImportedAt: time.Now().UTC()}

	require.NoError(t, store.SaveImport(ctx, imp, sampleMeasurements()))
	require.Error(t, store.SaveImport(ctx, imp, sampleMeasurements()))

	ms, err := store.ListMeasurements(ctx, 38, 60)
	require.NoError(t, err)
	assert.Len(t, ms, 1)
}

func TestStore_ListMeasurements(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.SaveImport(ctx,
		domain.Import{ID: "imp-1", Target: "UCx", ImportedAt: now}, sampleMeasurements()))
	require.NoError(t, store.SaveImport(ctx,
		domain.Import{ID: "imp-2", Target: "Ta", ImportedAt: now.Add(time.Minute)},
		[]domain.Measurement{{Z: 38, A: 98, N: 60, State: 1, Symbol: "Sr", Yield: 5e3,
			IonSource: domain.IonSourceReSurface, Target: "Ta"}}))

	ms, err := store.ListMeasurements(ctx, 38, 60)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, "imp-1", ms[0].ImportID)
	assert.Equal(t, domain.IonSourceTaSurface, ms[0].IonSource)
	assert.Equal(t, "cooldown test", ms[0].Info)
	assert.Equal(t, "Ta", ms[1].Target)

	none, err := store.ListMeasurements(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_ListImports(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.SaveImport(ctx, domain.Import{ID: "b", Target: "Nb", ImportedAt: now.Add(time.Hour)}, nil))
	require.NoError(t, store.SaveImport(ctx, domain.Import{ID: "a", Target: "SiC", ImportedAt: now}, nil))

	imports, err := store.ListImports(ctx)
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, "a", imports[0].ID)
	assert.Equal(t, "b", imports[1].ID)
}

func TestStore_DeleteImportCascades(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveImport(ctx,
		domain.Import{ID: "imp-1", Target: "UCx", ImportedAt: time.Now().UTC()}, sampleMeasurements()))
	require.NoError(t, store.DeleteImport(ctx, "imp-1"))

	ms, err := store.ListMeasurements(ctx, 38, 60)
	require.NoError(t, err)
	assert.Empty(t, ms)

	var orphans int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM measurements").Scan(&orphans))
	assert.Zero(t, orphans)

	assert.ErrorIs(t, store.DeleteImport(ctx, "imp-1"), domain.ErrNotFound)
}

func TestStore_ListAllMeasurements(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.SaveImport(ctx,
		domain.Import{ID: "imp-2", Target: "Ta", ImportedAt: now.Add(time.Minute)},
		[]domain.Measurement{{Z: 11, A: 26, N: 15, State: 1, Symbol: "Na", Yield: 5e3,
			IonSource: domain.IonSourceReSurface, Target: "Ta"}}))
	require.NoError(t, store.SaveImport(ctx,
		domain.Import{ID: "imp-1", Target: "UCx", ImportedAt: now}, sampleMeasurements()))

	ms, err := store.ListAllMeasurements(ctx)
	require.NoError(t, err)
	require.Len(t, ms, 3)
	assert.Equal(t, 38, ms[0].Z)
	assert.Equal(t, 37, ms[1].Z)
	assert.Equal(t, "imp-2", ms[2].ImportID)
	assert.Equal(t, domain.IonSourceReSurface, ms[2].IonSource)
}

func TestStore_ListAllMeasurements_Empty(t *testing.T) {
	store := setupTestStore(t)

	ms, err := store.ListAllMeasurements(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ms)
}
