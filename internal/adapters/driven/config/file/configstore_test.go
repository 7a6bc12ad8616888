package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("catalog.data_dir", "/srv/yields"))

	val, ok := store.Get("catalog.data_dir")
	assert.True(t, ok)
	assert.Equal(t, "/srv/yields", val)
	assert.Equal(t, "/srv/yields", store.GetString("catalog.data_dir"))
}

func TestConfigStore_GetString_WrongType(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("log.verbose", true))

	assert.Equal(t, "", store.GetString("log.verbose"))
	assert.Equal(t, "", store.GetString("nonexistent"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("log.verbose", true))
	require.NoError(t, store.Set("catalog.data_dir", "x"))

	assert.True(t, store.GetBool("log.verbose"))
	assert.False(t, store.GetBool("catalog.data_dir"))
	assert.False(t, store.GetBool("nonexistent"))
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("log.verbose", true))
	require.NoError(t, store.Set("catalog.memory", false))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[log]")
	assert.Contains(t, string(raw), "[catalog]")

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.True(t, reopened.GetBool("log.verbose"))
	_, ok := reopened.Get("catalog.memory")
	assert.True(t, ok)
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[log]\nverbose = true\n\n[catalog]\ndata_dir = \"/data/yields\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.True(t, store.GetBool("log.verbose"))
	assert.Equal(t, "/data/yields", store.GetString("catalog.data_dir"))
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok := store.Get("log.verbose")
	assert.False(t, ok)
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[log\nverbose = "), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("log.verbose", true))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("log.verbose", true)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetBool("log.verbose")
		}()
	}
	wg.Wait()

	assert.True(t, store.GetBool("log.verbose"))
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"log.verbose":      true,
		"catalog.data_dir": "/d",
		"top":              1,
	})

	assert.Equal(t, map[string]any{
		"log":     map[string]any{"verbose": true},
		"catalog": map[string]any{"data_dir": "/d"},
		"top":     1,
	}, nested)
	assert.Equal(t, map[string]any{
		"log.verbose":      true,
		"catalog.data_dir": "/d",
		"top":              1,
	}, flattenMap(nested, ""))
}
