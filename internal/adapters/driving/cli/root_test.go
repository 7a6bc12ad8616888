package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/yieldgrab/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/yieldgrab/internal/core/domain"
	"github.com/custodia-labs/yieldgrab/internal/core/ports/driving"
	"github.com/custodia-labs/yieldgrab/internal/core/services"
	"github.com/custodia-labs/yieldgrab/internal/logger"
)

// stubSettings returns fixed settings.
type stubSettings struct {
	settings *domain.AppSettings
	err      error
}

func (s *stubSettings) Get() (*domain.AppSettings, error) { return s.settings, s.err }
func (s *stubSettings) Save(*domain.AppSettings) error    { return nil }
func (s *stubSettings) ConfigPath() string                { return "" }

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "yieldgrab", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"extract", "watch", "catalog", "version"})
}

func TestLoadSettings_DefaultsWithoutService(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	settings := loadSettings()

	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestLoadSettings_DefaultsOnError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	settingsService = &stubSettings{err: errors.New("unreadable")}

	settings := loadSettings()

	assert.False(t, settings.Log.Verbose)
}

func TestApplyLogging_FromSettings(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	settingsService = &stubSettings{settings: &domain.AppSettings{Log: domain.LogSettings{Verbose: true}}}

	applyLogging()

	assert.True(t, logger.IsVerbose())
}

func TestApplyLogging_FromFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	verbose = true

	applyLogging()

	assert.True(t, logger.IsVerbose())
}

func TestEnsureCatalog_NotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	SetServices(Services{})

	err := ensureCatalog(context.Background())

	assert.Error(t, err)
	assert.Nil(t, catalogService)
}

func TestEnsureCatalog_OpensOnce(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	opened := 0
	SetServices(Services{
		Catalog: func(_ context.Context, _ *domain.AppSettings) (driving.CatalogService, func() error, error) {
			opened++
			return services.NewCatalogService(memory.NewCatalogStore()), func() error { return nil }, nil
		},
	})

	require.NoError(t, ensureCatalog(context.Background()))
	require.NoError(t, ensureCatalog(context.Background()))

	assert.Equal(t, 1, opened)
	assert.NotNil(t, catalogService)
}

func TestExecute_ClosesCatalog(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	closed := false
	SetServices(Services{
		Catalog: func(_ context.Context, _ *domain.AppSettings) (driving.CatalogService, func() error, error) {
			return services.NewCatalogService(memory.NewCatalogStore()), func() error {
				closed = true
				return nil
			}, nil
		},
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"catalog", "imports"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := Execute(context.Background())

	require.NoError(t, err)
	assert.True(t, closed)
	assert.Contains(t, buf.String(), "No tables imported.")
}
