// Package cli implements the yieldgrab command tree.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/yieldgrab/internal/core/domain"
	"github.com/custodia-labs/yieldgrab/internal/core/ports/driving"
	"github.com/custodia-labs/yieldgrab/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// verbose is the --verbose persistent flag.
var verbose bool

// CatalogOpener opens the catalog described by settings. The returned
// close function releases the underlying store.
type CatalogOpener func(ctx context.Context, settings *domain.AppSettings) (driving.CatalogService, func() error, error)

// Services are the core services the commands call into.
type Services struct {
	Extraction driving.ExtractionService
	Settings   driving.SettingsService
	Catalog    CatalogOpener
}

var (
	extractionService driving.ExtractionService
	settingsService   driving.SettingsService
	catalogOpener     CatalogOpener

	// catalogService is opened on first use by the catalog commands.
	catalogService driving.CatalogService
	closeCatalog   func() error
)

var rootCmd = &cobra.Command{
	Use:   "yieldgrab",
	Short: "Extract isotope yield tables from yield database HTML dumps",
	Long: `yieldgrab scans the HTML dump saved from the isotope yield database and
writes one tab-separated row per yield measurement.

Extracted tables can be loaded into a local catalog and queried per nucleus.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		applyLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// SetServices wires the core services into the command tree.
func SetServices(s Services) {
	extractionService = s.Extraction
	settingsService = s.Settings
	catalogOpener = s.Catalog
	catalogService = nil
	closeCatalog = nil
}

// Execute runs the command tree and releases the catalog afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeCatalog != nil {
		if closeErr := closeCatalog(); err == nil {
			err = closeErr
		}
		closeCatalog = nil
	}
	return err
}

// loadSettings returns the user settings, or defaults when none are configured.
func loadSettings() *domain.AppSettings {
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			return settings
		}
	}
	defaults := domain.DefaultAppSettings()
	return &defaults
}

// applyLogging enables debug output from the flag or the config file.
func applyLogging() {
	logger.SetVerbose(verbose || loadSettings().Log.Verbose)
}

// ensureCatalog opens the catalog on first use.
func ensureCatalog(ctx context.Context) error {
	if catalogService != nil {
		return nil
	}
	if catalogOpener == nil {
		return errors.New("catalog not configured")
	}

	svc, closeFn, err := catalogOpener(ctx, loadSettings())
	if err != nil {
		return err
	}
	catalogService = svc
	closeCatalog = closeFn
	return nil
}
