// Command yieldgrab extracts isotope yield tables from yield database dumps.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/yieldgrab/internal/adapters/driven/config/file"
	"github.com/custodia-labs/yieldgrab/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/yieldgrab/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/yieldgrab/internal/adapters/driving/cli"
	"github.com/custodia-labs/yieldgrab/internal/core/domain"
	"github.com/custodia-labs/yieldgrab/internal/core/ports/driving"
	"github.com/custodia-labs/yieldgrab/internal/core/services"
	"github.com/custodia-labs/yieldgrab/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	svcs := cli.Services{
		Extraction: services.NewExtractionService(),
		Catalog:    openCatalog,
	}

	// A missing or unreadable config falls back to defaults.
	configStore, err := file.NewConfigStore("")
	if err != nil {
		logger.Warn("config unavailable: %v", err)
	} else {
		svcs.Settings = services.NewSettingsService(configStore)
	}

	cli.SetServices(svcs)
	return cli.Execute(ctx)
}

// openCatalog returns a catalog backed by SQLite, or by memory when
// catalog.memory is set. A memory catalog is filled from catalog.tables_dir
// on every run.
func openCatalog(ctx context.Context, settings *domain.AppSettings) (driving.CatalogService, func() error, error) {
	if settings.Catalog.Memory {
		svc := services.NewCatalogService(memory.NewCatalogStore())
		if settings.Catalog.TablesDir != "" {
			if _, err := svc.ImportDir(ctx, settings.Catalog.TablesDir); err != nil {
				return nil, nil, fmt.Errorf("loading tables: %w", err)
			}
		}
		return svc, func() error { return nil }, nil
	}

	store, err := sqlite.NewStore(settings.Catalog.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}
	logger.Debug("Catalog: %s", store.Path())
	return services.NewCatalogService(store), store.Close, nil
}
