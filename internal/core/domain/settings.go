package domain

// AppSettings holds user configuration read from the config file.
// The extract operation itself takes no configuration.
type AppSettings struct {
	Log     LogSettings
	Catalog CatalogSettings
}

// LogSettings controls verbose output.
type LogSettings struct {
	// Verbose enables debug logging to stderr.
	Verbose bool
}

// CatalogSettings controls where the yield catalog is kept.
type CatalogSettings struct {
	// DataDir is the directory holding catalog.db.
	// Empty means ~/.yieldgrab/data.
	DataDir string

	// Memory keeps the catalog in memory for the lifetime of the process.
	Memory bool

	// TablesDir holds <target>.tsv tables loaded into the catalog at
	// startup when Memory is set.
	TablesDir string
}

// DefaultAppSettings returns the settings used when no config file exists.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Log: LogSettings{Verbose: false},
		Catalog: CatalogSettings{
			DataDir:   "",
			Memory:    false,
			TablesDir: "",
		},
	}
}
