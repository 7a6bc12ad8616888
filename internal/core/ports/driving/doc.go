// Package driving defines the interfaces that driving adapters (the CLI)
// call INTO the core.
//
//   - ExtractionService: Runs the scanner over a dump file
//   - CatalogService: Imports and queries yield tables
//   - SettingsService: Reads and writes user settings
package driving
