// Package sqlite provides a SQLite-backed implementation of driven.CatalogStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Measurements reference their import batch and are removed with it.
//
// # Data Location
//
// By default, the database is stored at ~/.yieldgrab/data/catalog.db
package sqlite
