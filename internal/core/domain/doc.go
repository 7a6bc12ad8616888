// Package domain defines the core business entities for yieldgrab.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - IonSource: The ionisation method a yield was measured with
//   - Measurement: One parsed row of an extracted yield table
//   - Import: A batch of measurements loaded into the catalog
//   - NucleusSummary: Aggregated yields for one nucleus
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
