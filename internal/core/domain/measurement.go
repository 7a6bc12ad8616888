package domain

import (
	"fmt"
	"time"
)

// Measurement is one yield row read back from an extracted table.
type Measurement struct {
	// ImportID links to the Import that loaded this measurement.
	ImportID string

	// Z is the atomic number.
	Z int

	// A is the mass number.
	A int

	// N is the neutron number (A - Z).
	N int

	// State is 1 for the ground state and k+1 for metastable state mk.
	State int

	// Symbol is the element symbol as written in the Isotope column.
	Symbol string

	// Yield is the intensity in particles per second.
	Yield float64

	// ProtonCurrent is the driver beam current in microamps.
	ProtonCurrent int

	// IonSource is the ionisation method.
	IonSource IonSource

	// Target is the production target material (e.g. "SiC", "UCx").
	Target string

	// Info is the free-text comment column.
	Info string
}

// Nuclide returns a human-readable label such as "98Sr" or "98Rbm1".
func (m Measurement) Nuclide() string {
	if m.State > 1 {
		return fmt.Sprintf("%d%sm%d", m.A, m.Symbol, m.State-1)
	}
	return fmt.Sprintf("%d%s", m.A, m.Symbol)
}

// Import records a batch of measurements loaded from one yield table.
type Import struct {
	// ID is the unique import identifier.
	ID string

	// Target is the target material all rows were measured on.
	Target string

	// Origin is the file the rows were read from.
	Origin string

	// Count is the number of measurements stored.
	Count int

	// ImportedAt is when the batch was stored.
	ImportedAt time.Time
}

// NucleusSummary aggregates the yields stored for one nucleus.
type NucleusSummary struct {
	Z int
	N int

	// IonSource is the filter applied; empty means all sources.
	IonSource IonSource

	// Count is the number of measurements considered.
	Count int

	// States is the highest state index seen (1 = ground only).
	States int

	// AverageYield is the mean of all considered yields, 0 if none are positive.
	AverageYield float64

	// MaxYield is the largest considered yield.
	MaxYield float64
}

// IntensityKind selects the per-nucleus aggregate of an intensity matrix.
type IntensityKind int

const (
	// IntensityMean is the mean yield of a nucleus.
	IntensityMean IntensityKind = iota

	// IntensityMax is the largest yield of a nucleus.
	IntensityMax
)

// String returns the string representation.
func (k IntensityKind) String() string {
	if k == IntensityMax {
		return "max"
	}
	return "mean"
}

// NucleusIntensity is one cell of an intensity matrix over (N, Z).
type NucleusIntensity struct {
	Z int
	N int

	// Count is the number of measurements aggregated into Value.
	Count int

	// Value is the mean or maximum yield. It stays 0 unless the yields
	// sum (mean) or peak (max) above zero.
	Value float64
}
