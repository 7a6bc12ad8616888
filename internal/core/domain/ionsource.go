package domain

import "strings"

// IonSource is the ionisation method used to produce an isotope beam.
type IonSource string

// Known ion sources, in classification priority order.
const (
	// IonSourceReSurface is a rhenium surface ion source.
	IonSourceReSurface IonSource = "Re surface"

	// IonSourceTaSurface is a tantalum surface ion source.
	IonSourceTaSurface IonSource = "Ta surface"

	// IonSourceTRILIS is the resonant laser ion source.
	IonSourceTRILIS IonSource = "TRILIS"

	// IonSourceIGLIS is the ion-guide laser ion source.
	IonSourceIGLIS IonSource = "IG-LIS"

	// IonSourceFEBIAD is the forced electron beam induced arc discharge source.
	IonSourceFEBIAD IonSource = "FEBIAD"

	// IonSourceUnknown is written when no known source appears on a yield line.
	IonSourceUnknown IonSource = "Ion source"
)

// KnownIonSources returns the recognised sources in priority order.
// IonSourceUnknown is not included.
func KnownIonSources() []IonSource {
	return []IonSource{
		IonSourceReSurface,
		IonSourceTaSurface,
		IonSourceTRILIS,
		IonSourceIGLIS,
		IonSourceFEBIAD,
	}
}

// String returns the string representation.
func (s IonSource) String() string {
	return string(s)
}

// IsKnown returns true if the source is one of the recognised methods.
func (s IonSource) IsKnown() bool {
	for _, known := range KnownIonSources() {
		if s == known {
			return true
		}
	}
	return false
}

// ParseIonSource normalises a source label read back from a yield table.
// The short forms "Re" and "Ta" expand to their surface sources.
// Unrecognised labels are returned unchanged.
func ParseIonSource(label string) IonSource {
	label = strings.TrimSpace(label)
	switch label {
	case "Re":
		return IonSourceReSurface
	case "Ta":
		return IonSourceTaSurface
	}
	return IonSource(label)
}
