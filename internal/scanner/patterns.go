package scanner

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/yieldgrab/internal/core/domain"
)

// Header is the first line of every extracted table.
const Header = "Isotope\tState\tIntensity (pps)\tProton current\tIon source\tInfo"

// Region delimiters.
const (
	openMarker  = "records retrieved on"
	closeMarker = "PrimeFaces.cw"
)

// Pre-compiled patterns. The *Line patterns decide whether a line is a
// trigger; the others pull the field out of it.
var (
	dateLine = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

	elementLine     = regexp.MustCompile(`>\d+</sub><b>\w+<`)
	elementFragment = regexp.MustCompile(`\d+</sub><b>\w+`)
	atomicNumber    = regexp.MustCompile(`\d+`)
	afterTag        = regexp.MustCompile(`>(\w+)`)

	// isotopeLine is anchored: the token must open the line after whitespace.
	isotopeLine  = regexp.MustCompile(`^[ \t\n\r\f\v]+[a-zA-z]+\d+\w+[ \t\n\r\f\v]+`)
	isotopeToken = regexp.MustCompile(`[a-zA-z]+\d+\w+`)

	yieldValue      = regexp.MustCompile(`\d+` + anyByte + `\d+E\d+`)
	smallYieldValue = regexp.MustCompile(`\d+` + anyByte + `\d+E-\d+`)

	protonCell        = regexp.MustCompile(`>\d+<`)
	protonDecimalCell = regexp.MustCompile(`>\d+` + anyByte + `\d+<`)
)

// anyByte stands for the separator between mantissa digits. Dumps are
// matched byte-wise, so it accepts one ASCII byte other than newline or
// one byte of invalid UTF-8 (which regexp reads as U+FFFD), but never a
// multi-byte character such as "é".
const anyByte = `(?:[\x00-\x09\x0B-\x7F]|\x{FFFD})`

// commentCutset is the whitespace stripped from both ends of the Info column.
const commentCutset = " \t\n\r\f\v"

// classifyIonSource returns the first known source named on the line,
// in the order Re surface, Ta surface, TRILIS, IG-LIS, FEBIAD.
func classifyIonSource(line string) domain.IonSource {
	for _, source := range domain.KnownIonSources() {
		if strings.Contains(line, source.String()) {
			return source
		}
	}
	return domain.IonSourceUnknown
}
