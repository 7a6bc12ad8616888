// Package yieldtab reads the tab-separated yield tables written by the
// scanner back into typed measurements.
package yieldtab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/yieldgrab/internal/core/domain"
	"github.com/custodia-labs/yieldgrab/internal/logger"
	"github.com/custodia-labs/yieldgrab/internal/scanner"
)

// minColumns is Isotope, State, Intensity, Proton current and Ion source.
const minColumns = 5

// Reader parses rows from a yield table.
type Reader struct {
	r      *bufio.Reader
	target string
	line   int

	// SkipInvalid logs and drops rows that cannot be parsed instead of
	// failing the whole read.
	SkipInvalid bool
}

// NewReader creates a reader for a table measured on the given target.
func NewReader(r io.Reader, target string) *Reader {
	return &Reader{r: bufio.NewReader(r), target: target}
}

// Read returns every measurement in the table.
// The header line and blank lines are skipped.
func (r *Reader) Read() ([]domain.Measurement, error) {
	var out []domain.Measurement
	for {
		line, readErr := r.r.ReadString('\n')
		if line != "" {
			r.line++
			m, ok, err := r.parse(line)
			if err != nil {
				if !r.SkipInvalid {
					return out, err
				}
				logger.Warn("skipping %v", err)
			} else if ok {
				out = append(out, m)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return out, nil
			}
			return out, readErr
		}
	}
}

func (r *Reader) parse(line string) (domain.Measurement, bool, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" || line == scanner.Header {
		return domain.Measurement{}, false, nil
	}
	m, err := ParseRow(line, r.target)
	if err != nil {
		return domain.Measurement{}, false, fmt.Errorf("line %d: %w", r.line, err)
	}
	return m, true, nil
}

// ParseRow parses one table row.
//
// Unparsable numeric columns read as zero. A row is rejected with
// domain.ErrInvalidInput when it has too few columns or does not name
// a nucleus with a positive atomic number.
func ParseRow(line, target string) (domain.Measurement, error) {
	cols := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(cols) < minColumns {
		return domain.Measurement{}, fmt.Errorf("%w: %d columns, want at least %d",
			domain.ErrInvalidInput, len(cols), minColumns)
	}

	z, symbol := splitIsotope(cols[0])
	a := massNumber(cols[1])
	m := domain.Measurement{
		Z:             z,
		A:             a,
		N:             a - z,
		State:         stateIndex(cols[1]),
		Symbol:        symbol,
		Yield:         parseFloat(cols[2]),
		ProtonCurrent: leadingInt(cols[3]),
		IonSource:     domain.ParseIonSource(cols[4]),
		Target:        target,
	}
	if len(cols) > minColumns {
		m.Info = strings.TrimSpace(cols[minColumns])
	}

	if m.Z < 1 || m.N < 0 {
		return domain.Measurement{}, fmt.Errorf("%w: no nucleus in %q/%q",
			domain.ErrInvalidInput, cols[0], cols[1])
	}
	return m, nil
}

// splitIsotope splits "92Sr" into 92 and "Sr".
func splitIsotope(s string) (int, string) {
	s = strings.TrimSpace(s)
	z := leadingInt(s)
	symbol := strings.TrimLeft(s, "0123456789")
	return z, symbol
}

// massNumber collects the digits of the state token, ignoring its last
// character, so "Sr98g" and "Rb98m1" both give 98.
func massNumber(token string) int {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0
	}
	var digits strings.Builder
	for _, c := range token[:len(token)-1] {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}

// stateIndex returns k+1 for a token ending in "mk" and 1 otherwise.
func stateIndex(token string) int {
	token = strings.TrimSpace(token)
	if len(token) < 2 || token[len(token)-2] != 'm' {
		return 1
	}
	last := token[len(token)-1]
	if last < '0' || last > '9' {
		return 1
	}
	return int(last-'0') + 1
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// leadingInt parses the integer prefix of s, or 0 if there is none.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
