package scanner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/yieldgrab/internal/logger"
)

// Region is the scanner's position relative to the record markers.
type Region int

const (
	// OutsideRegion ignores every field pattern.
	OutsideRegion Region = iota

	// InsideRegion tests each line against the field patterns.
	InsideRegion
)

// String returns the string representation.
func (r Region) String() string {
	if r == InsideRegion {
		return "inside"
	}
	return "outside"
}

// Stats summarises a completed or aborted scan.
type Stats struct {
	// Lines is the number of input lines read.
	Lines int

	// Rows is the number of rows terminated by an Info column.
	Rows int

	// YieldMatches counts yield triggers, normal and small exponent separately.
	YieldMatches int

	// FirstDate is the first date seen inside a record region. It is not written.
	FirstDate string
}

// Scanner turns dump lines into table rows. It is not safe for concurrent use.
type Scanner struct {
	w   *bufio.Writer
	err error

	region          Region
	awaitingComment bool
	firstDateSeen   bool

	line  int
	row   rowBuilder
	stats Stats
}

// New creates a scanner writing rows to w.
// Output is buffered; call Flush when done.
func New(w io.Writer) *Scanner {
	return &Scanner{w: bufio.NewWriter(w)}
}

// Scan writes the table header, then processes every line of r.
// Output written before a fatal error is flushed, so a failed run leaves
// a partially written table. A row still waiting for its Info line when
// the scan stops, for any reason, is reported as a warning.
func Scan(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	s := New(w)
	err := s.run(ctx, r)
	if flushErr := s.Flush(); err == nil {
		err = flushErr
	}
	if s.awaitingComment {
		logger.Warn("line %d: scan stopped before the Info line of row %d", s.line, s.stats.Rows+1)
	}
	return s.stats, err
}

func (s *Scanner) run(ctx context.Context, r io.Reader) error {
	if err := s.WriteHeader(); err != nil {
		return err
	}

	br := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, readErr := br.ReadString('\n')
		if line != "" {
			if err := s.Line(line); err != nil {
				return err
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return readErr
		}
	}
}

// WriteHeader writes the column header line.
func (s *Scanner) WriteHeader() error {
	s.emit(Header, "\n")
	return s.err
}

// Line processes one input line, including its line terminator if any.
func (s *Scanner) Line(line string) error {
	s.line++
	s.stats.Lines++

	if strings.Contains(line, openMarker) {
		s.setRegion(InsideRegion)
	}
	if s.region == InsideRegion && strings.Contains(line, closeMarker) {
		s.setRegion(OutsideRegion)
	}
	inside := s.region == InsideRegion

	if inside && dateLine.MatchString(line) && !s.firstDateSeen {
		s.firstDateSeen = true
		s.stats.FirstDate = dateLine.FindString(line)
		logger.Debug("line %d: records dated %s", s.line, s.stats.FirstDate)
	}

	if inside && elementLine.MatchString(line) {
		if err := s.element(line); err != nil {
			return err
		}
	}

	if inside && isotopeLine.MatchString(line) {
		if err := s.isotope(line); err != nil {
			return err
		}
	}

	if s.awaitingComment {
		s.comment(line)
	}

	if inside && yieldValue.MatchString(line) {
		if err := s.yield(line, yieldValue); err != nil {
			return err
		}
	}

	if inside && smallYieldValue.MatchString(line) {
		if err := s.yield(line, smallYieldValue); err != nil {
			return err
		}
	}

	return s.err
}

// Flush writes any buffered output.
func (s *Scanner) Flush() error {
	if s.err != nil {
		return s.err
	}
	return s.w.Flush()
}

// Stats returns the counters so far.
func (s *Scanner) Stats() Stats {
	return s.stats
}

// Region returns the current region.
func (s *Scanner) Region() Region {
	return s.region
}

// AwaitingComment reports whether the next line will be taken as the Info column.
func (s *Scanner) AwaitingComment() bool {
	return s.awaitingComment
}

func (s *Scanner) setRegion(r Region) {
	if s.region != r {
		logger.Debug("line %d: %s record region", s.line, r)
	}
	s.region = r
}

// element writes the atomic number followed by the element symbol.
func (s *Scanner) element(line string) error {
	fragment := elementFragment.FindString(line)
	if fragment == "" {
		return s.fail("element", ErrNoMatch)
	}
	z := atomicNumber.FindString(fragment)
	symbol := afterTag.FindStringSubmatch(fragment)
	if z == "" || symbol == nil {
		return s.fail("element", ErrNoMatch)
	}
	s.field(z + symbol[1])
	return nil
}

// isotope writes the mass number and state token.
func (s *Scanner) isotope(line string) error {
	token := isotopeToken.FindString(line)
	if token == "" {
		return s.fail("isotope", ErrNoMatch)
	}
	s.field(token)
	return nil
}

// yield writes intensity, proton current and ion source, then arms the
// Info line.
func (s *Scanner) yield(line string, value *regexp.Regexp) error {
	intensity := value.FindString(line)
	if intensity == "" {
		return s.fail("intensity", ErrNoMatch)
	}
	s.field(intensity)

	proton, err := extractProtonCurrent(line)
	if err != nil {
		return s.fail("proton current", err)
	}
	s.field(proton)

	s.field(classifyIonSource(line).String())

	s.stats.YieldMatches++
	s.awaitingComment = true
	return nil
}

// comment terminates the row with the trimmed line. A line that cannot be
// read as text is replaced by a single space.
func (s *Scanner) comment(line string) {
	info, err := extractComment(line)
	if err != nil {
		logger.Debug("line %d: unreadable Info line: %v", s.line, err)
		info = " "
	}
	s.emit(info, "\n")
	s.stats.Rows++
	logger.Debug("row %d: %s", s.stats.Rows, s.row.complete(info))
	s.awaitingComment = false
}

func (s *Scanner) field(value string) {
	s.emit(value, "\t")
	s.row.add(value)
}

func (s *Scanner) emit(parts ...string) {
	if s.err != nil {
		return
	}
	for _, p := range parts {
		if _, err := s.w.WriteString(p); err != nil {
			s.err = err
			return
		}
	}
}

func (s *Scanner) fail(field string, err error) error {
	return &ExtractError{Line: s.line, Field: field, Err: err}
}

// extractProtonCurrent reads the integer cell, falling back to a decimal
// cell, and returns the word characters after the opening '>'.
func extractProtonCurrent(line string) (string, error) {
	cell := protonCell.FindString(line)
	if cell == "" {
		cell = protonDecimalCell.FindString(line)
	}
	if cell == "" {
		return "", ErrNoMatch
	}
	inner := afterTag.FindStringSubmatch(cell)
	if inner == nil {
		return "", ErrNoMatch
	}
	return inner[1], nil
}

func extractComment(line string) (string, error) {
	if !utf8.ValidString(line) || strings.ContainsRune(line, 0) {
		return "", errNotText
	}
	return strings.Trim(line, commentCutset), nil
}

// rowBuilder mirrors the fields written for the current row.
type rowBuilder struct {
	fields []string
}

func (b *rowBuilder) add(value string) {
	b.fields = append(b.fields, value)
}

// complete returns the finished row and resets the builder.
func (b *rowBuilder) complete(info string) string {
	row := strings.Join(append(b.fields, info), "\t")
	b.fields = b.fields[:0]
	return row
}
