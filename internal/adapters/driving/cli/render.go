package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Colours shared by catalog output.
var (
	colourAccent = lipgloss.Color("#7C3AED")
	colourMuted  = lipgloss.Color("#6C7086")
	colourValue  = lipgloss.Color("#06B6D4")
)

// table renders aligned columns, styled only when writing to a terminal.
type table struct {
	w      io.Writer
	styled bool
	widths []int

	title  lipgloss.Style
	header lipgloss.Style
	muted  lipgloss.Style
	value  lipgloss.Style
}

func newTable(w io.Writer, widths ...int) *table {
	return &table{
		w:      w,
		styled: isTerminal(w),
		widths: widths,
		title:  lipgloss.NewStyle().Bold(true).Foreground(colourAccent),
		header: lipgloss.NewStyle().Bold(true).Underline(true),
		muted:  lipgloss.NewStyle().Foreground(colourMuted),
		value:  lipgloss.NewStyle().Foreground(colourValue),
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (t *table) render(style lipgloss.Style, s string) string {
	if !t.styled {
		return s
	}
	return style.Render(s)
}

// Title prints a heading line.
func (t *table) Title(format string, args ...any) {
	fmt.Fprintln(t.w, t.render(t.title, fmt.Sprintf(format, args...)))
}

// Note prints a de-emphasised line.
func (t *table) Note(format string, args ...any) {
	fmt.Fprintln(t.w, t.render(t.muted, fmt.Sprintf(format, args...)))
}

// Field prints a "label: value" line.
func (t *table) Field(label string, value any) {
	fmt.Fprintf(t.w, "  %s %s\n", t.render(t.muted, label+":"), t.render(t.value, fmt.Sprint(value)))
}

// Header prints column names.
func (t *table) Header(cols ...string) {
	fmt.Fprintln(t.w, "  "+t.render(t.header, t.pad(cols)))
}

// Row prints one row of cells.
func (t *table) Row(cells ...string) {
	fmt.Fprintln(t.w, "  "+t.pad(cells))
}

func (t *table) pad(cells []string) string {
	var sb strings.Builder
	for i, c := range cells {
		if i < len(t.widths) && i < len(cells)-1 {
			fmt.Fprintf(&sb, "%-*s", t.widths[i], c)
			continue
		}
		sb.WriteString(c)
	}
	return strings.TrimRight(sb.String(), " ")
}
