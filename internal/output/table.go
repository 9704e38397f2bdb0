package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table is a styled table renderer. Columns containing only numeric-looking
// cells are right-aligned so report tables read like spreadsheets.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
	numeric []bool
}

// NewTable creates a new table with the given column headers.
func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	numeric := make([]bool, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
		numeric[i] = true // until a non-numeric cell shows up
	}
	return &Table{
		headers: headers,
		widths:  widths,
		numeric: numeric,
	}
}

// AddRow adds a row of values to the table. The number of values should
// match the number of headers.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.headers))
	for i := range t.headers {
		if i < len(values) {
			row[i] = values[i]
		}
		// lipgloss.Width ignores ANSI sequences, so styled badges measure
		// at their display width.
		if w := lipgloss.Width(row[i]); w > t.widths[i] {
			t.widths[i] = w
		}
		if row[i] != "" && !looksNumeric(row[i]) {
			t.numeric[i] = false
		}
	}
	t.rows = append(t.rows, row)
}

// Render returns the formatted table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)
	if noColor {
		headerStyle = lipgloss.NewStyle()
	}

	var sb strings.Builder

	for i, h := range t.headers {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(headerStyle.Render(t.pad(h, i)))
	}
	sb.WriteString("\n")

	for i, w := range t.widths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(StyleMuted.Render(strings.Repeat("─", w)))
	}
	sb.WriteString("\n")

	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(t.pad(cell, i))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// String implements fmt.Stringer.
func (t *Table) String() string {
	return t.Render()
}

// Print writes the table to stdout.
func (t *Table) Print() {
	fmt.Print(t.Render())
}

// pad aligns a cell within column i: numeric columns right, text left.
func (t *Table) pad(s string, i int) string {
	width := t.widths[i]
	if lipgloss.Width(s) >= width {
		return s
	}
	fill := strings.Repeat(" ", width-lipgloss.Width(s))
	if t.numeric[i] {
		return fill + s
	}
	return s + fill
}

// looksNumeric reports whether a cell is a number, percentage, or grade-like
// short value that should be right-aligned.
func looksNumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '%' || r == ',':
		default:
			return false
		}
	}
	return true
}
