package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Render(t *testing.T) {
	// Disable color so we get predictable output.
	SetNoColor(true)

	tbl := NewTable("Number", "Health")
	tbl.AddRow("5551234567", "healthy")
	tbl.AddRow("5550000001", "toxic")

	out := tbl.Render()

	assert.Contains(t, out, "Number")
	assert.Contains(t, out, "Health")
	assert.Contains(t, out, "5551234567")
	assert.Contains(t, out, "toxic")
	assert.Contains(t, out, "─")

	// Header + separator + 2 data rows.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
}

func TestTable_NumericColumnsRightAligned(t *testing.T) {
	SetNoColor(true)

	tbl := NewTable("Entity", "Total")
	tbl.AddRow("account-1", "5")
	tbl.AddRow("account-2", "12345")

	lines := strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
	require.Len(t, lines, 4)

	// "5" is padded from the left to the width of "12345".
	assert.True(t, strings.HasSuffix(lines[2], "    5"), "short numeric cell should be right-aligned, got %q", lines[2])
	assert.True(t, strings.HasSuffix(lines[3], "12345"))
}

func TestTable_TextColumnDisablesAlignment(t *testing.T) {
	SetNoColor(true)

	tbl := NewTable("Value")
	tbl.AddRow("123")
	tbl.AddRow("abc")

	lines := strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[2], "123"), "mixed column falls back to left alignment")
}

func TestLooksNumeric(t *testing.T) {
	assert.True(t, looksNumeric("123"))
	assert.True(t, looksNumeric("12.5%"))
	assert.True(t, looksNumeric("-3"))
	assert.True(t, looksNumeric("1,204"))
	assert.False(t, looksNumeric("healthy"))
	assert.False(t, looksNumeric("12a"))
}

func TestTable_EmptyHeaders(t *testing.T) {
	assert.Empty(t, NewTable().Render())
}

func TestTable_String(t *testing.T) {
	SetNoColor(true)

	tbl := NewTable("Col1")
	tbl.AddRow("Val1")
	assert.Equal(t, tbl.Render(), tbl.String())
}

func TestSetNoColor(t *testing.T) {
	SetNoColor(true)
	assert.NotContains(t, StyleHeader.Render("test"), "\x1b[")
}
