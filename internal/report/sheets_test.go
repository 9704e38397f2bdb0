package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialops/dropscope/internal/analysis"
)

func sampleResult(t *testing.T) *analysis.Result {
	t.Helper()

	rows := []analysis.RawRow{
		{Number: "(555) 123-4567", Timestamp: "2025-03-03 10:00:00 UTC", Result: "Successfully Delivered", AccountID: "acct-1"},
		{Number: "(555) 123-4567", Timestamp: "2025-03-04 11:00:00 UTC", Result: "Busy", AccountID: "acct-1"},
		{Number: "(555) 987-6543", Timestamp: "2025-03-03 12:00:00 UTC", Result: "Failed", AccountID: "acct-1"},
		{Number: "(555) 987-6543", Timestamp: "2025-03-04 13:00:00 UTC", Result: "Failed", AccountID: "acct-1"},
		{Number: "(555) 987-6543", Timestamp: "2025-03-05 14:00:00 UTC", Result: "Failed", AccountID: "acct-1"},
	}
	result, err := analysis.Analyze(rows, analysis.DefaultOptions())
	require.NoError(t, err)
	return result
}

func readSheet(t *testing.T, dir, name string) [][]string {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteSheets_CreatesAllSheets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteSheets(sampleResult(t), filepath.Join(dir, "out")))

	for _, name := range []string{
		SheetSummary, SheetNumbers, SheetDecay, SheetRuns,
		SheetAccounts, SheetMessages, SheetCallers,
		SheetHourly, SheetDaily, SheetSuppression,
	} {
		_, err := os.Stat(filepath.Join(dir, "out", name))
		assert.NoError(t, err, name)
	}
}

func TestWriteSheets_SummaryContents(t *testing.T) {
	dir := t.TempDir()
	result := sampleResult(t)
	require.NoError(t, WriteSheets(result, dir))

	records := readSheet(t, dir, SheetSummary)
	require.NotEmpty(t, records)
	assert.Equal(t, []string{"metric", "value"}, records[0])

	metrics := make(map[string]string, len(records))
	for _, rec := range records[1:] {
		metrics[rec[0]] = rec[1]
	}
	assert.Equal(t, "2", metrics["unique_numbers"])
	assert.Equal(t, "5", metrics["total_delivery_attempts"])
	assert.Equal(t, "20.0%", metrics["overall_success_rate"])
	assert.Equal(t, string(result.Grade), metrics["list_grade"])
}

func TestWriteSheets_NumberRows(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteSheets(sampleResult(t), dir))

	records := readSheet(t, dir, SheetNumbers)
	require.Len(t, records, 3) // header + 2 numbers

	byNumber := map[string][]string{records[1][0]: records[1], records[2][0]: records[2]}
	failing, ok := byNumber["5559876543"]
	require.True(t, ok)
	assert.Equal(t, "3", failing[2])    // total attempts
	assert.Equal(t, "0", failing[3])    // successful
	assert.Equal(t, "0.0%", failing[5]) // success rate
}

func TestWriteSheets_DecayShape(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteSheets(sampleResult(t), dir))

	records := readSheet(t, dir, SheetDecay)
	require.Len(t, records, 11) // header + 10 buckets
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "10+", records[10][0])
}

func TestWriteSheets_SuppressionIncludesNeverDelivered(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteSheets(sampleResult(t), dir))

	records := readSheet(t, dir, SheetSuppression)
	require.Len(t, records, 2)
	assert.Equal(t, "5559876543", records[1][0])
	assert.Equal(t, "never_delivered", records[1][1])
}

func TestWriteSheets_EntitySheetHasWeekdayColumns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteSheets(sampleResult(t), dir))

	records := readSheet(t, dir, SheetAccounts)
	require.Len(t, records, 2)
	assert.Len(t, records[0], 8+7)
	assert.Equal(t, "acct-1", records[1][0])
	assert.Equal(t, "5", records[1][2])
}

func TestRender_WritesSections(t *testing.T) {
	output := renderToString(t, sampleResult(t))

	assert.Contains(t, output, "Delivery Summary")
	assert.Contains(t, output, "Number Health")
	assert.Contains(t, output, "Retry Decay")
	assert.Contains(t, output, "Unique numbers:   2")
	assert.Contains(t, output, "20.0%")
}

func renderToString(t *testing.T, r *analysis.Result) string {
	t.Helper()
	var buf bytes.Buffer
	Render(&buf, r)
	return buf.String()
}
