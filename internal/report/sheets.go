// Package report renders an analysis result into its deliverable forms: a
// directory of CSV sheets mirroring the classic multi-sheet workbook, and
// styled terminal tables for interactive use.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dialops/dropscope/internal/analysis"
)

// Sheet filenames written by WriteSheets.
const (
	SheetSummary     = "summary.csv"
	SheetNumbers     = "number_health.csv"
	SheetDecay       = "retry_decay.csv"
	SheetRuns        = "consecutive_runs.csv"
	SheetAccounts    = "account_stats.csv"
	SheetMessages    = "message_stats.csv"
	SheetCallers     = "caller_stats.csv"
	SheetHourly      = "hourly_stats.csv"
	SheetDaily       = "daily_stats.csv"
	SheetSuppression = "suppression_list.csv"
)

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// WriteSheets writes every report sheet into dir, creating it if needed.
func WriteSheets(result *analysis.Result, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}

	sheets := []struct {
		name string
		rows [][]string
	}{
		{SheetSummary, summaryRows(result)},
		{SheetNumbers, numberRows(result)},
		{SheetDecay, decayRows(result)},
		{SheetRuns, runRows(result)},
		{SheetAccounts, entityRows("account_id", result.AccountStats)},
		{SheetMessages, entityRows("message_id", result.MessageStats)},
		{SheetCallers, entityRows("caller_number", result.CallerStats)},
		{SheetHourly, hourlyRows(result)},
		{SheetDaily, dailyRows(result)},
		{SheetSuppression, suppressionRows(result)},
	}

	for _, sheet := range sheets {
		if err := writeCSV(filepath.Join(dir, sheet.name), sheet.rows); err != nil {
			return fmt.Errorf("writing %s: %w", sheet.name, err)
		}
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

func summaryRows(r *analysis.Result) [][]string {
	return [][]string{
		{"metric", "value"},
		{"list_grade", string(r.Grade)},
		{"unique_numbers", itoa(r.UniqueNumberCount)},
		{"total_delivery_attempts", itoa(r.TotalAttempts)},
		{"overall_success_rate", pct(r.OverallSuccessRate)},
		{"healthy_numbers", itoa(r.HealthyCount)},
		{"degrading_numbers", itoa(r.DegradingCount)},
		{"toxic_numbers", itoa(r.ToxicCount)},
		{"never_delivered_numbers", itoa(r.NeverDeliveredCount)},
		{"raw_rows", itoa(r.RawRows)},
		{"rejected_rows", itoa(r.RejectedRows)},
		{"non_attempt_rows", itoa(r.NonAttemptRows)},
		{"data_through", r.MaxTimestamp.Format(time.RFC3339)},
	}
}

func numberRows(r *analysis.Result) [][]string {
	rows := [][]string{{
		"phone_number", "health", "total_attempts", "successful", "unsuccessful",
		"success_rate", "consecutive_failures", "variability_score",
		"last_success", "first_attempt", "last_attempt",
	}}
	for _, n := range r.Numbers {
		lastSuccess := ""
		if n.LastSuccess != nil {
			lastSuccess = n.LastSuccess.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			n.PhoneNumber, string(n.Health), itoa(n.TotalAttempts),
			itoa(n.SuccessCount), itoa(n.UnsuccessfulCount), pct(n.SuccessRate),
			itoa(n.ConsecutiveFailures), itoa(n.VariabilityScore),
			lastSuccess, n.FirstAttempt.Format(time.RFC3339), n.LastAttempt.Format(time.RFC3339),
		})
	}
	return rows
}

func decayRows(r *analysis.Result) [][]string {
	rows := [][]string{{"attempt_index", "total_attempts", "successful", "success_probability"}}
	for _, b := range r.Decay {
		label := itoa(b.AttemptIndex)
		if b.AttemptIndex == len(r.Decay) {
			label += "+"
		}
		rows = append(rows, []string{label, itoa(b.Total), itoa(b.Successful), pct(b.Probability)})
	}
	return rows
}

func runRows(r *analysis.Result) [][]string {
	rows := [][]string{{"phone_number", "length", "span_days", "start", "end", "still_open", "health"}}
	for _, run := range r.Runs {
		rows = append(rows, []string{
			run.PhoneNumber, itoa(run.Length), itoa(run.SpanDays),
			run.Start.Format(time.RFC3339), run.End.Format(time.RFC3339),
			strconv.FormatBool(run.Open), string(run.Health),
		})
	}
	return rows
}

func entityRows(idColumn string, stats []analysis.EntityStats) [][]string {
	header := []string{
		idColumn, "display_name", "total", "successful", "unsuccessful",
		"unique_numbers", "limited_day_usage", "recommendation",
	}
	for _, day := range weekdayNames {
		header = append(header, day)
	}

	rows := [][]string{header}
	for _, s := range stats {
		row := []string{
			s.ID, s.DisplayName, itoa(s.Total), itoa(s.Successful),
			itoa(s.Unsuccessful), itoa(s.UniquePhoneNumber),
			strconv.FormatBool(s.LimitedDayUsage), s.Recommendation,
		}
		for _, c := range s.DayOfWeekCounts {
			row = append(row, itoa(c))
		}
		rows = append(rows, row)
	}
	return rows
}

func hourlyRows(r *analysis.Result) [][]string {
	rows := [][]string{{"hour", "total", "successful", "unsuccessful", "success_rate"}}
	for _, b := range r.HourlyGlobal {
		rows = append(rows, []string{
			fmt.Sprintf("%02d:00", b.Bucket), itoa(b.Total),
			itoa(b.Successful), itoa(b.Unsuccessful), pct(b.SuccessRate),
		})
	}
	return rows
}

func dailyRows(r *analysis.Result) [][]string {
	rows := [][]string{{"day", "total", "successful", "unsuccessful", "success_rate"}}
	for _, b := range r.DailyGlobal {
		rows = append(rows, []string{
			weekdayNames[b.Bucket], itoa(b.Total),
			itoa(b.Successful), itoa(b.Unsuccessful), pct(b.SuccessRate),
		})
	}
	return rows
}

// suppressionRows lists the numbers recommended for suppression: everything
// toxic, plus never-delivered numbers with enough attempts to matter.
func suppressionRows(r *analysis.Result) [][]string {
	rows := [][]string{{"phone_number", "reason", "total_attempts", "consecutive_failures"}}
	for _, n := range r.Numbers {
		switch {
		case n.Health == analysis.Toxic:
			rows = append(rows, []string{n.PhoneNumber, "toxic", itoa(n.TotalAttempts), itoa(n.ConsecutiveFailures)})
		case n.SuccessCount == 0 && n.TotalAttempts >= 3:
			rows = append(rows, []string{n.PhoneNumber, "never_delivered", itoa(n.TotalAttempts), itoa(n.ConsecutiveFailures)})
		}
	}
	return rows
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func pct(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}
