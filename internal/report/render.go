package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dialops/dropscope/internal/analysis"
	"github.com/dialops/dropscope/internal/output"
)

// maxNumberRows caps the per-number table in terminal output. The full list
// always goes to the CSV sheets.
const maxNumberRows = 20

// Render writes the interactive summary of a result to w.
func Render(w io.Writer, r *analysis.Result) {
	fmt.Fprintln(w, output.Section("Delivery Summary"))
	fmt.Fprintf(w, "  List grade:       %s\n", output.GradeBadge(string(r.Grade)))
	fmt.Fprintf(w, "  Unique numbers:   %d\n", r.UniqueNumberCount)
	fmt.Fprintf(w, "  Total attempts:   %d\n", r.TotalAttempts)
	fmt.Fprintf(w, "  Success rate:     %s %s\n", pct(r.OverallSuccessRate), output.ScoreBar(r.OverallSuccessRate*100, 20))
	fmt.Fprintf(w, "  Data through:     %s\n", r.MaxTimestamp.Format("2006-01-02 15:04 MST"))
	if r.RejectedRows > 0 || r.NonAttemptRows > 0 {
		fmt.Fprintf(w, "  Rows: %d raw, %d rejected, %d non-attempt\n", r.RawRows, r.RejectedRows, r.NonAttemptRows)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, output.Section("Number Health"))
	fmt.Fprintf(w, "  %s %d    %s %d    %s %d    never delivered %d\n\n",
		output.HealthBadge(string(analysis.Healthy)), r.HealthyCount,
		output.HealthBadge(string(analysis.Degrading)), r.DegradingCount,
		output.HealthBadge(string(analysis.Toxic)), r.ToxicCount,
		r.NeverDeliveredCount)

	renderWorstNumbers(w, r)
	renderDecay(w, r)
	renderRuns(w, r)
	renderEntities(w, "Accounts", r.AccountStats)
	renderEntities(w, "Messages", r.MessageStats)
	renderEntities(w, "Caller Numbers", r.CallerStats)
}

// renderWorstNumbers shows the numbers most in need of attention: toxic
// first, then degrading, in the result's score order.
func renderWorstNumbers(w io.Writer, r *analysis.Result) {
	var flagged []analysis.NumberSummary
	for _, n := range r.Numbers {
		if n.Health == analysis.Toxic || n.Health == analysis.Degrading {
			flagged = append(flagged, n)
		}
	}
	if len(flagged) == 0 {
		return
	}

	fmt.Fprintln(w, output.Section("Flagged Numbers"))
	tbl := output.NewTable("Number", "Health", "Attempts", "Success", "Consec Fail", "Variability", "Last Success")
	shown := 0
	for _, health := range []analysis.HealthLabel{analysis.Toxic, analysis.Degrading} {
		for _, n := range flagged {
			if n.Health != health || shown >= maxNumberRows {
				continue
			}
			lastSuccess := "never"
			if n.LastSuccess != nil {
				lastSuccess = n.LastSuccess.Format("2006-01-02")
			}
			tbl.AddRow(n.PhoneNumber, output.HealthBadge(string(n.Health)),
				itoa(n.TotalAttempts), pct(n.SuccessRate),
				itoa(n.ConsecutiveFailures), itoa(n.VariabilityScore), lastSuccess)
			shown++
		}
	}
	fmt.Fprintln(w, tbl.Render())
	if len(flagged) > shown {
		fmt.Fprintf(w, "  ... and %d more (see %s)\n", len(flagged)-shown, SheetNumbers)
	}
	fmt.Fprintln(w)
}

func renderDecay(w io.Writer, r *analysis.Result) {
	fmt.Fprintln(w, output.Section("Retry Decay"))
	tbl := output.NewTable("Attempt", "Total", "Delivered", "Probability")
	for _, b := range r.Decay {
		label := itoa(b.AttemptIndex)
		if b.AttemptIndex == len(r.Decay) {
			label += "+"
		}
		tbl.AddRow(label, itoa(b.Total), itoa(b.Successful), pct(b.Probability))
	}
	fmt.Fprintln(w, tbl.Render())
	fmt.Fprintln(w)
}

func renderRuns(w io.Writer, r *analysis.Result) {
	if len(r.Runs) == 0 {
		return
	}
	fmt.Fprintln(w, output.Section("Consecutive Failure Runs"))
	tbl := output.NewTable("Number", "Length", "Span Days", "Start", "End", "Status")
	for i, run := range r.Runs {
		if i >= maxNumberRows {
			fmt.Fprintf(w, "  ... and %d more (see %s)\n", len(r.Runs)-i, SheetRuns)
			break
		}
		status := "broken"
		if run.Open {
			status = "open"
		}
		tbl.AddRow(run.PhoneNumber, itoa(run.Length), itoa(run.SpanDays),
			run.Start.Format(time.DateOnly), run.End.Format(time.DateOnly), status)
	}
	fmt.Fprintln(w, tbl.Render())
	fmt.Fprintln(w)
}

func renderEntities(w io.Writer, title string, stats []analysis.EntityStats) {
	if len(stats) == 0 {
		return
	}
	fmt.Fprintln(w, output.Section(title))
	tbl := output.NewTable("ID", "Name", "Total", "Delivered", "Unique Numbers", "Note")
	for i, s := range stats {
		if i >= maxNumberRows {
			fmt.Fprintf(w, "  ... and %d more\n", len(stats)-i)
			break
		}
		note := ""
		if s.LimitedDayUsage {
			note = "limited-day usage"
		}
		name := s.DisplayName
		if name == s.ID {
			name = ""
		}
		tbl.AddRow(s.ID, name, itoa(s.Total), itoa(s.Successful), itoa(s.UniquePhoneNumber), note)
	}
	fmt.Fprintln(w, tbl.Render())
	fmt.Fprintln(w)
}
