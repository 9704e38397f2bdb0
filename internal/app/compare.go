package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dialops/dropscope/internal/config"
	"github.com/dialops/dropscope/internal/output"
	"github.com/dialops/dropscope/internal/store"
)

var compareAgainst int

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the latest snapshot against a previous one",
	Long: `Diff the most recent stored snapshot against an earlier one to show
whether list health is improving. Counts of toxic, degrading, and
never-delivered numbers improve downward; everything else improves upward.`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().IntVar(&compareAgainst, "against", 1, "Compare against Nth previous snapshot (1 = most recent before latest)")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	if flagNoColor {
		output.SetNoColor(true)
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	current, err := db.GetLatestSnapshot()
	if err != nil {
		return fmt.Errorf("reading latest snapshot: %w", err)
	}
	if current == nil {
		fmt.Println("No snapshots stored yet. Run 'dropscope analyze' first.")
		return nil
	}

	previous, err := db.GetSnapshotN(compareAgainst + 1)
	if err != nil {
		return fmt.Errorf("reading previous snapshot: %w", err)
	}
	if previous == nil {
		fmt.Println("Not enough snapshots to compare yet.")
		return nil
	}

	diff, err := db.DiffSnapshots(previous.ID, current.ID)
	if err != nil {
		return fmt.Errorf("diffing snapshots: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diff)
	}

	fmt.Println(output.Section("Snapshot Comparison"))
	fmt.Printf("  #%d (%s)  vs  #%d (%s)\n\n",
		previous.ID, previous.TakenAt.Format("2006-01-02 15:04"),
		current.ID, current.TakenAt.Format("2006-01-02 15:04"))

	tbl := output.NewTable("Metric", "Previous", "Current", "Change")
	for _, d := range diff.Deltas {
		tbl.AddRow(d.Name, formatMetric(d.Name, d.Previous), formatMetric(d.Name, d.Current),
			output.TrendArrow(d.Delta, !store.LowerIsBetter(d.Name)))
	}
	fmt.Println(tbl.Render())
	return nil
}

// formatMetric renders a metric value, keeping counts integral and rates as
// percentages.
func formatMetric(name string, v float64) string {
	switch name {
	case "overall_success_rate":
		return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
