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

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored analysis snapshots",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of snapshots to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if flagNoColor {
		output.SetNoColor(true)
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	snapshots, err := db.ListSnapshots(historyLimit)
	if err != nil {
		return fmt.Errorf("listing snapshots: %w", err)
	}
	if len(snapshots) == 0 {
		fmt.Println("No snapshots stored yet. Run 'dropscope analyze' first.")
		return nil
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshots)
	}

	fmt.Println(output.Section("Snapshot History"))
	tbl := output.NewTable("ID", "Taken At", "Source", "Campaign", "Grade", "Numbers", "Toxic")
	for _, s := range snapshots {
		metrics, err := db.GetAggregateMetrics(s.ID)
		if err != nil {
			return fmt.Errorf("reading metrics for snapshot %d: %w", s.ID, err)
		}
		grade, numbers, toxic := "", "", ""
		for _, m := range metrics {
			switch m.MetricName {
			case "list_grade":
				grade = m.Detail
			case "unique_numbers":
				numbers = strconv.Itoa(int(m.MetricValue))
			case "toxic_count":
				toxic = strconv.Itoa(int(m.MetricValue))
			}
		}
		tbl.AddRow(strconv.FormatInt(s.ID, 10), s.TakenAt.Format("2006-01-02 15:04"),
			s.Source, s.CampaignID, output.GradeBadge(grade), numbers, toxic)
	}
	fmt.Println(tbl.Render())
	return nil
}
