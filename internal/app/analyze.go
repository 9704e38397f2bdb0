package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dialops/dropscope/internal/analysis"
	"github.com/dialops/dropscope/internal/config"
	"github.com/dialops/dropscope/internal/ingest"
	"github.com/dialops/dropscope/internal/output"
	"github.com/dialops/dropscope/internal/report"
	"github.com/dialops/dropscope/internal/store"
)

var (
	analyzeReportDir  string
	analyzeNoSave     bool
	analyzeCampaign   string
	analyzeMinRun     int
	analyzeSpanDays   int
	analyzeWindowDays int
	analyzeAllowShort bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <export.csv>",
	Short: "Analyze a campaign export CSV",
	Long: `Read a delivery export CSV, compute per-number health, retry decay,
consecutive-failure runs, and entity rollups, then write the report sheets
and store a snapshot for later comparison.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeReportDir, "report-dir", "", "Directory for report CSV sheets (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "Skip storing a snapshot")
	analyzeCmd.Flags().StringVar(&analyzeCampaign, "campaign", "", "Campaign id to record on the snapshot")
	analyzeCmd.Flags().IntVar(&analyzeMinRun, "min-run", 0, "Minimum consecutive failures to flag a run (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeSpanDays, "span-days", 0, "Minimum run span in days (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeWindowDays, "recent-window", 0, "Recent-success window in days (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeAllowShort, "allow-short", false, "Accept 7-9 digit phone numbers")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	rows, err := ingest.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	return runPipeline(cfg, rows, "csv", analyzeCampaign)
}

// runPipeline runs the engine over rows and emits every output surface:
// terminal or JSON, report sheets, and a stored snapshot. Shared by the
// analyze and fetch commands.
func runPipeline(cfg *config.Config, rows []analysis.RawRow, source, campaignID string) error {
	if flagNoColor || !cfg.Output.Color {
		output.SetNoColor(true)
	}

	opts := cfg.AnalysisOptions()
	if analyzeMinRun > 0 {
		opts.MinConsecutiveUnsuccessful = analyzeMinRun
	}
	if analyzeSpanDays > 0 {
		opts.MinRunSpanDays = analyzeSpanDays
	}
	if analyzeWindowDays > 0 {
		opts.RecentSuccessWindowDays = analyzeWindowDays
	}
	if analyzeAllowShort {
		opts.AllowShortNumbers = true
	}

	result, err := analysis.Analyze(rows, opts)
	if err != nil {
		if errors.Is(err, analysis.ErrNoAnalyzableData) {
			return fmt.Errorf("%w (check the export has phone numbers and timestamps)", err)
		}
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	} else {
		report.Render(os.Stdout, result)
	}

	reportDir := cfg.ReportDir
	if analyzeReportDir != "" {
		reportDir = analyzeReportDir
	}
	if reportDir != "" {
		if err := report.WriteSheets(result, reportDir); err != nil {
			return err
		}
		if !flagJSON {
			fmt.Printf("Report sheets written to %s\n", reportDir)
		}
	}

	if analyzeNoSave {
		return nil
	}
	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	snapshotID, err := db.SaveResult(result, source, campaignID, appVersion)
	if err != nil {
		return fmt.Errorf("storing snapshot: %w", err)
	}
	if !flagJSON {
		fmt.Printf("Stored snapshot #%d\n", snapshotID)
	}
	return nil
}
