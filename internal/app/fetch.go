package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dialops/dropscope/internal/config"
	"github.com/dialops/dropscope/internal/ingest"
	"github.com/dialops/dropscope/internal/voapps"
)

var (
	fetchOut     string
	fetchAnalyze bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <campaign-id>",
	Short: "Pull delivery records from the API",
	Long: `Fetch every delivery record for a campaign from the delivery API,
paging until exhausted. By default the records are written to a CSV for
later analysis; with --analyze the full analysis pipeline runs directly.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "Write fetched records to this CSV file")
	fetchCmd.Flags().BoolVar(&fetchAnalyze, "analyze", false, "Run analysis on the fetched records")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.API.Token == "" {
		return fmt.Errorf("no API token configured (set api.token or DROPSCOPE_API_TOKEN)")
	}

	campaignID := args[0]
	client := voapps.NewClient(voapps.Config{
		BaseURL:  cfg.API.BaseURL,
		APIToken: cfg.API.Token,
		PageSize: cfg.API.PageSize,
	})

	rows, err := client.FetchCampaignRecords(cmd.Context(), campaignID)
	if err != nil {
		return fmt.Errorf("fetching campaign %s: %w", campaignID, err)
	}
	if flagVerbose {
		fmt.Printf("Fetched %d records for campaign %s\n", len(rows), campaignID)
	}

	if fetchOut != "" {
		if err := ingest.WriteFile(fetchOut, rows); err != nil {
			return fmt.Errorf("writing %s: %w", fetchOut, err)
		}
		fmt.Printf("Wrote %d records to %s\n", len(rows), fetchOut)
	}

	if fetchAnalyze {
		return runPipeline(cfg, rows, "api", campaignID)
	}
	if fetchOut == "" && !fetchAnalyze {
		return fmt.Errorf("nothing to do: pass --out to save records or --analyze to analyze them")
	}
	return nil
}
