// Package app contains the Cobra command tree for dropscope.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "dropscope",
	Short: "Delivery intelligence for voice-drop campaigns",
	Long: `dropscope analyzes voice-drop campaign delivery records to surface
per-number health, retry decay, consecutive-failure runs, and account,
message, and caller rollups. It grades contact lists, tracks results over
time, and recommends numbers to suppress.

Feed it a campaign export CSV or pull records straight from the delivery
API, then compare snapshots to see whether list hygiene is improving.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("dropscope", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  analyze   Analyze a campaign export CSV")
		fmt.Println("  fetch     Pull delivery records from the API")
		fmt.Println("  history   List stored analysis snapshots")
		fmt.Println("  compare   Compare the latest snapshot against a previous one")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/dropscope/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}
