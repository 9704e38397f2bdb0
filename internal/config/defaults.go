// Package config provides configuration loading and defaults for dropscope.
package config

import "github.com/dialops/dropscope/internal/analysis"

// DefaultConfigDir is the default location for dropscope configuration.
const DefaultConfigDir = "~/.config/dropscope"

// DefaultDBName is the filename for the snapshot SQLite database.
const DefaultDBName = "dropscope.db"

// DefaultReportDir is the default directory for rendered report sheets.
const DefaultReportDir = "./dropscope-report"

// DefaultAPIBaseURL is the campaign-export API endpoint.
const DefaultAPIBaseURL = "https://api.voapps.example.com/v1"

// DefaultAnalysis holds the default engine thresholds.
var DefaultAnalysis = Analysis{
	MinConsecutiveUnsuccessful: analysis.DefaultMinConsecutiveUnsuccessful,
	MinRunSpanDays:             analysis.DefaultMinRunSpanDays,
	RecentSuccessWindowDays:    analysis.DefaultRecentSuccessWindowDays,
	AllowShortNumbers:          false,
	Workers:                    analysis.DefaultWorkers,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 100,
}
