package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dialops/dropscope/internal/analysis"
	"github.com/spf13/viper"
)

// Config is the top-level dropscope configuration.
type Config struct {
	Analysis Analysis `mapstructure:"analysis"`
	API      API      `mapstructure:"api"`
	Output   Output   `mapstructure:"output"`
	ReportDir string  `mapstructure:"report_dir"`

	// Messages maps message ids to directory metadata used for display
	// names in the per-message rollup.
	Messages map[string]MessageEntry `mapstructure:"messages"`

	// Callers maps caller numbers to display names.
	Callers map[string]string `mapstructure:"callers"`
}

// Analysis holds the engine thresholds.
type Analysis struct {
	MinConsecutiveUnsuccessful int  `mapstructure:"min_consecutive_unsuccessful"`
	MinRunSpanDays             int  `mapstructure:"min_run_span_days"`
	RecentSuccessWindowDays    int  `mapstructure:"recent_success_window_days"`
	AllowShortNumbers          bool `mapstructure:"allow_short_numbers"`
	Workers                    int  `mapstructure:"workers"`
}

// API holds campaign-export API connection settings.
type API struct {
	BaseURL  string `mapstructure:"base_url"`
	Token    string `mapstructure:"token"`
	PageSize int    `mapstructure:"page_size"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// MessageEntry describes one message in the configured directory.
type MessageEntry struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("analysis.min_consecutive_unsuccessful", DefaultAnalysis.MinConsecutiveUnsuccessful)
	v.SetDefault("analysis.min_run_span_days", DefaultAnalysis.MinRunSpanDays)
	v.SetDefault("analysis.recent_success_window_days", DefaultAnalysis.RecentSuccessWindowDays)
	v.SetDefault("analysis.allow_short_numbers", DefaultAnalysis.AllowShortNumbers)
	v.SetDefault("analysis.workers", DefaultAnalysis.Workers)
	v.SetDefault("api.base_url", DefaultAPIBaseURL)
	v.SetDefault("api.token", "")
	v.SetDefault("api.page_size", 0)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("report_dir", DefaultReportDir)

	// The API token can come from the environment instead of the file.
	v.SetEnvPrefix("DROPSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.ReportDir = expandPath(cfg.ReportDir)
	return &cfg, nil
}

// AnalysisOptions converts the configured thresholds and directories into
// engine options.
func (c *Config) AnalysisOptions() analysis.Options {
	opts := analysis.Options{
		MinConsecutiveUnsuccessful: c.Analysis.MinConsecutiveUnsuccessful,
		MinRunSpanDays:             c.Analysis.MinRunSpanDays,
		RecentSuccessWindowDays:    c.Analysis.RecentSuccessWindowDays,
		AllowShortNumbers:          c.Analysis.AllowShortNumbers,
		Workers:                    c.Analysis.Workers,
	}
	if len(c.Messages) > 0 {
		opts.MessageDirectory = make(map[string]analysis.MessageInfo, len(c.Messages))
		for id, m := range c.Messages {
			opts.MessageDirectory[id] = analysis.MessageInfo{Name: m.Name, Description: m.Description}
		}
	}
	if len(c.Callers) > 0 {
		opts.CallerDirectory = c.Callers
	}
	return opts
}

// DBPath returns the full path to the snapshot SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}
