package types

// Config represents the application configuration that can be loaded from a
// TOML, YAML or JSON file. Command-line flags take precedence over file
// values, file values over defaults.
type Config struct {
	Profiles   []string `json:"profiles" yaml:"profiles" toml:"profiles"`
	Regions    []string `json:"regions" yaml:"regions" toml:"regions"`
	Combine    bool     `json:"combine" yaml:"combine" toml:"combine"`
	ReportName string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir        string   `json:"dir" yaml:"dir" toml:"dir"`
	TimeRange  int      `json:"time_range" yaml:"time_range" toml:"time_range"`
	Tag        []string `json:"tag" yaml:"tag" toml:"tag"`

	// Anomaly scan settings; zero values mean "use the defaults".
	DeviationThresholdPercent float64 `json:"deviation_threshold_percent" yaml:"deviation_threshold_percent" toml:"deviation_threshold_percent"`
	BaselineWindowDays        int     `json:"baseline_window_days" yaml:"baseline_window_days" toml:"baseline_window_days"`
	MinimumBaselineBuckets    int     `json:"minimum_baseline_buckets" yaml:"minimum_baseline_buckets" toml:"minimum_baseline_buckets"`

	TrendDays  int `json:"trend_days" yaml:"trend_days" toml:"trend_days"`
	UsageHours int `json:"usage_hours" yaml:"usage_hours" toml:"usage_hours"`
}
