package types

// CLIArgs represents the command-line arguments shared by all commands.
type CLIArgs struct {
	ConfigFile string
	Profiles   []string
	Regions    []string
	All        bool
	Combine    bool
	ReportName string
	ReportType []string
	Dir        string
	TimeRange  *int
	Tag        []string

	// Anomaly scan settings (flags win over config file values).
	DeviationThresholdPercent float64
	BaselineWindowDays        int
	MinimumBaselineBuckets    int
	IncludeUsage              bool

	// Trend and usage window settings.
	TrendDays  int
	UsageHours int
}
