package entity

// Default analysis settings.
const (
	DefaultDeviationThresholdPercent = 20.0
	DefaultBaselineWindowDays        = 30
	DefaultMinimumBaselineBuckets    = 3
)

// AnalysisConfig carries the anomaly-analysis settings. It is passed
// explicitly to the analysis services; nothing reads settings from process
// state.
type AnalysisConfig struct {
	DeviationThresholdPercent float64 `json:"deviation_threshold_percent"`
	BaselineWindowDays        int     `json:"baseline_window_days"`
	MinimumBaselineBuckets    int     `json:"minimum_baseline_buckets"`
}

// DefaultAnalysisConfig returns the standard settings: 20% threshold, 30-day
// baseline window, 3 buckets minimum.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		DeviationThresholdPercent: DefaultDeviationThresholdPercent,
		BaselineWindowDays:        DefaultBaselineWindowDays,
		MinimumBaselineBuckets:    DefaultMinimumBaselineBuckets,
	}
}

// Validate rejects settings that would make the analysis meaningless. A zero
// threshold is degenerate but legal; a negative one is not.
func (c AnalysisConfig) Validate() error {
	if c.DeviationThresholdPercent < 0 {
		return ConfigurationError{
			Setting: "deviation_threshold_percent",
			Value:   c.DeviationThresholdPercent,
			Reason:  "must not be negative",
		}
	}
	if c.BaselineWindowDays < 1 {
		return ConfigurationError{
			Setting: "baseline_window_days",
			Value:   c.BaselineWindowDays,
			Reason:  "must cover at least one day",
		}
	}
	if c.BaselineWindowDays > 365 {
		return ConfigurationError{
			Setting: "baseline_window_days",
			Value:   c.BaselineWindowDays,
			Reason:  "must not exceed 365 days",
		}
	}
	if c.MinimumBaselineBuckets < 1 {
		return ConfigurationError{
			Setting: "minimum_baseline_buckets",
			Value:   c.MinimumBaselineBuckets,
			Reason:  "must be at least 1",
		}
	}
	return nil
}
