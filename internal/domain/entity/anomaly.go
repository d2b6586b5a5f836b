package entity

// Observation is one current-period aggregated value for a grouping key,
// the unit of input for anomaly scoring.
type Observation struct {
	Key      string  `json:"key"`
	Observed float64 `json:"observed"`
}

// Observations converts the breakdown entries into scorer input.
func (b Breakdown) Observations() []Observation {
	obs := make([]Observation, 0, len(b.Entries))
	for _, e := range b.Entries {
		obs = append(obs, Observation{Key: e.Key.String(), Observed: e.TotalAmount})
	}
	return obs
}

// FindingCategory classifies how a finding was produced.
type FindingCategory string

const (
	// CategoryDeviation is a numeric finding: the observed value deviates
	// from the baseline mean beyond the configured threshold.
	CategoryDeviation FindingCategory = "deviation"
	// CategoryNewSpend marks a key with no baseline history at all.
	CategoryNewSpend FindingCategory = "new spend"
	// CategoryNoBaseline marks a key whose baseline has too few daily
	// buckets to be scored.
	CategoryNoBaseline FindingCategory = "no baseline"
)

// Severity grades a numeric finding.
type Severity string

const (
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// AnomalyFinding is one scored (or categorical) result for a grouping key.
// Categorical findings carry no severity and a zero deviation.
type AnomalyFinding struct {
	GroupingKey         string          `json:"grouping_key"`
	Category            FindingCategory `json:"category"`
	ObservedValue       float64         `json:"observed_value"`
	BaselineMean        float64         `json:"baseline_mean"`
	BaselineStdDev      float64         `json:"baseline_stddev"`
	DeviationPercentage float64         `json:"deviation_percentage"`
	ZScore              float64         `json:"z_score,omitempty"`
	Severity            Severity        `json:"severity,omitempty"`
	SampleCount         int             `json:"sample_count,omitempty"`
}
