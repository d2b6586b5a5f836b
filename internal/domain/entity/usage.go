package entity

import "time"

// UsageSample is one telemetry datapoint for a resource metric.
type UsageSample struct {
	ResourceID string    `json:"resource_id"`
	MetricName string    `json:"metric_name"`
	Timestamp  time.Time `json:"timestamp"`
	Value      float64   `json:"value"`
}

// Key returns the canonical "resource:metric" grouping key of the sample.
func (s UsageSample) Key() string {
	return s.ResourceID + ":" + s.MetricName
}

// UsageMetricSummary condenses the samples of one resource metric.
type UsageMetricSummary struct {
	ResourceID  string  `json:"resource_id"`
	MetricName  string  `json:"metric_name"`
	Average     float64 `json:"average"`
	Minimum     float64 `json:"minimum"`
	Maximum     float64 `json:"maximum"`
	Latest      float64 `json:"latest"`
	SampleCount int     `json:"sample_count"`
}
