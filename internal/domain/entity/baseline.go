package entity

import "time"

// Baseline is the statistical profile of one grouping key over the baseline
// window: arithmetic mean and sample standard deviation of its daily totals.
type Baseline struct {
	Key          string    `json:"key"`
	Mean         float64   `json:"mean"`
	StdDev       float64   `json:"std_dev"`
	SampleCount  int       `json:"sample_count"`
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
	Insufficient bool      `json:"insufficient"`
}

// BaselineSet indexes baselines by canonical grouping key and remembers the
// window and minimum bucket count they were built with.
type BaselineSet struct {
	Window         TimeWindow          `json:"window"`
	MinimumBuckets int                 `json:"minimum_buckets"`
	Baselines      map[string]Baseline `json:"baselines"`
}

// Lookup returns the baseline for key, if one was built.
func (s BaselineSet) Lookup(key string) (Baseline, bool) {
	b, ok := s.Baselines[key]
	return b, ok
}

// Len returns the number of keys with a baseline.
func (s BaselineSet) Len() int {
	return len(s.Baselines)
}
