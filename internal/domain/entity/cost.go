package entity

import "time"

// TimeWindow is a half-open interval [Start, End) in UTC.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether the bucket [bucketStart, bucketEnd) lies fully
// inside the window.
func (w TimeWindow) Contains(bucketStart, bucketEnd time.Time) bool {
	return !bucketStart.Before(w.Start) && !bucketEnd.After(w.End)
}

// Days returns the number of whole days covered by the window.
func (w TimeWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

// CostRecord is one cost amount for an account/service pair over a time bucket.
type CostRecord struct {
	AccountID   string    `json:"account_id"`
	ServiceName string    `json:"service_name"`
	BucketStart time.Time `json:"bucket_start"`
	BucketEnd   time.Time `json:"bucket_end"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
}

// Key returns the grouping key of the record.
func (r CostRecord) Key() GroupKey {
	return GroupKey{AccountID: r.AccountID, ServiceName: r.ServiceName}
}

// GroupKey identifies one aggregation group: an account/service pair.
type GroupKey struct {
	AccountID   string `json:"account_id"`
	ServiceName string `json:"service_name"`
}

// String returns the canonical "account:service" form used to key baselines,
// observations and findings.
func (k GroupKey) String() string {
	return k.AccountID + ":" + k.ServiceName
}

// BreakdownEntry is one aggregated group with its share of the grand total.
type BreakdownEntry struct {
	Key         GroupKey `json:"key"`
	TotalAmount float64  `json:"total_amount"`
	Percentage  float64  `json:"percentage"`
}

// Breakdown is the result of aggregating cost records over a window. Entries
// are ordered by total amount descending, ties broken by key, so the same
// input always renders the same way.
type Breakdown struct {
	Entries    []BreakdownEntry `json:"entries"`
	GrandTotal float64          `json:"grand_total"`
	Currency   string           `json:"currency,omitempty"`
	Window     TimeWindow       `json:"window"`
}

// DailyCost is the total spend for one calendar day.
type DailyCost struct {
	Date time.Time `json:"date"`
	Cost float64   `json:"cost"`
}
