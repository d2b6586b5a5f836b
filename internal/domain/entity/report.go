package entity

import "time"

// CostReport is the processed cost view for one profile, or for one group of
// profiles that share an account when combine mode is on.
type CostReport struct {
	Profile            string            `json:"profile"`
	AccountID          string            `json:"account_id"`
	CurrentPeriodName  string            `json:"current_period_name"`
	PreviousPeriodName string            `json:"previous_period_name"`
	CurrentPeriodStart time.Time         `json:"current_period_start"`
	CurrentPeriodEnd   time.Time         `json:"current_period_end"`
	CurrentTotal       float64           `json:"current_total"`
	PreviousTotal      float64           `json:"previous_total"`
	PercentChange      *float64          `json:"percent_change_in_total_cost,omitempty"`
	Breakdown          Breakdown         `json:"breakdown"`
	ServicesFormatted  []string          `json:"services_formatted,omitempty"`
	Budgets            []BudgetInfo      `json:"budgets,omitempty"`
	BudgetsFormatted   []string          `json:"budgets_formatted,omitempty"`
	Diagnostics        []ValidationError `json:"diagnostics,omitempty"`
	Success            bool              `json:"success"`
	Error              string            `json:"error,omitempty"`
}

// AnomalyReport is the scored result for one profile.
type AnomalyReport struct {
	Profile        string            `json:"profile"`
	AccountID      string            `json:"account_id"`
	Config         AnalysisConfig    `json:"config"`
	BaselineWindow TimeWindow        `json:"baseline_window"`
	CurrentWindow  TimeWindow        `json:"current_window"`
	BaselineKeys   int               `json:"baseline_keys"`
	Findings       []AnomalyFinding  `json:"findings"`
	Diagnostics    []ValidationError `json:"diagnostics,omitempty"`
	Success        bool              `json:"success"`
	Error          string            `json:"error,omitempty"`
}

// UsageReport summarizes the usage samples collected for one profile.
type UsageReport struct {
	Profile   string               `json:"profile"`
	AccountID string               `json:"account_id"`
	Window    TimeWindow           `json:"window"`
	Summaries []UsageMetricSummary `json:"summaries"`
	Success   bool                 `json:"success"`
	Error     string               `json:"error,omitempty"`
}

// InventoryReport lists the resources discovered for one profile.
type InventoryReport struct {
	Profile   string           `json:"profile"`
	AccountID string           `json:"account_id"`
	Summary   InventorySummary `json:"summary"`
	Resources []ResourceInfo   `json:"resources"`
	Success   bool             `json:"success"`
	Error     string           `json:"error,omitempty"`
}
