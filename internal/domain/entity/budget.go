package entity

// BudgetInfo represents a budget with actual and forecasted spend.
type BudgetInfo struct {
	Name     string  `json:"name"`
	Limit    float64 `json:"limit"`
	Actual   float64 `json:"actual"`
	Forecast float64 `json:"forecast,omitempty"`
}

// PercentUsed returns how much of the limit the actual spend consumes, or 0
// when the budget has no limit.
func (b BudgetInfo) PercentUsed() float64 {
	if b.Limit <= 0 {
		return 0
	}
	return b.Actual / b.Limit * 100
}

// Exceeded reports whether actual spend is already above the limit.
func (b BudgetInfo) Exceeded() bool {
	return b.Limit > 0 && b.Actual > b.Limit
}
