package entity

import "time"

// Trend directions.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// TrendPoint is one day of spend with its moving averages.
type TrendPoint struct {
	Date            time.Time `json:"date"`
	Cost            float64   `json:"cost"`
	MovingAverage7  float64   `json:"moving_average_7"`
	MovingAverage30 float64   `json:"moving_average_30"`
}

// ForecastPoint is one projected day of spend.
type ForecastPoint struct {
	Date time.Time `json:"date"`
	Cost float64   `json:"cost"`
}

// TrendReport describes the spend trajectory of one account over the
// analysis window.
type TrendReport struct {
	Profile       string          `json:"profile"`
	AccountID     string          `json:"account_id"`
	Points        []TrendPoint    `json:"points"`
	Direction     string          `json:"direction"`
	Slope         float64         `json:"slope"`
	ChangePercent float64         `json:"change_percent"`
	TotalCost     float64         `json:"total_cost"`
	AverageDaily  float64         `json:"average_daily"`
	Forecast      []ForecastPoint `json:"forecast,omitempty"`
}
