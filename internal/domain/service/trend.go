package service

import (
	"math"
	"sort"

	"github.com/diillson/aws-org-monitor-go/internal/domain/entity"
)

const (
	trendRegressionDays = 7
	trendForecastDays   = 7
	// Inclinações menores que 1% da média diária contam como estáveis.
	trendStableBand = 0.01
)

// AnalyzeTrend deriva a trajetória do gasto diário: médias móveis de 7 e 30
// dias, direção pela inclinação da regressão linear sobre a cauda da série e
// projeção dos próximos 7 dias.
func AnalyzeTrend(daily []entity.DailyCost) entity.TrendReport {
	report := entity.TrendReport{Direction: entity.TrendStable}
	if len(daily) == 0 {
		return report
	}

	points := make([]entity.DailyCost, len(daily))
	copy(points, daily)
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	values := make([]float64, len(points))
	for i, d := range points {
		values[i] = d.Cost
		report.TotalCost += d.Cost
	}
	report.AverageDaily = report.TotalCost / float64(len(points))

	ma7 := movingAverage(values, 7)
	ma30 := movingAverage(values, 30)
	report.Points = make([]entity.TrendPoint, len(points))
	for i, d := range points {
		report.Points[i] = entity.TrendPoint{
			Date:            d.Date,
			Cost:            d.Cost,
			MovingAverage7:  ma7[i],
			MovingAverage30: ma30[i],
		}
	}

	tail := values
	if len(tail) > trendRegressionDays {
		tail = tail[len(tail)-trendRegressionDays:]
	}
	slope, intercept := linearRegression(tail)
	report.Slope = slope
	switch {
	case math.Abs(slope) <= trendStableBand*report.AverageDaily:
		report.Direction = entity.TrendStable
	case slope > 0:
		report.Direction = entity.TrendIncreasing
	default:
		report.Direction = entity.TrendDecreasing
	}

	report.ChangePercent = changePercent(values)

	if len(tail) >= 2 {
		last := points[len(points)-1].Date
		report.Forecast = make([]entity.ForecastPoint, 0, trendForecastDays)
		for i := 1; i <= trendForecastDays; i++ {
			projected := intercept + slope*float64(len(tail)-1+i)
			if projected < 0 {
				projected = 0
			}
			report.Forecast = append(report.Forecast, entity.ForecastPoint{
				Date: last.AddDate(0, 0, i),
				Cost: round2(projected),
			})
		}
	}

	return report
}

// movingAverage calcula a média móvel com janela parcial no início da série.
func movingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
			out[i] = sum / float64(window)
		} else {
			out[i] = sum / float64(i+1)
		}
	}
	return out
}

// linearRegression ajusta y = intercept + slope*x com x = 0..n-1.
func linearRegression(y []float64) (slope, intercept float64) {
	if len(y) < 2 {
		if len(y) == 1 {
			return 0, y[0]
		}
		return 0, 0
	}
	n := float64(len(y))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// changePercent compara a média dos primeiros dias da série com a média dos
// últimos, usando a mesma largura de janela da regressão.
func changePercent(values []float64) float64 {
	n := len(values)
	w := trendRegressionDays
	if w > n {
		w = n
	}
	older := meanOf(values[:w])
	recent := meanOf(values[n-w:])
	if older == 0 {
		return 0
	}
	return round2((recent - older) / older * 100)
}
