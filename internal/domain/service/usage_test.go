package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-org-monitor-go/internal/domain/entity"
)

func observationWindow() entity.TimeWindow {
	return entity.TimeWindow{
		Start: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
	}
}

func TestSummarizeUsageComputesStatistics(t *testing.T) {
	samples := []entity.UsageSample{
		usageSample("i-0abc", "CPUUtilization", "2025-05-01T10:00:00Z", 40),
		usageSample("i-0abc", "CPUUtilization", "2025-05-01T11:00:00Z", 80),
		usageSample("i-0abc", "CPUUtilization", "2025-05-01T12:00:00Z", 60),
	}

	summaries := SummarizeUsage(samples)

	require.Len(t, summaries, 1)
	s := summaries[0]
	assert.Equal(t, "i-0abc", s.ResourceID)
	assert.Equal(t, "CPUUtilization", s.MetricName)
	assert.InDelta(t, 60.0, s.Average, 1e-9)
	assert.Equal(t, 40.0, s.Minimum)
	assert.Equal(t, 80.0, s.Maximum)
	assert.Equal(t, 60.0, s.Latest)
	assert.Equal(t, 3, s.SampleCount)
}

func TestSummarizeUsageLatestFollowsTimestampNotOrder(t *testing.T) {
	// A amostra mais recente chega fora de ordem na fatia.
	samples := []entity.UsageSample{
		usageSample("i-0abc", "NetworkIn", "2025-05-01T12:00:00Z", 300),
		usageSample("i-0abc", "NetworkIn", "2025-05-01T10:00:00Z", 100),
		usageSample("i-0abc", "NetworkIn", "2025-05-01T11:00:00Z", 200),
	}

	summaries := SummarizeUsage(samples)

	require.Len(t, summaries, 1)
	assert.Equal(t, 300.0, summaries[0].Latest)
	assert.Equal(t, 100.0, summaries[0].Minimum)
}

func TestSummarizeUsageSkipsUnidentifiedSamples(t *testing.T) {
	samples := []entity.UsageSample{
		usageSample("", "CPUUtilization", "2025-05-01T10:00:00Z", 50),
		usageSample("i-0abc", "", "2025-05-01T10:00:00Z", 50),
		usageSample("i-0abc", "CPUUtilization", "2025-05-01T10:00:00Z", 75),
	}

	summaries := SummarizeUsage(samples)

	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].SampleCount)
	assert.Equal(t, 75.0, summaries[0].Average)
}

func TestSummarizeUsageSortsByResourceAndMetric(t *testing.T) {
	samples := []entity.UsageSample{
		usageSample("i-0xyz", "CPUUtilization", "2025-05-01T10:00:00Z", 10),
		usageSample("i-0abc", "NetworkIn", "2025-05-01T10:00:00Z", 10),
		usageSample("i-0abc", "CPUUtilization", "2025-05-01T10:00:00Z", 10),
	}

	summaries := SummarizeUsage(samples)

	require.Len(t, summaries, 3)
	assert.Equal(t, "i-0abc", summaries[0].ResourceID)
	assert.Equal(t, "CPUUtilization", summaries[0].MetricName)
	assert.Equal(t, "i-0abc", summaries[1].ResourceID)
	assert.Equal(t, "NetworkIn", summaries[1].MetricName)
	assert.Equal(t, "i-0xyz", summaries[2].ResourceID)
}

func TestSummarizeUsageEmptyInput(t *testing.T) {
	summaries := SummarizeUsage(nil)
	assert.Empty(t, summaries)
}

func TestUsageObservationsSumsWindowPerKey(t *testing.T) {
	samples := []entity.UsageSample{
		usageSample("i-0abc", "CPUUtilization", "2025-06-10T03:00:00Z", 20),
		usageSample("i-0abc", "CPUUtilization", "2025-06-10T15:00:00Z", 30),
		usageSample("db-prod", "DatabaseConnections", "2025-06-10T04:00:00Z", 12),
	}

	observations, diags := UsageObservations(samples, observationWindow())

	assert.Empty(t, diags)
	require.Len(t, observations, 2)
	assert.Equal(t, "db-prod:DatabaseConnections", observations[0].Key)
	assert.InDelta(t, 12.0, observations[0].Observed, 1e-9)
	assert.Equal(t, "i-0abc:CPUUtilization", observations[1].Key)
	assert.InDelta(t, 50.0, observations[1].Observed, 1e-9)
}

func TestUsageObservationsRejectInvalidSamples(t *testing.T) {
	samples := []entity.UsageSample{
		usageSample("i-0abc", "", "2025-06-10T03:00:00Z", 20),          // sem métrica
		usageSample("i-0abc", "NetworkIn", "2025-06-12T00:00:00Z", 10), // fora da janela
		usageSample("i-0abc", "NetworkIn", "2025-06-10T05:00:00Z", 40),
	}

	observations, diags := UsageObservations(samples, observationWindow())

	require.Len(t, diags, 2)
	require.Len(t, observations, 1)
	assert.InDelta(t, 40.0, observations[0].Observed, 1e-9)
}

func TestUsageObservationsMatchDailyBaselineUnits(t *testing.T) {
	// Uma carga estável observada em um dia fechado tem que bater com a média
	// das somas diárias que BuildFromUsage extraiu da mesma carga: duas
	// amostras de 25 por dia dão 50 dos dois lados.
	builder := NewBaselineBuilder(entity.DefaultAnalysisConfig())
	history := []entity.UsageSample{
		usageSample("i-0abc", "CPUUtilization", "2025-05-01T06:00:00Z", 25),
		usageSample("i-0abc", "CPUUtilization", "2025-05-01T18:00:00Z", 25),
		usageSample("i-0abc", "CPUUtilization", "2025-05-02T06:00:00Z", 25),
		usageSample("i-0abc", "CPUUtilization", "2025-05-02T18:00:00Z", 25),
		usageSample("i-0abc", "CPUUtilization", "2025-05-03T06:00:00Z", 25),
		usageSample("i-0abc", "CPUUtilization", "2025-05-03T18:00:00Z", 25),
	}
	set, diags := builder.BuildFromUsage(history, baselineWindow())
	require.Empty(t, diags)
	baseline, ok := set.Lookup("i-0abc:CPUUtilization")
	require.True(t, ok)

	observations, obsDiags := UsageObservations([]entity.UsageSample{
		usageSample("i-0abc", "CPUUtilization", "2025-06-10T06:00:00Z", 25),
		usageSample("i-0abc", "CPUUtilization", "2025-06-10T18:00:00Z", 25),
	}, observationWindow())

	assert.Empty(t, obsDiags)
	require.Len(t, observations, 1)
	assert.InDelta(t, baseline.Mean, observations[0].Observed, 1e-9)
	assert.InDelta(t, 50.0, observations[0].Observed, 1e-9)
}

func TestUsageObservationsEmptyInput(t *testing.T) {
	observations, diags := UsageObservations(nil, observationWindow())
	assert.Empty(t, observations)
	assert.Empty(t, diags)
}
