package service

import (
	"sort"
	"time"

	"github.com/diillson/aws-org-monitor-go/internal/domain/entity"
)

// SummarizeUsage condensa as amostras por recurso e métrica: média, mínimo,
// máximo, valor mais recente e contagem. Amostras sem identificação são
// ignoradas; a saída é ordenada por recurso e métrica.
func SummarizeUsage(samples []entity.UsageSample) []entity.UsageMetricSummary {
	type metricKey struct {
		resource string
		metric   string
	}
	type accumulator struct {
		sum, min, max, latest float64
		latestTS              time.Time
		count                 int
	}

	accs := make(map[metricKey]*accumulator)
	for _, s := range samples {
		if s.ResourceID == "" || s.MetricName == "" {
			continue
		}
		k := metricKey{resource: s.ResourceID, metric: s.MetricName}
		a, ok := accs[k]
		if !ok {
			a = &accumulator{min: s.Value, max: s.Value}
			accs[k] = a
		}
		a.sum += s.Value
		a.count++
		if s.Value < a.min {
			a.min = s.Value
		}
		if s.Value > a.max {
			a.max = s.Value
		}
		if !s.Timestamp.Before(a.latestTS) {
			a.latestTS = s.Timestamp
			a.latest = s.Value
		}
	}

	summaries := make([]entity.UsageMetricSummary, 0, len(accs))
	for k, a := range accs {
		summaries = append(summaries, entity.UsageMetricSummary{
			ResourceID:  k.resource,
			MetricName:  k.metric,
			Average:     a.sum / float64(a.count),
			Minimum:     a.min,
			Maximum:     a.max,
			Latest:      a.latest,
			SampleCount: a.count,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].ResourceID != summaries[j].ResourceID {
			return summaries[i].ResourceID < summaries[j].ResourceID
		}
		return summaries[i].MetricName < summaries[j].MetricName
	})
	return summaries
}

// UsageObservations soma as amostras válidas da janela por recurso:métrica.
// A varredura de anomalias usa uma janela corrente de um dia fechado, então
// o total por chave fica na mesma unidade (soma diária) das linhas de base
// produzidas por BuildFromUsage. Amostras malformadas ou fora da janela viram
// diagnósticos; as chaves saem em ordem lexicográfica.
func UsageObservations(samples []entity.UsageSample, window entity.TimeWindow) ([]entity.Observation, []entity.ValidationError) {
	var diags []entity.ValidationError

	totals := make(map[string]float64)
	for i, s := range samples {
		if verr := validateUsageSample(i, s, window); verr != nil {
			diags = append(diags, *verr)
			continue
		}
		totals[s.Key()] += s.Value
	}

	keys := make([]string, 0, len(totals))
	for key := range totals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	observations := make([]entity.Observation, 0, len(keys))
	for _, key := range keys {
		observations = append(observations, entity.Observation{Key: key, Observed: totals[key]})
	}
	return observations, diags
}
