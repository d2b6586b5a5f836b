package service

import (
	"math"

	"github.com/diillson/aws-org-monitor-go/internal/domain/entity"
)

// BaselineBuilder constrói linhas de base estatísticas por chave de
// agrupamento a partir do histórico, particionado em fatias diárias (UTC).
// A configuração precisa ter passado por Validate antes de chegar aqui.
type BaselineBuilder struct {
	cfg entity.AnalysisConfig
}

// NewBaselineBuilder cria um construtor de linhas de base.
func NewBaselineBuilder(cfg entity.AnalysisConfig) *BaselineBuilder {
	return &BaselineBuilder{cfg: cfg}
}

// Build soma o total diário de cada chave (conta:serviço) e calcula média
// aritmética e desvio padrão amostral (correção de Bessel, N-1) sobre os
// valores diários. Chaves com menos fatias que o mínimo configurado recebem
// a marca Insufficient e nunca são pontuadas numericamente depois.
func (b *BaselineBuilder) Build(history []entity.CostRecord, window entity.TimeWindow) (entity.BaselineSet, []entity.ValidationError) {
	var diags []entity.ValidationError

	daily := make(map[string]map[string]float64)
	for i, rec := range history {
		if verr := validateCostRecord(i, rec, window, ""); verr != nil {
			diags = append(diags, *verr)
			continue
		}
		key := rec.Key().String()
		day := rec.BucketStart.UTC().Format("2006-01-02")
		if daily[key] == nil {
			daily[key] = map[string]float64{}
		}
		daily[key][day] += rec.Amount
	}

	return b.buildSet(daily, window), diags
}

// BuildFromUsage aplica a mesma mecânica ao histórico de uso, com a chave
// canônica "recurso:métrica" e a fatia diária derivada do timestamp.
func (b *BaselineBuilder) BuildFromUsage(samples []entity.UsageSample, window entity.TimeWindow) (entity.BaselineSet, []entity.ValidationError) {
	var diags []entity.ValidationError

	daily := make(map[string]map[string]float64)
	for i, s := range samples {
		if verr := validateUsageSample(i, s, window); verr != nil {
			diags = append(diags, *verr)
			continue
		}
		key := s.Key()
		day := s.Timestamp.UTC().Format("2006-01-02")
		if daily[key] == nil {
			daily[key] = map[string]float64{}
		}
		daily[key][day] += s.Value
	}

	return b.buildSet(daily, window), diags
}

func (b *BaselineBuilder) buildSet(daily map[string]map[string]float64, window entity.TimeWindow) entity.BaselineSet {
	set := entity.BaselineSet{
		Window:         window,
		MinimumBuckets: b.cfg.MinimumBaselineBuckets,
		Baselines:      make(map[string]entity.Baseline, len(daily)),
	}
	for key, days := range daily {
		values := make([]float64, 0, len(days))
		for _, v := range days {
			values = append(values, v)
		}
		mean := meanOf(values)
		set.Baselines[key] = entity.Baseline{
			Key:          key,
			Mean:         mean,
			StdDev:       sampleStdDev(values, mean),
			SampleCount:  len(values),
			WindowStart:  window.Start,
			WindowEnd:    window.End,
			Insufficient: len(values) < b.cfg.MinimumBaselineBuckets,
		}
	}
	return set
}

// validateUsageSample devolve o diagnóstico de uma amostra malformada ou
// fora da janela, ou nil quando a amostra é utilizável.
func validateUsageSample(index int, s entity.UsageSample, window entity.TimeWindow) *entity.ValidationError {
	key := s.Key()
	switch {
	case s.ResourceID == "":
		return &entity.ValidationError{Index: index, Key: key, Field: "resource_id", Reason: "must not be empty"}
	case s.MetricName == "":
		return &entity.ValidationError{Index: index, Key: key, Field: "metric_name", Reason: "must not be empty"}
	case s.Timestamp.IsZero():
		return &entity.ValidationError{Index: index, Key: key, Field: "timestamp", Reason: "must be set"}
	case math.IsNaN(s.Value) || math.IsInf(s.Value, 0):
		return &entity.ValidationError{Index: index, Key: key, Field: "value", Reason: "must be a finite number"}
	case s.Value < 0:
		return &entity.ValidationError{Index: index, Key: key, Field: "value", Reason: "must not be negative"}
	case s.Timestamp.Before(window.Start) || !s.Timestamp.Before(window.End):
		return &entity.ValidationError{Index: index, Key: key, Field: "timestamp", Reason: "sample falls outside the requested window"}
	}
	return nil
}

// meanOf retorna a média aritmética, ou 0 para uma série vazia.
func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev calcula o desvio padrão amostral (divisor N-1). Uma série de
// um único valor resulta em desvio 0, nunca NaN.
func sampleStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
