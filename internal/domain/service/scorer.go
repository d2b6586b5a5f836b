package service

import (
	"math"
	"sort"

	"github.com/diillson/aws-org-monitor-go/internal/domain/entity"
)

// AnomalyScorer compara os valores agregados do período corrente com as
// linhas de base e emite achados em ordem determinística. A configuração
// precisa ter passado por Validate antes de chegar aqui.
type AnomalyScorer struct {
	cfg entity.AnalysisConfig
}

// NewAnomalyScorer cria um pontuador de anomalias.
func NewAnomalyScorer(cfg entity.AnalysisConfig) *AnomalyScorer {
	return &AnomalyScorer{cfg: cfg}
}

// Score avalia cada observação contra sua linha de base. Chaves sem nenhum
// histórico viram achados "new spend"; linhas de base insuficientes viram
// "no baseline"; o resto é pontuado pelo desvio percentual da média.
// Observações malformadas viram diagnósticos e a execução continua.
func (s *AnomalyScorer) Score(observations []entity.Observation, baselines entity.BaselineSet) ([]entity.AnomalyFinding, []entity.ValidationError) {
	findings := []entity.AnomalyFinding{}
	var diags []entity.ValidationError
	seen := make(map[string]bool, len(observations))

	for i, obs := range observations {
		if verr := validateObservation(i, obs); verr != nil {
			diags = append(diags, *verr)
			continue
		}
		if seen[obs.Key] {
			diags = append(diags, entity.ValidationError{
				Index: i, Key: obs.Key, Field: "key",
				Reason: "duplicate observation for grouping key",
			})
			continue
		}
		seen[obs.Key] = true

		baseline, ok := baselines.Lookup(obs.Key)
		if !ok {
			findings = append(findings, entity.AnomalyFinding{
				GroupingKey:   obs.Key,
				Category:      entity.CategoryNewSpend,
				ObservedValue: obs.Observed,
			})
			continue
		}
		if baseline.Insufficient {
			findings = append(findings, entity.AnomalyFinding{
				GroupingKey:    obs.Key,
				Category:       entity.CategoryNoBaseline,
				ObservedValue:  obs.Observed,
				BaselineMean:   baseline.Mean,
				BaselineStdDev: baseline.StdDev,
				SampleCount:    baseline.SampleCount,
			})
			continue
		}
		if f, anomalous := s.scoreAgainst(obs, baseline); anomalous {
			findings = append(findings, f)
		}
	}

	sortFindings(findings)
	return findings, diags
}

// scoreAgainst decide pelo desvio percentual da média. O z-score entra só
// como contexto quando o desvio padrão é maior que zero; com desvio padrão
// zero a decisão continua sendo pelo caminho percentual, sem divisão por
// zero.
func (s *AnomalyScorer) scoreAgainst(obs entity.Observation, baseline entity.Baseline) (entity.AnomalyFinding, bool) {
	deviation := round2(deviationPercent(obs.Observed, baseline.Mean))
	if deviation < s.cfg.DeviationThresholdPercent {
		return entity.AnomalyFinding{}, false
	}
	f := entity.AnomalyFinding{
		GroupingKey:         obs.Key,
		Category:            entity.CategoryDeviation,
		ObservedValue:       obs.Observed,
		BaselineMean:        baseline.Mean,
		BaselineStdDev:      baseline.StdDev,
		DeviationPercentage: deviation,
		Severity:            s.severityFor(deviation),
		SampleCount:         baseline.SampleCount,
	}
	if baseline.StdDev > 0 {
		f.ZScore = round2((obs.Observed - baseline.Mean) / baseline.StdDev)
	}
	return f, true
}

// deviationPercent mede o afastamento percentual do valor observado em
// relação à média. Média zero conta como 100% de desvio quando há valor
// observado e 0% quando não há.
func deviationPercent(observed, mean float64) float64 {
	if mean == 0 {
		if observed == 0 {
			return 0
		}
		return 100
	}
	return math.Abs(observed-mean) / mean * 100
}

// severityFor é monotônica: um desvio maior nunca recebe severidade menor.
// Desvios em [limiar, 2x limiar) são moderados; a partir de 2x são altos.
func (s *AnomalyScorer) severityFor(deviation float64) entity.Severity {
	if deviation >= 2*s.cfg.DeviationThresholdPercent {
		return entity.SeverityHigh
	}
	return entity.SeverityModerate
}

// sortFindings ordena por desvio decrescente, desempatando pela chave de
// agrupamento, para que execuções repetidas sobre a mesma entrada produzam
// exatamente a mesma saída.
func sortFindings(findings []entity.AnomalyFinding) {
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].DeviationPercentage != findings[j].DeviationPercentage {
			return findings[i].DeviationPercentage > findings[j].DeviationPercentage
		}
		return findings[i].GroupingKey < findings[j].GroupingKey
	})
}

// validateObservation devolve o diagnóstico de uma observação malformada, ou
// nil quando ela é utilizável.
func validateObservation(index int, obs entity.Observation) *entity.ValidationError {
	switch {
	case obs.Key == "":
		return &entity.ValidationError{Index: index, Field: "key", Reason: "must not be empty"}
	case math.IsNaN(obs.Observed) || math.IsInf(obs.Observed, 0):
		return &entity.ValidationError{Index: index, Key: obs.Key, Field: "observed", Reason: "must be a finite number"}
	case obs.Observed < 0:
		return &entity.ValidationError{Index: index, Key: obs.Key, Field: "observed", Reason: "must not be negative"}
	}
	return nil
}
