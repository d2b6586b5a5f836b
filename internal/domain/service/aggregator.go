package service

import (
	"math"
	"sort"

	"github.com/diillson/aws-org-monitor-go/internal/domain/entity"
)

// CostAggregator agrega registros de custo por conta e serviço dentro de uma
// janela, produzindo o rateio percentual de cada grupo no total. Função
// pura: sem relógio, sem I/O, sem estado compartilhado.
type CostAggregator struct{}

// NewCostAggregator cria um agregador de custos.
func NewCostAggregator() *CostAggregator {
	return &CostAggregator{}
}

// Aggregate soma os registros válidos por (conta, serviço) e calcula a fatia
// percentual de cada grupo. Registros malformados ou fora da janela viram
// diagnósticos e ficam de fora dos totais; a execução nunca é abortada por
// causa deles. Entrada vazia produz um breakdown vazio.
func (a *CostAggregator) Aggregate(records []entity.CostRecord, window entity.TimeWindow) (entity.Breakdown, []entity.ValidationError) {
	var diags []entity.ValidationError

	totals := make(map[entity.GroupKey]float64)
	currency := ""
	for i, rec := range records {
		if verr := validateCostRecord(i, rec, window, currency); verr != nil {
			diags = append(diags, *verr)
			continue
		}
		if currency == "" {
			currency = rec.Currency
		}
		totals[rec.Key()] += rec.Amount
	}

	breakdown := entity.Breakdown{
		Entries:  make([]entity.BreakdownEntry, 0, len(totals)),
		Currency: currency,
		Window:   window,
	}
	for key, amount := range totals {
		breakdown.Entries = append(breakdown.Entries, entity.BreakdownEntry{Key: key, TotalAmount: amount})
	}
	sort.Slice(breakdown.Entries, func(i, j int) bool {
		if breakdown.Entries[i].TotalAmount != breakdown.Entries[j].TotalAmount {
			return breakdown.Entries[i].TotalAmount > breakdown.Entries[j].TotalAmount
		}
		return breakdown.Entries[i].Key.String() < breakdown.Entries[j].Key.String()
	})

	// O total soma as entradas já ordenadas: somar na ordem de iteração do
	// map deixaria o último bit variar entre execuções com a mesma entrada.
	for i := range breakdown.Entries {
		breakdown.GrandTotal += breakdown.Entries[i].TotalAmount
	}

	if breakdown.GrandTotal > 0 {
		sum := 0.0
		for i := range breakdown.Entries {
			breakdown.Entries[i].Percentage = round2(breakdown.Entries[i].TotalAmount / breakdown.GrandTotal * 100)
			sum += breakdown.Entries[i].Percentage
		}
		// O arredondamento pode deixar a soma fora de 100; o resíduo vai
		// inteiro para o maior grupo (método do maior resto), mantendo a
		// soma em exatamente 100.00.
		if residual := round2(100 - sum); residual != 0 {
			breakdown.Entries[0].Percentage = round2(breakdown.Entries[0].Percentage + residual)
		}
	}

	return breakdown, diags
}

// validateCostRecord devolve o diagnóstico de um registro malformado ou fora
// da janela, ou nil quando o registro é utilizável.
func validateCostRecord(index int, rec entity.CostRecord, window entity.TimeWindow, currency string) *entity.ValidationError {
	key := rec.Key().String()
	switch {
	case rec.AccountID == "":
		return &entity.ValidationError{Index: index, Key: key, Field: "account_id", Reason: "must not be empty"}
	case rec.ServiceName == "":
		return &entity.ValidationError{Index: index, Key: key, Field: "service_name", Reason: "must not be empty"}
	case rec.BucketStart.IsZero() || rec.BucketEnd.IsZero():
		return &entity.ValidationError{Index: index, Key: key, Field: "time_bucket", Reason: "bucket boundaries must be set"}
	case !rec.BucketEnd.After(rec.BucketStart):
		return &entity.ValidationError{Index: index, Key: key, Field: "time_bucket", Reason: "bucket end must be after bucket start"}
	case math.IsNaN(rec.Amount) || math.IsInf(rec.Amount, 0):
		return &entity.ValidationError{Index: index, Key: key, Field: "amount", Reason: "must be a finite number"}
	case rec.Amount < 0:
		return &entity.ValidationError{Index: index, Key: key, Field: "amount", Reason: "must not be negative"}
	case !window.Contains(rec.BucketStart, rec.BucketEnd):
		return &entity.ValidationError{Index: index, Key: key, Field: "time_bucket", Reason: "bucket falls outside the requested window"}
	case currency != "" && rec.Currency != "" && rec.Currency != currency:
		return &entity.ValidationError{Index: index, Key: key, Field: "currency", Reason: "mixed currencies in one aggregation"}
	}
	return nil
}

// round2 arredonda para duas casas decimais.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
