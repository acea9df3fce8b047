package analytics

import (
	"cashflowcli/pkg/contracts/domain"
)

// Comparison table row names
const (
	RowFinalBalance    = "Final Cash Balance"
	RowTotalInflow     = "Total Cash Inflow"
	RowTotalOutflow    = "Total Cash Outflow"
	RowCumulativeNetCF = "Cumulative Net CF"
	RowAverageMonthly  = "Average Monthly CF"
)

// ComparisonRow is one metric across the three scenarios
type ComparisonRow struct {
	Metric      string  `json:"metric"`
	Optimistic  float64 `json:"optimistic"`
	Base        float64 `json:"base"`
	Pessimistic float64 `json:"pessimistic"`
}

// Value returns the row's value for scenario
func (r ComparisonRow) Value(scenario domain.Scenario) float64 {
	switch scenario {
	case domain.ScenarioOptimistic:
		return r.Optimistic
	case domain.ScenarioPessimistic:
		return r.Pessimistic
	default:
		return r.Base
	}
}

// ComparisonTable holds the rows in report order
type ComparisonTable struct {
	Rows []ComparisonRow `json:"rows"`
}

// Row returns the named row
func (t ComparisonTable) Row(metric string) (ComparisonRow, bool) {
	for _, r := range t.Rows {
		if r.Metric == metric {
			return r, true
		}
	}
	return ComparisonRow{}, false
}

// RiskMetrics summarizes the spread between scenarios. Best and worst are
// the optimistic and pessimistic projections by definition, not by value.
type RiskMetrics struct {
	BestCase       float64   `json:"best_case"`
	BaseCase       float64   `json:"base_case"`
	WorstCase      float64   `json:"worst_case"`
	RiskRange      float64   `json:"risk_range"`
	ScenarioSpread NullFloat `json:"scenario_spread"` // percent of base
}

// Comparison is the cross-scenario view used by every renderer
type Comparison struct {
	Labels     []string                      `json:"labels"`
	Table      ComparisonTable               `json:"table"`
	Risk       RiskMetrics                   `json:"risk"`
	BaseGrowth []float64                     `json:"base_growth"`
	Cumulative map[domain.Scenario][]float64 `json:"cumulative"`
	Balances   map[domain.Scenario][]float64 `json:"balances"`
}

// Compare builds the comparison of the three scenarios
func Compare(optimistic, base, pessimistic domain.ScenarioSeries) Comparison {
	row := func(metric string, f func(domain.ScenarioSeries) float64) ComparisonRow {
		return ComparisonRow{
			Metric:      metric,
			Optimistic:  f(optimistic),
			Base:        f(base),
			Pessimistic: f(pessimistic),
		}
	}

	table := ComparisonTable{Rows: []ComparisonRow{
		row(RowFinalBalance, func(s domain.ScenarioSeries) float64 {
			return s.Final(domain.FieldClosingBalance)
		}),
		row(RowTotalInflow, func(s domain.ScenarioSeries) float64 {
			return Sum(s.Values(domain.FieldTotalInflows))
		}),
		row(RowTotalOutflow, func(s domain.ScenarioSeries) float64 {
			return Sum(s.Values(domain.FieldTotalOutflows))
		}),
		row(RowCumulativeNetCF, func(s domain.ScenarioSeries) float64 {
			return Sum(s.Values(domain.FieldNetCashFlow))
		}),
		row(RowAverageMonthly, func(s domain.ScenarioSeries) float64 {
			return Mean(s.Values(domain.FieldNetCashFlow))
		}),
	}}

	return Comparison{
		Labels:     base.Labels(),
		Table:      table,
		Risk:       ComputeRisk(optimistic, base, pessimistic),
		BaseGrowth: MonthOverMonthGrowth(base.Values(domain.FieldClosingBalance)),
		Cumulative: map[domain.Scenario][]float64{
			domain.ScenarioOptimistic:  CumulativeSum(optimistic.Values(domain.FieldNetCashFlow)),
			domain.ScenarioBase:        CumulativeSum(base.Values(domain.FieldNetCashFlow)),
			domain.ScenarioPessimistic: CumulativeSum(pessimistic.Values(domain.FieldNetCashFlow)),
		},
		Balances: map[domain.Scenario][]float64{
			domain.ScenarioOptimistic:  optimistic.Values(domain.FieldClosingBalance),
			domain.ScenarioBase:        base.Values(domain.FieldClosingBalance),
			domain.ScenarioPessimistic: pessimistic.Values(domain.FieldClosingBalance),
		},
	}
}

// ComputeRisk returns the final-balance risk figures
func ComputeRisk(optimistic, base, pessimistic domain.ScenarioSeries) RiskMetrics {
	r := RiskMetrics{
		BestCase:  optimistic.Final(domain.FieldClosingBalance),
		BaseCase:  base.Final(domain.FieldClosingBalance),
		WorstCase: pessimistic.Final(domain.FieldClosingBalance),
	}
	r.RiskRange = r.BestCase - r.WorstCase
	if r.BaseCase != 0 {
		r.ScenarioSpread = Defined(r.RiskRange / r.BaseCase * 100)
	}
	return r
}

// MonthOverMonthGrowth returns the percentage change of each balance over
// the previous one. The first period, and any period following a balance
// that is not positive, report 0.
func MonthOverMonthGrowth(balances []float64) []float64 {
	growth := make([]float64, len(balances))
	for i := 1; i < len(balances); i++ {
		if prev := balances[i-1]; prev > 0 {
			growth[i] = (balances[i]/prev - 1) * 100
		}
	}
	return growth
}
