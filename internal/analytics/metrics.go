package analytics

import (
	"cashflowcli/pkg/contracts/domain"
)

// CorrelationStrength labels an inflow/outflow correlation
type CorrelationStrength string

const (
	CorrelationStrong    CorrelationStrength = "strong"
	CorrelationModerate  CorrelationStrength = "moderate"
	CorrelationWeak      CorrelationStrength = "weak"
	CorrelationUndefined CorrelationStrength = "undefined"
)

// Description returns the report wording for the strength
func (c CorrelationStrength) Description() string {
	switch c {
	case CorrelationStrong:
		return "Strong positive correlation detected"
	case CorrelationModerate:
		return "Moderate positive correlation"
	case CorrelationWeak:
		return "Weak correlation"
	default:
		return "Cannot calculate (insufficient variance)"
	}
}

// ClassifyCorrelation maps r to a strength: above 0.8 strong, above 0.5
// moderate, anything else weak. Negative correlations count as weak.
func ClassifyCorrelation(r NullFloat) CorrelationStrength {
	switch {
	case !r.Valid:
		return CorrelationUndefined
	case r.Float64 > 0.8:
		return CorrelationStrong
	case r.Float64 > 0.5:
		return CorrelationModerate
	default:
		return CorrelationWeak
	}
}

// DerivedMetrics holds the statistics of one scenario series
type DerivedMetrics struct {
	Scenario domain.Scenario `json:"scenario"`
	Periods  int             `json:"periods"`

	Inflows        ColumnSummary `json:"inflows"`
	Outflows       ColumnSummary `json:"outflows"`
	NetCashFlow    ColumnSummary `json:"net_cash_flow"`
	ClosingBalance ColumnSummary `json:"closing_balance"`

	AvgMonthlyInflow  float64 `json:"avg_monthly_inflow"`
	AvgMonthlyOutflow float64 `json:"avg_monthly_outflow"`
	AvgNetCashFlow    float64 `json:"avg_net_cash_flow"`
	TotalInflow       float64 `json:"total_inflow"`
	TotalOutflow      float64 `json:"total_outflow"`
	FinalBalance      float64 `json:"final_balance"`

	GrowthRate   float64   `json:"growth_rate"`
	ExpenseRatio NullFloat `json:"expense_ratio"`
	Volatility   float64   `json:"volatility"`

	InflowTrend         NullFloat           `json:"inflow_trend"`
	OutflowTrend        NullFloat           `json:"outflow_trend"`
	Correlation         NullFloat           `json:"correlation"`
	CorrelationStrength CorrelationStrength `json:"correlation_strength"`

	MissingCells int `json:"missing_cells"`
}

// ComputeMetrics derives the statistics of a series. It never fails:
// undefined quantities are reported as invalid NullFloats.
func ComputeMetrics(series domain.ScenarioSeries) DerivedMetrics {
	inflows := series.Values(domain.FieldTotalInflows)
	outflows := series.Values(domain.FieldTotalOutflows)
	net := series.Values(domain.FieldNetCashFlow)
	closing := series.Values(domain.FieldClosingBalance)

	m := DerivedMetrics{
		Scenario:       series.Scenario,
		Periods:        series.Len(),
		Inflows:        Describe(inflows),
		Outflows:       Describe(outflows),
		NetCashFlow:    Describe(net),
		ClosingBalance: Describe(closing),

		AvgMonthlyInflow:  Mean(inflows),
		AvgMonthlyOutflow: Mean(outflows),
		AvgNetCashFlow:    Mean(net),
		TotalInflow:       Sum(inflows),
		TotalOutflow:      Sum(outflows),
		FinalBalance:      series.Final(domain.FieldClosingBalance),

		GrowthRate:   GrowthRate(inflows),
		Volatility:   StdDev(net),
		InflowTrend:  TrendSlope(inflows),
		OutflowTrend: TrendSlope(outflows),
		Correlation:  Correlation(inflows, outflows),
		MissingCells: series.MissingCount(),
	}

	if ratio, err := ExpenseRatio(inflows, outflows); err == nil {
		m.ExpenseRatio = Defined(ratio)
	}
	m.CorrelationStrength = ClassifyCorrelation(m.Correlation)

	return m
}
