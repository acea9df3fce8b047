package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflowcli/pkg/contracts/domain"
)

func seriesWithBalances(scenario domain.Scenario, closing ...float64) domain.ScenarioSeries {
	records := make([]domain.MonthlyRecord, len(closing))
	for i, c := range closing {
		records[i] = domain.MonthlyRecord{
			PeriodLabel:    []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep"}[i%9],
			TotalInflows:   10e6,
			TotalOutflows:  8e6,
			NetCashFlow:    2e6,
			ClosingBalance: c,
		}
	}
	return domain.NewScenarioSeries(scenario, records)
}

func TestComputeRisk(t *testing.T) {
	opt := seriesWithBalances(domain.ScenarioOptimistic, 400e6, 500e6)
	base := seriesWithBalances(domain.ScenarioBase, 250e6, 300e6)
	pes := seriesWithBalances(domain.ScenarioPessimistic, 120e6, 100e6)

	risk := ComputeRisk(opt, base, pes)

	assert.Equal(t, 500e6, risk.BestCase)
	assert.Equal(t, 300e6, risk.BaseCase)
	assert.Equal(t, 100e6, risk.WorstCase)
	assert.Equal(t, 400e6, risk.RiskRange)
	require.True(t, risk.ScenarioSpread.Valid)
	assert.InDelta(t, 133.333, risk.ScenarioSpread.Float64, 0.001)
}

func TestComputeRisk_ZeroBase(t *testing.T) {
	risk := ComputeRisk(
		seriesWithBalances(domain.ScenarioOptimistic, 50e6),
		seriesWithBalances(domain.ScenarioBase, 0),
		seriesWithBalances(domain.ScenarioPessimistic, -20e6),
	)

	assert.Equal(t, 70e6, risk.RiskRange)
	assert.False(t, risk.ScenarioSpread.Valid)
}

func TestComputeRisk_StructuralNotNumeric(t *testing.T) {
	// Pessimistic ends higher than optimistic: labels stay structural.
	risk := ComputeRisk(
		seriesWithBalances(domain.ScenarioOptimistic, 100e6),
		seriesWithBalances(domain.ScenarioBase, 150e6),
		seriesWithBalances(domain.ScenarioPessimistic, 200e6),
	)

	assert.Equal(t, 100e6, risk.BestCase)
	assert.Equal(t, 200e6, risk.WorstCase)
	assert.Equal(t, -100e6, risk.RiskRange)
}

func TestMonthOverMonthGrowth(t *testing.T) {
	growth := MonthOverMonthGrowth([]float64{100e6, 110e6, 0, 90e6, 99e6})

	require.Len(t, growth, 5)
	assert.Equal(t, 0.0, growth[0])
	assert.InDelta(t, 10.0, growth[1], 1e-9)
	assert.InDelta(t, -100.0, growth[2], 1e-9)
	assert.Equal(t, 0.0, growth[3], "previous balance of zero reports no growth")
	assert.InDelta(t, 10.0, growth[4], 1e-9)

	assert.Equal(t, []float64{0, 0}, MonthOverMonthGrowth([]float64{-5, 10}))
	assert.Empty(t, MonthOverMonthGrowth(nil))
}

func TestCompare(t *testing.T) {
	opt := seriesWithBalances(domain.ScenarioOptimistic, 200e6, 500e6)
	base := seriesWithBalances(domain.ScenarioBase, 150e6, 300e6)
	pes := seriesWithBalances(domain.ScenarioPessimistic, 110e6, 100e6)

	c := Compare(opt, base, pes)

	require.Len(t, c.Table.Rows, 5)
	assert.Equal(t, RowFinalBalance, c.Table.Rows[0].Metric)
	assert.Equal(t, RowAverageMonthly, c.Table.Rows[4].Metric)

	final, ok := c.Table.Row(RowFinalBalance)
	require.True(t, ok)
	assert.Equal(t, 500e6, final.Value(domain.ScenarioOptimistic))
	assert.Equal(t, 300e6, final.Value(domain.ScenarioBase))
	assert.Equal(t, 100e6, final.Value(domain.ScenarioPessimistic))

	inflow, ok := c.Table.Row(RowTotalInflow)
	require.True(t, ok)
	assert.Equal(t, 20e6, inflow.Base)

	cumulative, ok := c.Table.Row(RowCumulativeNetCF)
	require.True(t, ok)
	assert.Equal(t, 4e6, cumulative.Pessimistic)

	_, ok = c.Table.Row("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"Jan", "Feb"}, c.Labels)
	assert.Equal(t, []float64{2e6, 4e6}, c.Cumulative[domain.ScenarioBase])
	assert.Equal(t, []float64{150e6, 300e6}, c.Balances[domain.ScenarioBase])
	assert.InDelta(t, 100.0, c.BaseGrowth[1], 1e-9)
	assert.Equal(t, 400e6, c.Risk.RiskRange)
}
