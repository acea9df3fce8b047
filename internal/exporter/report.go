package exporter

import (
	"fmt"
	"io"
	"strings"

	"cashflowcli/internal/analytics"
	"cashflowcli/pkg/contracts/domain"
)

const ruleWidth = 80

// reportWriter remembers the first write error so sections can print freely
type reportWriter struct {
	w   io.Writer
	err error
}

func (r *reportWriter) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *reportWriter) section(title string) {
	rule := strings.Repeat("=", ruleWidth)
	r.printf("\n%s\n%s\n%s\n", rule, title, rule)
}

// WriteAnalysisReport prints the human readable analysis: base case
// statistics and key metrics, the scenario comparison, risk, volatility,
// correlation, trend and break-even sections.
func WriteAnalysisReport(w io.Writer, a analytics.Analysis) error {
	r := &reportWriter{w: w}
	base := a.Base()

	r.section("DESCRIPTIVE STATISTICS - BASE CASE SCENARIO")
	writeDescribe(r, base)

	r.printf("\nKey Metrics (Base Case):\n")
	r.printf("  Average Monthly Inflows:  %s\n", FormatMillions(base.AvgMonthlyInflow))
	r.printf("  Average Monthly Outflows: %s\n", FormatMillions(base.AvgMonthlyOutflow))
	r.printf("  Average Net Cash Flow:    %s\n", FormatMillions(base.AvgNetCashFlow))
	r.printf("  Total Inflows (Period):   %s\n", FormatMillions(base.TotalInflow))
	r.printf("  Total Outflows (Period):  %s\n", FormatMillions(base.TotalOutflow))
	r.printf("  Revenue Growth Rate:      %s\n", FormatPercent(base.GrowthRate))
	r.printf("  Expense Ratio:            %s\n", FormatNullPercent(base.ExpenseRatio))

	r.section("SCENARIO COMPARISON ANALYSIS")
	r.printf("\n%-20s", "Metric")
	for _, s := range domain.ComparisonOrder {
		r.printf(" | %18s", s.DisplayName()+" (Rp M)")
	}
	r.printf("\n")
	for _, row := range a.Comparison.Table.Rows {
		r.printf("%-20s", row.Metric)
		for _, s := range domain.ComparisonOrder {
			r.printf(" | %18s", printer.Sprintf("%.1f", row.Value(s)/1_000_000))
		}
		r.printf("\n")
	}

	risk := a.Comparison.Risk
	r.printf("\nRisk Analysis:\n")
	r.printf("  Best Case Scenario:  %s\n", FormatMillions(risk.BestCase))
	r.printf("  Base Case Scenario:  %s\n", FormatMillions(risk.BaseCase))
	r.printf("  Worst Case Scenario: %s\n", FormatMillions(risk.WorstCase))
	r.printf("  Risk Range:          %s\n", FormatMillions(risk.RiskRange))
	r.printf("  Scenario Spread:     %s\n", FormatNullPercent(risk.ScenarioSpread))

	r.section("STATISTICAL ANALYSIS")
	r.printf("\nCash Flow Volatility (Standard Deviation):\n")
	for _, s := range []domain.Scenario{domain.ScenarioBase, domain.ScenarioOptimistic, domain.ScenarioPessimistic} {
		r.printf("  %-13s %s\n", s.DisplayName()+":", FormatMillions(a.MetricsFor(s).Volatility))
	}

	if base.Correlation.Valid {
		r.printf("\nCorrelation (Inflows vs Outflows): %.3f\n", base.Correlation.Float64)
		r.printf("  -> %s\n", base.CorrelationStrength.Description())
	} else {
		r.printf("\nCorrelation: %s\n", base.CorrelationStrength.Description())
	}

	if base.InflowTrend.Valid && base.OutflowTrend.Valid {
		r.printf("\nTrend Analysis (Base Case):\n")
		r.printf("  Inflow trend:  %s M per month\n", printer.Sprintf("Rp %.2f", base.InflowTrend.Float64/1_000_000))
		r.printf("  Outflow trend: %s M per month\n", printer.Sprintf("Rp %.2f", base.OutflowTrend.Float64/1_000_000))
	}

	r.section("BREAK-EVEN ANALYSIS")
	if be := a.BreakEven; be != nil {
		r.printf("\nBreak-Even Metrics:\n")
		r.printf("  BE Revenue:        %s per month\n", FormatMillions(be.Revenue))
		r.printf("  BE Transactions:   %s per month\n", printer.Sprintf("%.0f", be.TransactionCount))
		r.printf("  Current Revenue:   %s per month\n", FormatMillions(be.CurrentRevenue))
		r.printf("  Safety Margin:     %s\n", FormatRatio(be.SafetyMargin))
		status := be.Status()
		r.printf("  Status: %s (%s)\n", strings.ToUpper(string(status)), status.Description())
	} else {
		r.printf("\nBreak-even data unavailable\n")
	}

	return r.err
}

func writeDescribe(r *reportWriter, m analytics.DerivedMetrics) {
	columns := []struct {
		name string
		sum  analytics.ColumnSummary
	}{
		{"Total_Inflows", m.Inflows},
		{"Total_Outflows", m.Outflows},
		{"Net_Cash_Flow", m.NetCashFlow},
		{"Closing_Balance", m.ClosingBalance},
	}

	r.printf("\nSummary Statistics (in Million IDR):\n%-6s", "")
	for _, c := range columns {
		r.printf(" %16s", c.name)
	}
	r.printf("\n%-6s", "count")
	for _, c := range columns {
		r.printf(" %16d", c.sum.Count)
	}
	r.printf("\n")

	stats := []struct {
		name  string
		value func(analytics.ColumnSummary) float64
	}{
		{"mean", func(s analytics.ColumnSummary) float64 { return s.Mean }},
		{"std", func(s analytics.ColumnSummary) float64 { return s.Std }},
		{"min", func(s analytics.ColumnSummary) float64 { return s.Min }},
		{"25%", func(s analytics.ColumnSummary) float64 { return s.Q25 }},
		{"50%", func(s analytics.ColumnSummary) float64 { return s.Median }},
		{"75%", func(s analytics.ColumnSummary) float64 { return s.Q75 }},
		{"max", func(s analytics.ColumnSummary) float64 { return s.Max }},
	}
	for _, st := range stats {
		r.printf("%-6s", st.name)
		for _, c := range columns {
			r.printf(" %16.2f", st.value(c.sum)/1_000_000)
		}
		r.printf("\n")
	}
}
