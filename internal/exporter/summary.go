package exporter

import (
	"context"
	"log/slog"

	"cashflowcli/internal/analytics"
	apperrors "cashflowcli/internal/errors"
)

// SummaryHeaders is the header of the key metrics table
var SummaryHeaders = []string{"Metric", "Value"}

// SummaryRow is one formatted key metric
type SummaryRow struct {
	Metric string
	Value  string
}

// SummaryRows returns the ten key metrics of the base case and the scenario
// spread, formatted for reading
func SummaryRows(a analytics.Analysis) []SummaryRow {
	base := a.Base()
	risk := a.Comparison.Risk

	return []SummaryRow{
		{"Avg Monthly Revenue", FormatMillions(base.AvgMonthlyInflow)},
		{"Avg Monthly Expenses", FormatMillions(base.AvgMonthlyOutflow)},
		{"Avg Net Cash Flow", FormatMillions(base.AvgNetCashFlow)},
		{"Revenue Growth Rate", FormatPercent(base.GrowthRate)},
		{"Expense Ratio", FormatNullPercent(base.ExpenseRatio)},
		{"Cash Flow Volatility", FormatMillions(base.Volatility)},
		{"Final Balance (Base)", FormatMillions(risk.BaseCase)},
		{"Final Balance (Best)", FormatMillions(risk.BestCase)},
		{"Final Balance (Worst)", FormatMillions(risk.WorstCase)},
		{"Risk Range", FormatMillions(risk.RiskRange)},
	}
}

// SummaryExporter writes the key metrics table
type SummaryExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewSummaryExporter creates a summary exporter
func NewSummaryExporter(writer *CSVWriter, logger *slog.Logger) *SummaryExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryExporter{writer: writer, logger: logger}
}

// Export writes the summary table to path
func (e *SummaryExporter) Export(ctx context.Context, a analytics.Analysis, path string) error {
	rows := SummaryRows(a)
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.Metric, r.Value})
	}

	if err := e.writer.WriteSimpleCSV(path, SummaryHeaders, records); err != nil {
		return apperrors.NewExportError("failed to write summary", err).WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "Summary exported",
		slog.String("path", path),
		slog.Int("metrics", len(records)))
	return nil
}
