package exporter

import (
	"context"
	"log/slog"

	"cashflowcli/internal/analytics"
	apperrors "cashflowcli/internal/errors"
	"cashflowcli/pkg/contracts/domain"
)

// ScenarioHeaders is the header of the per-period scenario table
var ScenarioHeaders = []string{
	"Month",
	"Base_Inflows",
	"Base_Outflows",
	"Base_NetCF",
	"Base_Balance",
	"Opt_Balance",
	"Pes_Balance",
}

// ScenarioRecords returns one row per base period with the closing balance of
// every scenario. Periods missing from a shorter scenario are left empty.
func ScenarioRecords(a analytics.Analysis) [][]string {
	base := a.Scenarios.Base
	opt := a.Scenarios.Get(domain.ScenarioOptimistic)
	pes := a.Scenarios.Get(domain.ScenarioPessimistic)

	records := make([][]string, 0, base.Len())
	for i, rec := range base.Records() {
		records = append(records, []string{
			rec.PeriodLabel,
			formatFloat(rec.TotalInflows),
			formatFloat(rec.TotalOutflows),
			formatFloat(rec.NetCashFlow),
			formatFloat(rec.ClosingBalance),
			closingAt(opt, i),
			closingAt(pes, i),
		})
	}
	return records
}

func closingAt(series domain.ScenarioSeries, i int) string {
	if i >= series.Len() {
		return ""
	}
	return formatFloat(series.Record(i).ClosingBalance)
}

// ScenarioExporter writes the per-period scenario table
type ScenarioExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewScenarioExporter creates a scenario exporter
func NewScenarioExporter(writer *CSVWriter, logger *slog.Logger) *ScenarioExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScenarioExporter{writer: writer, logger: logger}
}

// Export writes the scenario table to path
func (e *ScenarioExporter) Export(ctx context.Context, a analytics.Analysis, path string) error {
	records := ScenarioRecords(a)
	if err := e.writer.WriteSimpleCSV(path, ScenarioHeaders, records); err != nil {
		return apperrors.NewExportError("failed to write scenario table", err).WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "Scenario data exported",
		slog.String("path", path),
		slog.Int("periods", len(records)))
	return nil
}
