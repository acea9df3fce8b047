package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"cashflowcli/internal/analytics"
	apperrors "cashflowcli/internal/errors"
	"cashflowcli/pkg/contracts/domain"
)

// Report workbook sheet names
const (
	SheetSummary    = "Summary"
	SheetScenarios  = "Scenarios"
	SheetComparison = "Comparison"
)

// WorkbookExporter writes the analysis as an xlsx report with native charts
type WorkbookExporter struct {
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{logger: logger}
}

// Export writes the report workbook to path
func (e *WorkbookExporter) Export(ctx context.Context, a analytics.Analysis, path string) error {
	if a.Scenarios.Base.Len() == 0 {
		return apperrors.NewExportError("no periods to export", nil)
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6F1"}},
	})
	if err != nil {
		return apperrors.NewExportError("failed to create header style", err)
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return apperrors.NewExportError("failed to create amount style", err)
	}

	steps := []struct {
		name  string
		write func(*excelize.File, analytics.Analysis, int, int) error
	}{
		{SheetSummary, writeSummarySheet},
		{SheetScenarios, writeScenarioSheet},
		{SheetComparison, writeComparisonSheet},
	}
	for _, step := range steps {
		if _, err := f.NewSheet(step.name); err != nil {
			return apperrors.NewExportError(fmt.Sprintf("failed to create sheet %s", step.name), err)
		}
		if err := step.write(f, a, header, amount); err != nil {
			return apperrors.NewExportError(fmt.Sprintf("failed to write sheet %s", step.name), err)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return apperrors.NewExportError("failed to remove default sheet", err)
	}
	if idx, err := f.GetSheetIndex(SheetSummary); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewExportError("failed to create directory", err).WithContext("path", path)
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewExportError("failed to save workbook", err).WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "Report workbook exported",
		slog.String("path", path),
		slog.Int("sheets", len(steps)))
	return nil
}

func writeSummarySheet(f *excelize.File, a analytics.Analysis, header, _ int) error {
	if err := f.SetSheetRow(SheetSummary, "A1", &[]interface{}{"Metric", "Value"}); err != nil {
		return err
	}
	rows := SummaryRows(a)
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetSummary, cell, &[]interface{}{r.Metric, r.Value}); err != nil {
			return err
		}
	}

	next := len(rows) + 3
	if be := a.BreakEven; be != nil {
		extra := [][]interface{}{
			{"Break-Even Revenue", FormatMillions(be.Revenue)},
			{"Break-Even Transactions", printer.Sprintf("%.0f", be.TransactionCount)},
			{"Current Revenue", FormatMillions(be.CurrentRevenue)},
			{"Safety Margin", FormatRatio(be.SafetyMargin)},
			{"Break-Even Status", string(be.Status())},
		}
		for i, row := range extra {
			cell, _ := excelize.CoordinatesToCellName(1, next+i)
			if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
				return err
			}
		}
	} else {
		cell, _ := excelize.CoordinatesToCellName(1, next)
		if err := f.SetSheetRow(SheetSummary, cell, &[]interface{}{"Break-Even Status", "unavailable"}); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(SheetSummary, "A1", "B1", header); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "A", 26)
}

func writeScenarioSheet(f *excelize.File, a analytics.Analysis, header, amount int) error {
	headers := make([]interface{}, len(ScenarioHeaders))
	for i, h := range ScenarioHeaders {
		headers[i] = h
	}
	if err := f.SetSheetRow(SheetScenarios, "A1", &headers); err != nil {
		return err
	}

	base := a.Scenarios.Base
	opt := a.Scenarios.Get(domain.ScenarioOptimistic)
	pes := a.Scenarios.Get(domain.ScenarioPessimistic)
	for i, rec := range base.Records() {
		row := []interface{}{
			rec.PeriodLabel,
			rec.TotalInflows,
			rec.TotalOutflows,
			rec.NetCashFlow,
			rec.ClosingBalance,
			closingValue(opt, i),
			closingValue(pes, i),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetScenarios, cell, &row); err != nil {
			return err
		}
	}

	last := base.Len() + 1
	if err := f.SetCellStyle(SheetScenarios, "A1", "G1", header); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetScenarios, "B2", fmt.Sprintf("G%d", last), amount); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetScenarios, "A", "G", 16); err != nil {
		return err
	}

	categories := fmt.Sprintf("%s!$A$2:$A$%d", SheetScenarios, last)
	series := []excelize.ChartSeries{
		{Name: SheetScenarios + "!$F$1", Categories: categories, Values: fmt.Sprintf("%s!$F$2:$F$%d", SheetScenarios, last)},
		{Name: SheetScenarios + "!$E$1", Categories: categories, Values: fmt.Sprintf("%s!$E$2:$E$%d", SheetScenarios, last)},
		{Name: SheetScenarios + "!$G$1", Categories: categories, Values: fmt.Sprintf("%s!$G$2:$G$%d", SheetScenarios, last)},
	}
	return f.AddChart(SheetScenarios, "I2", &excelize.Chart{
		Type:      excelize.Line,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: "Cash Balance Projection"}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 640, Height: 360},
	})
}

func closingValue(series domain.ScenarioSeries, i int) interface{} {
	if i >= series.Len() {
		return nil
	}
	return series.Record(i).ClosingBalance
}

func writeComparisonSheet(f *excelize.File, a analytics.Analysis, header, amount int) error {
	headers := []interface{}{"Metric"}
	for _, s := range domain.ComparisonOrder {
		headers = append(headers, s.DisplayName())
	}
	if err := f.SetSheetRow(SheetComparison, "A1", &headers); err != nil {
		return err
	}

	rows := a.Comparison.Table.Rows
	for i, r := range rows {
		row := []interface{}{r.Metric}
		for _, s := range domain.ComparisonOrder {
			row = append(row, r.Value(s))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetComparison, cell, &row); err != nil {
			return err
		}
	}

	last := len(rows) + 1
	risk := a.Comparison.Risk
	riskRows := [][]interface{}{
		{"Risk Range", risk.RiskRange},
		{"Scenario Spread", FormatNullPercent(risk.ScenarioSpread)},
	}
	for i, row := range riskRows {
		cell, _ := excelize.CoordinatesToCellName(1, last+2+i)
		if err := f.SetSheetRow(SheetComparison, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(SheetComparison, "A1", "D1", header); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetComparison, "B2", fmt.Sprintf("D%d", last+2), amount); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetComparison, "A", "D", 20); err != nil {
		return err
	}

	// Final balance is the first comparison row.
	var series []excelize.ChartSeries
	for i, col := range []string{"B", "C", "D"} {
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", SheetComparison, col),
			Categories: fmt.Sprintf("%s!$A$2", SheetComparison),
			Values:     fmt.Sprintf("%s!$%s$2", SheetComparison, col),
			Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{scenarioColors[i]}},
		})
	}
	return f.AddChart(SheetComparison, "F2", &excelize.Chart{
		Type:      excelize.Bar,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: "Final Cash Balance by Scenario"}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 560, Height: 320},
	})
}

// scenarioColors follows domain.ComparisonOrder
var scenarioColors = []string{"#06A77D", "#2E86AB", "#D72638"}
