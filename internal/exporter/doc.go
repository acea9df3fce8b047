// Package exporter writes the tabular outputs of an analysis run.
//
// CSVWriter is the shared CSV writer, with an optional UTF-8 BOM for Excel.
// On top of it:
//
// SummaryExporter writes the ten key metrics as Metric,Value rows with
// human readable values ("Rp 1,234.5M", "12.3%", "N/A").
//
// ScenarioExporter writes one row per period with base inflows, outflows,
// net cash flow and the closing balance of every scenario.
//
// WorkbookExporter writes the same tables plus the comparison table into an
// xlsx report with native line and bar charts.
//
// WriteAnalysisReport prints the console report.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(cfg.Output.ExcelBOM, logger)
//	summary := exporter.NewSummaryExporter(writer, logger)
//	err := summary.Export(ctx, analysis, paths.SummaryFile)
package exporter
