package operations

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"cashflowcli/internal/analytics"
	"cashflowcli/internal/chart"
	"cashflowcli/internal/dataprocessing"
	apperrors "cashflowcli/internal/errors"
	"cashflowcli/internal/exporter"
	"cashflowcli/internal/validation"
)

// Stage IDs
const (
	StageIDValidateInput   = "validate_input"
	StageIDOpenWorkbook    = "open_workbook"
	StageIDExtract         = "extract"
	StageIDBreakEven       = "break_even"
	StageIDAnalyze         = "analyze"
	StageIDRenderChart     = "render_chart"
	StageIDExportSummary   = "export_summary"
	StageIDExportScenarios = "export_scenarios"
	StageIDExportWorkbook  = "export_workbook"
	StageIDConsoleReport   = "console_report"
)

// StageDependencies holds the collaborators the default stages need
type StageDependencies struct {
	Validator *validation.FileValidator
	Extractor *dataprocessing.Extractor
	Dashboard *chart.Dashboard
	Summary   *exporter.SummaryExporter
	Scenarios *exporter.ScenarioExporter
	// Workbook is optional; the stage is only registered when set.
	Workbook *exporter.WorkbookExporter
	// Report receives the console report; nil disables it.
	Report io.Writer
	Logger *slog.Logger
}

// NewDefaultRegistry registers the analysis stages. Break-even extraction is
// registered before analysis so its snapshot is available, but analysis does
// not depend on it succeeding.
func NewDefaultRegistry(deps StageDependencies) (*Registry, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	stages := []Stage{
		NewValidateInputStage(deps.Validator),
		NewOpenWorkbookStage(),
		NewExtractStage(deps.Extractor),
		NewBreakEvenStage(deps.Extractor),
		NewAnalyzeStage(deps.Logger),
		NewRenderChartStage(deps.Dashboard),
		NewExportSummaryStage(deps.Summary),
		NewExportScenariosStage(deps.Scenarios),
	}
	if deps.Workbook != nil {
		stages = append(stages, NewExportWorkbookStage(deps.Workbook))
	}
	if deps.Report != nil {
		stages = append(stages, NewConsoleReportStage(deps.Report))
	}

	registry := NewRegistry()
	for _, s := range stages {
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// ValidateInputStage checks that the input workbook exists and is readable
type ValidateInputStage struct {
	BaseStage
	validator *validation.FileValidator
}

// NewValidateInputStage creates the input validation stage
func NewValidateInputStage(validator *validation.FileValidator) *ValidateInputStage {
	if validator == nil {
		validator = validation.NewFileValidator(nil)
	}
	return &ValidateInputStage{
		BaseStage: NewBaseStage(StageIDValidateInput, "Validate Input", nil),
		validator: validator,
	}
}

// Execute validates the input path
func (s *ValidateInputStage) Execute(ctx context.Context, state *RunState) error {
	return s.validator.ValidateInputWorkbook(state.Paths.InputFile)
}

// OpenWorkbookStage opens the input workbook. The pipeline closes it when the run ends.
type OpenWorkbookStage struct {
	BaseStage
}

// NewOpenWorkbookStage creates the workbook opening stage
func NewOpenWorkbookStage() *OpenWorkbookStage {
	return &OpenWorkbookStage{
		BaseStage: NewBaseStage(StageIDOpenWorkbook, "Open Workbook", []string{StageIDValidateInput}),
	}
}

// Execute opens the workbook into the run state
func (s *OpenWorkbookStage) Execute(ctx context.Context, state *RunState) error {
	wb, err := dataprocessing.OpenWorkbook(state.Paths.InputFile)
	if err != nil {
		return apperrors.NewExtractionError("failed to open workbook", err).
			WithContext("path", state.Paths.InputFile)
	}
	state.Workbook = wb
	return nil
}

// ExtractStage reads the three scenario timelines
type ExtractStage struct {
	BaseStage
	extractor *dataprocessing.Extractor
}

// NewExtractStage creates the scenario extraction stage
func NewExtractStage(extractor *dataprocessing.Extractor) *ExtractStage {
	return &ExtractStage{
		BaseStage: NewBaseStage(StageIDExtract, "Extract Scenarios", []string{StageIDOpenWorkbook}),
		extractor: extractor,
	}
}

// Validate requires an open workbook
func (s *ExtractStage) Validate(state *RunState) error {
	if state.Workbook == nil {
		return fmt.Errorf("no workbook open")
	}
	return nil
}

// Execute extracts all scenarios
func (s *ExtractStage) Execute(ctx context.Context, state *RunState) error {
	set, err := s.extractor.ExtractAll(ctx, state.Workbook)
	if err != nil {
		return err
	}
	state.Scenarios = &set
	return nil
}

// BreakEvenStage reads the optional break-even snapshot
type BreakEvenStage struct {
	BaseStage
	extractor *dataprocessing.Extractor
}

// NewBreakEvenStage creates the break-even extraction stage
func NewBreakEvenStage(extractor *dataprocessing.Extractor) *BreakEvenStage {
	return &BreakEvenStage{
		BaseStage: NewBaseStage(StageIDBreakEven, "Extract Break-Even", []string{StageIDOpenWorkbook}),
		extractor: extractor,
	}
}

// Validate requires an open workbook
func (s *BreakEvenStage) Validate(state *RunState) error {
	if state.Workbook == nil {
		return fmt.Errorf("no workbook open")
	}
	return nil
}

// Execute extracts the snapshot; failures leave it unavailable
func (s *BreakEvenStage) Execute(ctx context.Context, state *RunState) error {
	snap, err := s.extractor.ExtractBreakEven(ctx, state.Workbook)
	if err != nil {
		return err
	}
	state.BreakEven = &snap
	return nil
}

// AnalyzeStage computes metrics and the scenario comparison
type AnalyzeStage struct {
	BaseStage
	logger *slog.Logger
}

// NewAnalyzeStage creates the analysis stage
func NewAnalyzeStage(logger *slog.Logger) *AnalyzeStage {
	return &AnalyzeStage{
		BaseStage: NewBaseStage(StageIDAnalyze, "Analyze", []string{StageIDExtract}),
		logger:    logger,
	}
}

// Validate requires extracted scenarios
func (s *AnalyzeStage) Validate(state *RunState) error {
	if state.Scenarios == nil {
		return fmt.Errorf("no scenarios extracted")
	}
	return nil
}

// Execute runs the analysis
func (s *AnalyzeStage) Execute(ctx context.Context, state *RunState) error {
	a := analytics.Analyze(*state.Scenarios, state.BreakEven)
	state.Analysis = &a

	base := a.Base()
	s.logger.InfoContext(ctx, "Analysis complete",
		slog.Int("periods", base.Periods),
		slog.Float64("base_final_balance", base.FinalBalance),
		slog.Float64("risk_range", a.Comparison.Risk.RiskRange),
		slog.Bool("break_even_available", a.HasBreakEven()))
	return nil
}

// outputStage is shared by the stages that render an analysis to a file
type outputStage struct {
	BaseStage
	path  func(state *RunState) string
	write func(ctx context.Context, a analytics.Analysis, path string) error
}

func newOutputStage(id, name string, path func(*RunState) string, write func(context.Context, analytics.Analysis, string) error) outputStage {
	return outputStage{
		BaseStage: NewBaseStage(id, name, []string{StageIDAnalyze}),
		path:      path,
		write:     write,
	}
}

// Validate requires an analysis and a target path
func (s *outputStage) Validate(state *RunState) error {
	if state.Analysis == nil {
		return fmt.Errorf("no analysis available")
	}
	if s.path(state) == "" {
		return fmt.Errorf("no output path configured")
	}
	return nil
}

// Execute writes the output and records it on the run
func (s *outputStage) Execute(ctx context.Context, state *RunState) error {
	path := s.path(state)
	if err := s.write(ctx, *state.Analysis, path); err != nil {
		return err
	}
	state.AddOutput(path)
	return nil
}

// RenderChartStage writes the PNG dashboard
type RenderChartStage struct{ outputStage }

// NewRenderChartStage creates the chart stage
func NewRenderChartStage(dashboard *chart.Dashboard) *RenderChartStage {
	return &RenderChartStage{newOutputStage(StageIDRenderChart, "Render Dashboard",
		func(s *RunState) string { return s.Paths.ChartFile },
		dashboard.Render)}
}

// ExportSummaryStage writes the key metrics CSV
type ExportSummaryStage struct{ outputStage }

// NewExportSummaryStage creates the summary export stage
func NewExportSummaryStage(e *exporter.SummaryExporter) *ExportSummaryStage {
	return &ExportSummaryStage{newOutputStage(StageIDExportSummary, "Export Summary",
		func(s *RunState) string { return s.Paths.SummaryFile },
		e.Export)}
}

// ExportScenariosStage writes the per-period scenario CSV
type ExportScenariosStage struct{ outputStage }

// NewExportScenariosStage creates the scenario export stage
func NewExportScenariosStage(e *exporter.ScenarioExporter) *ExportScenariosStage {
	return &ExportScenariosStage{newOutputStage(StageIDExportScenarios, "Export Scenarios",
		func(s *RunState) string { return s.Paths.ScenarioFile },
		e.Export)}
}

// ExportWorkbookStage writes the xlsx report
type ExportWorkbookStage struct{ outputStage }

// NewExportWorkbookStage creates the workbook export stage
func NewExportWorkbookStage(e *exporter.WorkbookExporter) *ExportWorkbookStage {
	return &ExportWorkbookStage{newOutputStage(StageIDExportWorkbook, "Export Report Workbook",
		func(s *RunState) string { return s.Paths.WorkbookFile },
		e.Export)}
}

// ConsoleReportStage prints the analysis report
type ConsoleReportStage struct {
	BaseStage
	out io.Writer
}

// NewConsoleReportStage creates the console report stage
func NewConsoleReportStage(out io.Writer) *ConsoleReportStage {
	return &ConsoleReportStage{
		BaseStage: NewBaseStage(StageIDConsoleReport, "Console Report", []string{StageIDAnalyze}),
		out:       out,
	}
}

// Validate requires an analysis
func (s *ConsoleReportStage) Validate(state *RunState) error {
	if state.Analysis == nil {
		return fmt.Errorf("no analysis available")
	}
	return nil
}

// Execute writes the report
func (s *ConsoleReportStage) Execute(ctx context.Context, state *RunState) error {
	if err := exporter.WriteAnalysisReport(s.out, *state.Analysis); err != nil {
		return apperrors.NewExportError("failed to write console report", err)
	}
	return nil
}
