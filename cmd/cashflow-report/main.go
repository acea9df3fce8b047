package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"cashflowcli/internal/chart"
	"cashflowcli/internal/config"
	"cashflowcli/internal/dataprocessing"
	apperrors "cashflowcli/internal/errors"
	"cashflowcli/internal/exporter"
	"cashflowcli/internal/infrastructure"
	"cashflowcli/internal/operations"
	"cashflowcli/internal/validation"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	input      string
	outputDir  string
	logLevel   string
	workbook   string
	quiet      bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to YAML config file (defaults to cashflow.yaml or configs/cashflow.yaml)")
	fs.StringVar(&opts.input, "input", "", "input workbook (defaults to "+config.DefaultInputFile+")")
	fs.StringVar(&opts.outputDir, "out", "", "output directory for the dashboard and tables")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&opts.workbook, "workbook", "", "also write an xlsx report with this file name")
	fs.BoolVar(&opts.quiet, "quiet", false, "suppress the console analysis report")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// loadConfig loads the configuration and applies command line overrides
func loadConfig(opts *options) (*config.Config, error) {
	if opts.configPath != "" && !config.FileExists(opts.configPath) {
		return nil, apperrors.NewConfigError(fmt.Sprintf("config file %s not found", opts.configPath), nil)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load configuration", err)
	}

	if opts.input != "" {
		cfg.Input.File = opts.input
	}
	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.workbook != "" {
		cfg.Output.WorkbookFile = opts.workbook
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid command line options", err)
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", apperrors.NewConfigError("failed to resolve paths", err))
		return 1
	}

	// Logs go to stderr so they never interleave with the report on stdout.
	logger, err := infrastructure.InitializeLoggerTo(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureRunID(context.Background())
	runID := infrastructure.GetRunID(ctx)
	paths.LogPathResolution(logger)

	// An unusable output location only costs the outputs: the render and
	// export stages fail on their own and the run still succeeds.
	validator := validation.NewFileValidator(logger)
	if err := paths.EnsureDirectories(); err != nil {
		logger.WarnContext(ctx, "Output directories unavailable", slog.String("error", err.Error()))
	} else if err := validator.ValidateOutputDirectory(paths.OutputDir); err != nil {
		logger.WarnContext(ctx, "Output directory not writable", slog.String("error", err.Error()))
	}

	providers := initTelemetry(ctx, cfg, paths, logger)
	if providers != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := providers.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
			}
		}()
	}

	pipeline, err := buildPipeline(cfg, opts, stdout, validator, providers, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build pipeline", slog.String("error", err.Error()))
		return 1
	}

	state := operations.NewRunState(runID, paths)
	if err := pipeline.Run(ctx, state); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if apperrors.IsType(err, apperrors.ErrTypeInputNotFound) {
			fmt.Fprintf(stderr, "Pass the workbook with -input (default %s)\n", config.DefaultInputFile)
		}
		return 1
	}

	if !opts.quiet {
		printOutputs(stdout, state)
	}
	return 0
}

// initTelemetry returns nil when the providers cannot be created; the
// pipeline then runs untraced.
func initTelemetry(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger) *infrastructure.OTelProviders {
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = config.AppName
	}
	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfig{
		ServiceName:    serviceName,
		ServiceVersion: config.AppVersion,
		TraceFile:      paths.TraceFile,
		MetricsFile:    paths.MetricsFile,
	}, logger)
	if err != nil {
		logger.WarnContext(ctx, "Telemetry disabled", slog.String("error", err.Error()))
		return nil
	}
	return providers
}

func buildPipeline(cfg *config.Config, opts *options, stdout io.Writer, validator *validation.FileValidator, providers *infrastructure.OTelProviders, logger *slog.Logger) (*operations.Pipeline, error) {
	extractor, err := dataprocessing.NewExtractor(cfg.Input, cfg.Layout, logger)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid sheet layout", err)
	}

	writer := exporter.NewCSVWriter(cfg.Output.ExcelBOM, logger)
	deps := operations.StageDependencies{
		Validator: validator,
		Extractor: extractor,
		Dashboard: chart.NewDashboard(cfg.Output, logger),
		Summary:   exporter.NewSummaryExporter(writer, logger),
		Scenarios: exporter.NewScenarioExporter(writer, logger),
		Logger:    logger,
	}
	if cfg.Output.WorkbookFile != "" {
		deps.Workbook = exporter.NewWorkbookExporter(logger)
	}
	if !opts.quiet {
		deps.Report = stdout
	}

	registry, err := operations.NewDefaultRegistry(deps)
	if err != nil {
		return nil, err
	}
	return operations.NewPipeline(registry, providers, logger)
}

func printOutputs(w io.Writer, state *operations.RunState) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generated Files:")
	for i, path := range state.Outputs() {
		fmt.Fprintf(w, "  %d. %s\n", i+1, path)
	}
	for _, step := range state.FailedSteps() {
		fmt.Fprintf(w, "  ! %s failed: %s\n", step.Name, step.Message)
	}
}
