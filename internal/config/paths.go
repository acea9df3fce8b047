package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved locations of every file the run reads or writes
type Paths struct {
	InputFile    string
	OutputDir    string
	ChartFile    string
	SummaryFile  string
	ScenarioFile string
	WorkbookFile string // empty when the report workbook is disabled
	TraceFile    string
	MetricsFile  string
	LogFile      string
}

// ResolvePaths turns the configured names into absolute paths. Output file
// names are joined onto the output directory unless they are already absolute.
func (c *Config) ResolvePaths() (*Paths, error) {
	outDir, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	input, err := filepath.Abs(c.Input.File)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input file: %w", err)
	}

	paths := &Paths{
		InputFile:    input,
		OutputDir:    outDir,
		ChartFile:    resolveIn(outDir, c.Output.ChartFile),
		SummaryFile:  resolveIn(outDir, c.Output.SummaryFile),
		ScenarioFile: resolveIn(outDir, c.Output.ScenarioFile),
		WorkbookFile: resolveIn(outDir, c.Output.WorkbookFile),
		TraceFile:    resolveIn(outDir, c.Telemetry.TraceFile),
		MetricsFile:  resolveIn(outDir, c.Telemetry.MetricsFile),
	}
	if c.Logging.Output != "console" {
		paths.LogFile = c.Logging.FilePath
	}
	return paths, nil
}

func resolveIn(dir, name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// EnsureDirectories creates the output directory and the parents of every configured output file
func (p *Paths) EnsureDirectories() error {
	directories := []string{p.OutputDir}
	for _, f := range []string{p.ChartFile, p.SummaryFile, p.ScenarioFile, p.WorkbookFile, p.TraceFile, p.MetricsFile} {
		if f != "" {
			directories = append(directories, filepath.Dir(f))
		}
	}

	logger := slog.Default()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// LogPathResolution logs the resolved paths at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Resolved paths",
		slog.String("input", p.InputFile),
		slog.String("output_dir", p.OutputDir),
		slog.String("chart", p.ChartFile),
		slog.String("summary", p.SummaryFile),
		slog.String("scenarios", p.ScenarioFile),
		slog.String("workbook", p.WorkbookFile))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
