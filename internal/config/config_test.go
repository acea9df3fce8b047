package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "cafe_cashflow_bekasi.xlsx", cfg.Input.File)
	assert.Equal(t, "Skenario Base", cfg.Input.BaseSheet)
	assert.Equal(t, "Skenario Optimistis", cfg.Input.OptimisticSheet)
	assert.Equal(t, "Skenario Pesimistis", cfg.Input.PessimisticSheet)
	assert.Equal(t, "Analisis Break-Even", cfg.Input.BreakEvenSheet)
	assert.Equal(t, 9, cfg.Layout.Periods())
	assert.Equal(t, 200, cfg.Output.ChartDPI)
}

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()

	assert.Equal(t, 2, l.FirstColumn)
	assert.Equal(t, 10, l.LastColumn)
	assert.Equal(t, 4, l.PeriodRow)
	assert.Equal(t, 5, l.OpeningRow)
	assert.Equal(t, 13, l.InflowRow)
	assert.Equal(t, 25, l.OutflowRow)
	assert.Equal(t, 27, l.NetCashFlowRow)
	assert.Equal(t, 29, l.ClosingRow)
	assert.Equal(t, 10, l.TransactionsRow)
	assert.Equal(t, 11, l.BreakEvenRow)
	assert.Equal(t, 14, l.CurrentRevenueRow)
	assert.Equal(t, 18, l.SafetyMarginRow)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		errContains string
	}{
		{
			name:        "inverted column range",
			mutate:      func(c *Config) { c.Layout.FirstColumn, c.Layout.LastColumn = 10, 2 },
			errContains: "LastColumn",
		},
		{
			name:        "zero row",
			mutate:      func(c *Config) { c.Layout.InflowRow = 0 },
			errContains: "InflowRow",
		},
		{
			name:        "duplicate rows",
			mutate:      func(c *Config) { c.Layout.OutflowRow = c.Layout.InflowRow },
			errContains: "both point at row 13",
		},
		{
			name:        "duplicate break-even rows",
			mutate:      func(c *Config) { c.Layout.SafetyMarginRow = c.Layout.BreakEvenRow },
			errContains: "break-even layout uses row 11 twice",
		},
		{
			name:        "missing sheet name",
			mutate:      func(c *Config) { c.Input.BaseSheet = "" },
			errContains: "BaseSheet",
		},
		{
			name:        "bad log level",
			mutate:      func(c *Config) { c.Logging.Level = "verbose" },
			errContains: "Level",
		},
		{
			name:        "file logging without path",
			mutate:      func(c *Config) { c.Logging.Output = "both"; c.Logging.FilePath = "" },
			errContains: "logging.file_path",
		},
		{
			name:        "dpi out of range",
			mutate:      func(c *Config) { c.Output.ChartDPI = 10 },
			errContains: "ChartDPI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cashflow.yaml")
	content := `
input:
  file: data/cashflow.xlsx
output:
  dir: reports
  chart_dpi: 120
layout:
  closing_row: 30
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("CASHFLOW_OUTPUT_DIR", "from-env")
	t.Setenv("CASHFLOW_LAYOUT_INFLOW_ROW", "12")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/cashflow.xlsx", cfg.Input.File)
	assert.Equal(t, "from-env", cfg.Output.Dir, "env overrides file")
	assert.Equal(t, 120, cfg.Output.ChartDPI)
	assert.Equal(t, 30, cfg.Layout.ClosingRow)
	assert.Equal(t, 12, cfg.Layout.InflowRow)
	assert.Equal(t, 5, cfg.Layout.OpeningRow, "untouched values keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "Skenario Base", cfg.Input.BaseSheet)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layout: [not a map"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestLoad_InvalidEnvLayout(t *testing.T) {
	t.Setenv("CASHFLOW_LAYOUT_LAST_COLUMN", "1")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LastColumn")
}

func TestResolvePaths(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Output.Dir = dir
	cfg.Output.WorkbookFile = "report.xlsx"
	cfg.Telemetry.MetricsFile = filepath.Join(dir, "metrics", "run.prom")

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, DefaultChartFile), paths.ChartFile)
	assert.Equal(t, filepath.Join(dir, DefaultSummaryFile), paths.SummaryFile)
	assert.Equal(t, filepath.Join(dir, DefaultScenarioFile), paths.ScenarioFile)
	assert.Equal(t, filepath.Join(dir, "report.xlsx"), paths.WorkbookFile)
	assert.Equal(t, filepath.Join(dir, "metrics", "run.prom"), paths.MetricsFile)
	assert.Empty(t, paths.TraceFile)
	assert.Empty(t, paths.LogFile)
	assert.True(t, filepath.IsAbs(paths.InputFile))

	require.NoError(t, paths.EnsureDirectories())
	assert.DirExists(t, filepath.Join(dir, "metrics"))
	assert.True(t, FileExists(filepath.Join(dir, "metrics")))
}
