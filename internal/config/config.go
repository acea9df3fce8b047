package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Layout    LayoutConfig    `yaml:"layout" envconfig:"LAYOUT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig names the workbook and the sheets read from it
type InputConfig struct {
	File             string `yaml:"file" envconfig:"FILE" validate:"required"`
	BaseSheet        string `yaml:"base_sheet" envconfig:"BASE_SHEET" validate:"required"`
	OptimisticSheet  string `yaml:"optimistic_sheet" envconfig:"OPTIMISTIC_SHEET" validate:"required"`
	PessimisticSheet string `yaml:"pessimistic_sheet" envconfig:"PESSIMISTIC_SHEET" validate:"required"`
	BreakEvenSheet   string `yaml:"break_even_sheet" envconfig:"BREAK_EVEN_SHEET" validate:"required"`
}

// OutputConfig contains output artifact settings
type OutputConfig struct {
	Dir          string  `yaml:"dir" envconfig:"DIR" validate:"required"`
	ChartFile    string  `yaml:"chart_file" envconfig:"CHART_FILE" validate:"required"`
	SummaryFile  string  `yaml:"summary_file" envconfig:"SUMMARY_FILE" validate:"required"`
	ScenarioFile string  `yaml:"scenario_file" envconfig:"SCENARIO_FILE" validate:"required"`
	WorkbookFile string  `yaml:"workbook_file" envconfig:"WORKBOOK_FILE"`
	ChartWidth   float64 `yaml:"chart_width" envconfig:"CHART_WIDTH" validate:"gt=0"`   // inches
	ChartHeight  float64 `yaml:"chart_height" envconfig:"CHART_HEIGHT" validate:"gt=0"` // inches
	ChartDPI     int     `yaml:"chart_dpi" envconfig:"CHART_DPI" validate:"gte=50,lte=600"`
	ExcelBOM     bool    `yaml:"excel_bom" envconfig:"EXCEL_BOM"`
}

// LayoutConfig is the fixed cell layout of the scenario and break-even
// sheets. Rows and columns are 1-indexed.
type LayoutConfig struct {
	FirstColumn       int `yaml:"first_column" envconfig:"FIRST_COLUMN" validate:"gte=1"`
	LastColumn        int `yaml:"last_column" envconfig:"LAST_COLUMN" validate:"gtefield=FirstColumn"`
	PeriodRow         int `yaml:"period_row" envconfig:"PERIOD_ROW" validate:"gte=1"`
	OpeningRow        int `yaml:"opening_row" envconfig:"OPENING_ROW" validate:"gte=1"`
	InflowRow         int `yaml:"inflow_row" envconfig:"INFLOW_ROW" validate:"gte=1"`
	OutflowRow        int `yaml:"outflow_row" envconfig:"OUTFLOW_ROW" validate:"gte=1"`
	NetCashFlowRow    int `yaml:"net_cash_flow_row" envconfig:"NET_CASH_FLOW_ROW" validate:"gte=1"`
	ClosingRow        int `yaml:"closing_row" envconfig:"CLOSING_ROW" validate:"gte=1"`
	BreakEvenColumn   int `yaml:"break_even_column" envconfig:"BREAK_EVEN_COLUMN" validate:"gte=1"`
	TransactionsRow   int `yaml:"transactions_row" envconfig:"TRANSACTIONS_ROW" validate:"gte=1"`
	BreakEvenRow      int `yaml:"break_even_row" envconfig:"BREAK_EVEN_ROW" validate:"gte=1"`
	CurrentRevenueRow int `yaml:"current_revenue_row" envconfig:"CURRENT_REVENUE_ROW" validate:"gte=1"`
	SafetyMarginRow   int `yaml:"safety_margin_row" envconfig:"SAFETY_MARGIN_ROW" validate:"gte=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig controls the optional trace and metrics files. Empty paths disable them.
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file and CASHFLOW_* environment variables, in that order of
// increasing precedence. An empty path searches the default locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	// No default tags on the struct: unset variables leave file values alone.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML configuration onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and the layout's cross-field rules
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging.file_path is required for output %q", c.Logging.Output)
	}

	return c.Layout.validateRows()
}

// validateRows rejects layouts where two fields share a row
func (l LayoutConfig) validateRows() error {
	rows := map[string]int{
		"period_row":        l.PeriodRow,
		"opening_row":       l.OpeningRow,
		"inflow_row":        l.InflowRow,
		"outflow_row":       l.OutflowRow,
		"net_cash_flow_row": l.NetCashFlowRow,
		"closing_row":       l.ClosingRow,
	}
	seen := make(map[int]string, len(rows))
	for _, name := range []string{"period_row", "opening_row", "inflow_row", "outflow_row", "net_cash_flow_row", "closing_row"} {
		row := rows[name]
		if other, dup := seen[row]; dup {
			return fmt.Errorf("layout rows %s and %s both point at row %d", other, name, row)
		}
		seen[row] = name
	}

	beRows := map[int]bool{}
	for _, row := range []int{l.TransactionsRow, l.BreakEvenRow, l.CurrentRevenueRow, l.SafetyMarginRow} {
		if beRows[row] {
			return fmt.Errorf("break-even layout uses row %d twice", row)
		}
		beRows[row] = true
	}
	return nil
}

// Periods returns the number of periods covered by the column range
func (l LayoutConfig) Periods() int {
	return l.LastColumn - l.FirstColumn + 1
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"cashflow.yaml",
		"configs/cashflow.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			File:             DefaultInputFile,
			BaseSheet:        SheetBase,
			OptimisticSheet:  SheetOptimistic,
			PessimisticSheet: SheetPessimistic,
			BreakEvenSheet:   SheetBreakEven,
		},
		Output: OutputConfig{
			Dir:          ".",
			ChartFile:    DefaultChartFile,
			SummaryFile:  DefaultSummaryFile,
			ScenarioFile: DefaultScenarioFile,
			ChartWidth:   14,
			ChartHeight:  10,
			ChartDPI:     200,
		},
		Layout: DefaultLayout(),
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/cashflow.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName: AppName,
		},
	}
}

// DefaultLayout returns the cell layout of the standard cash flow workbook
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		FirstColumn:       2,
		LastColumn:        10,
		PeriodRow:         4,
		OpeningRow:        5,
		InflowRow:         13,
		OutflowRow:        25,
		NetCashFlowRow:    27,
		ClosingRow:        29,
		BreakEvenColumn:   2,
		TransactionsRow:   10,
		BreakEvenRow:      11,
		CurrentRevenueRow: 14,
		SafetyMarginRow:   18,
	}
}
