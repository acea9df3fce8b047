package config

// Application constants
const (
	// Application Info
	AppName    = "cashflow-report"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces all environment variables (CASHFLOW_OUTPUT_DIR, ...)
	EnvPrefix = "CASHFLOW"

	// Workbook defaults
	DefaultInputFile = "cafe_cashflow_bekasi.xlsx"
	SheetBase        = "Skenario Base"
	SheetOptimistic  = "Skenario Optimistis"
	SheetPessimistic = "Skenario Pesimistis"
	SheetBreakEven   = "Analisis Break-Even"

	// Output files (relative to the output directory)
	DefaultChartFile    = "cashflow_analysis_dashboard.png"
	DefaultSummaryFile  = "analysis_summary.csv"
	DefaultScenarioFile = "scenario_comparison.csv"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Currency
	CurrencySymbol = "Rp"
)
