// Package config provides configuration management for the cash flow report.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Command-line flags (applied by cmd/cashflow-report)
//	2. Environment variables, optionally from a .env file
//	3. A YAML file (cashflow.yaml, configs/cashflow.yaml or -config)
//	4. Default values
//
// # Environment Variables
//
// All environment variables follow the pattern CASHFLOW_<SECTION>_<FIELD>:
//
//	CASHFLOW_INPUT_FILE=cafe_cashflow_bekasi.xlsx
//	CASHFLOW_OUTPUT_DIR=out
//	CASHFLOW_LAYOUT_CLOSING_ROW=29
//	CASHFLOW_LOGGING_LEVEL=debug
//
// # Layout
//
// LayoutConfig is the cell schema of the scenario sheets. A workbook whose rows
// moved is handled by editing one value here rather than code.
package config
