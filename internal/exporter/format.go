package exporter

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"cashflowcli/internal/analytics"
	"cashflowcli/internal/config"
)

// NotAvailable is printed for undefined quantities
const NotAvailable = "N/A"

var (
	million = decimal.NewFromInt(1_000_000)
	printer = message.NewPrinter(language.English)
)

// FormatMillions renders an amount in millions with one decimal and
// thousands grouping, e.g. 1234500000 -> "Rp 1,234.5M".
func FormatMillions(v float64) string {
	scaled := decimal.NewFromFloat(v).Div(million).Round(1)
	return printer.Sprintf("%s %.1fM", config.CurrencySymbol, scaled.InexactFloat64())
}

// FormatPercent renders a value already expressed in percent, e.g. 12.34 -> "12.3%"
func FormatPercent(v float64) string {
	return fmt.Sprintf("%s%%", decimal.NewFromFloat(v).StringFixed(1))
}

// FormatRatio renders a fraction as a percentage, e.g. 0.123 -> "12.3%"
func FormatRatio(v float64) string {
	return FormatPercent(v * 100)
}

// FormatNullPercent is FormatPercent or N/A
func FormatNullPercent(v analytics.NullFloat) string {
	if !v.Valid {
		return NotAvailable
	}
	return FormatPercent(v.Float64)
}

// formatFloat formats a raw amount for machine-readable tables, without
// trailing zeros
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
