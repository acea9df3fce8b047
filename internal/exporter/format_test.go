package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cashflowcli/internal/analytics"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"zero value", 0, "0"},
		{"whole amount", 100000000, "100000000"},
		{"negative amount", -2500000, "-2500000"},
		{"fraction without trailing zeros", 1250000.50, "1250000.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input))
		})
	}
}

func TestFormatMillions(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"zero", 0, "Rp 0.0M"},
		{"small amount", 86_000_000, "Rp 86.0M"},
		{"rounds to one decimal", 102_560_000, "Rp 102.6M"},
		{"thousands grouping", 1_234_500_000, "Rp 1,234.5M"},
		{"negative", -5_250_000, "Rp -5.3M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMillions(tt.input))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "12.3%", FormatPercent(12.34))
	assert.Equal(t, "0.0%", FormatPercent(0))
	assert.Equal(t, "-100.0%", FormatPercent(-100))
	assert.Equal(t, "14.0%", FormatRatio(0.14))
}

func TestFormatUndefined(t *testing.T) {
	assert.Equal(t, NotAvailable, FormatNullPercent(analytics.Undefined()))
	assert.Equal(t, "133.3%", FormatNullPercent(analytics.Defined(133.333)))
}
