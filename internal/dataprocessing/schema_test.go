package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflowcli/internal/config"
	apperrors "cashflowcli/internal/errors"
	"cashflowcli/pkg/contracts/domain"
)

func TestNewSeriesSchema_Default(t *testing.T) {
	s, err := NewSeriesSchema(config.DefaultLayout())
	require.NoError(t, err)

	assert.Equal(t, 9, s.Periods())
	assert.Equal(t, 4, s.Row(domain.FieldPeriodLabel))
	assert.Equal(t, 5, s.Row(domain.FieldOpeningBalance))
	assert.Equal(t, 13, s.Row(domain.FieldTotalInflows))
	assert.Equal(t, 25, s.Row(domain.FieldTotalOutflows))
	assert.Equal(t, 27, s.Row(domain.FieldNetCashFlow))
	assert.Equal(t, 29, s.Row(domain.FieldClosingBalance))
	assert.Equal(t, 1, s.PeriodNumber(2))
	assert.Equal(t, 9, s.PeriodNumber(10))
}

func TestNewSeriesSchema_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(l *config.LayoutConfig)
		errContains string
	}{
		{"zero first column", func(l *config.LayoutConfig) { l.FirstColumn = 0 }, "invalid column range"},
		{"inverted columns", func(l *config.LayoutConfig) { l.LastColumn = 1 }, "invalid column range"},
		{"zero row", func(l *config.LayoutConfig) { l.ClosingRow = 0 }, "closing_balance has invalid row"},
		{"shared row", func(l *config.LayoutConfig) { l.NetCashFlowRow = l.InflowRow }, "share row 13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := config.DefaultLayout()
			tt.mutate(&layout)

			_, err := NewSeriesSchema(layout)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
		})
	}
}

func TestNewBreakEvenSchema(t *testing.T) {
	s := NewBreakEvenSchema(config.DefaultLayout())
	assert.Equal(t, BreakEvenSchema{
		Column:            2,
		TransactionsRow:   10,
		RevenueRow:        11,
		CurrentRevenueRow: 14,
		SafetyMarginRow:   18,
	}, s)
}
