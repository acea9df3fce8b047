package dataprocessing

import (
	"fmt"

	"cashflowcli/internal/config"
	apperrors "cashflowcli/internal/errors"
	"cashflowcli/pkg/contracts/domain"
)

// SeriesSchema maps each logical field of a scenario sheet to its row. All
// fields share one column range, one column per period.
type SeriesSchema struct {
	FirstColumn int
	LastColumn  int
	rows        map[domain.Field]int
}

// NewSeriesSchema builds and validates the schema for a layout
func NewSeriesSchema(layout config.LayoutConfig) (*SeriesSchema, error) {
	s := &SeriesSchema{
		FirstColumn: layout.FirstColumn,
		LastColumn:  layout.LastColumn,
		rows: map[domain.Field]int{
			domain.FieldPeriodLabel:    layout.PeriodRow,
			domain.FieldOpeningBalance: layout.OpeningRow,
			domain.FieldTotalInflows:   layout.InflowRow,
			domain.FieldTotalOutflows:  layout.OutflowRow,
			domain.FieldNetCashFlow:    layout.NetCashFlowRow,
			domain.FieldClosingBalance: layout.ClosingRow,
		},
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that every field is mapped to its own row and the column range is sane
func (s *SeriesSchema) Validate() error {
	if s.FirstColumn < 1 || s.LastColumn < s.FirstColumn {
		return apperrors.NewAppValidationError(
			fmt.Sprintf("invalid column range %d..%d", s.FirstColumn, s.LastColumn))
	}

	seen := make(map[int]domain.Field, len(domain.AllFields))
	for _, field := range domain.AllFields {
		row, ok := s.rows[field]
		if !ok {
			return apperrors.NewAppValidationError(fmt.Sprintf("field %s has no row", field))
		}
		if row < 1 {
			return apperrors.NewAppValidationError(fmt.Sprintf("field %s has invalid row %d", field, row))
		}
		if other, dup := seen[row]; dup {
			return apperrors.NewAppValidationError(
				fmt.Sprintf("fields %s and %s share row %d", other, field, row))
		}
		seen[row] = field
	}
	return nil
}

// Row returns the sheet row of field, or 0 if unmapped
func (s *SeriesSchema) Row(field domain.Field) int {
	return s.rows[field]
}

// Periods returns the number of period columns
func (s *SeriesSchema) Periods() int {
	return s.LastColumn - s.FirstColumn + 1
}

// PeriodNumber returns the 1-indexed period of a sheet column
func (s *SeriesSchema) PeriodNumber(col int) int {
	return col - s.FirstColumn + 1
}

// BreakEvenSchema locates the break-even figures, all in one column
type BreakEvenSchema struct {
	Column            int
	TransactionsRow   int
	RevenueRow        int
	CurrentRevenueRow int
	SafetyMarginRow   int
}

// NewBreakEvenSchema builds the break-even schema for a layout
func NewBreakEvenSchema(layout config.LayoutConfig) BreakEvenSchema {
	return BreakEvenSchema{
		Column:            layout.BreakEvenColumn,
		TransactionsRow:   layout.TransactionsRow,
		RevenueRow:        layout.BreakEvenRow,
		CurrentRevenueRow: layout.CurrentRevenueRow,
		SafetyMarginRow:   layout.SafetyMarginRow,
	}
}
