package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"cashflowcli/internal/config"
	apperrors "cashflowcli/internal/errors"
	"cashflowcli/pkg/contracts/domain"
)

// Extractor reads scenario timelines and the break-even snapshot from a workbook
type Extractor struct {
	schema         *SeriesSchema
	breakEven      BreakEvenSchema
	sheets         map[domain.Scenario]string
	breakEvenSheet string
	logger         *slog.Logger
}

// NewExtractor creates an extractor for the configured layout and sheet names
func NewExtractor(input config.InputConfig, layout config.LayoutConfig, logger *slog.Logger) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	schema, err := NewSeriesSchema(layout)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		schema:    schema,
		breakEven: NewBreakEvenSchema(layout),
		sheets: map[domain.Scenario]string{
			domain.ScenarioBase:        input.BaseSheet,
			domain.ScenarioOptimistic:  input.OptimisticSheet,
			domain.ScenarioPessimistic: input.PessimisticSheet,
		},
		breakEvenSheet: input.BreakEvenSheet,
		logger:         logger.With(slog.String("component", "extractor")),
	}, nil
}

// SheetFor returns the sheet name configured for scenario
func (e *Extractor) SheetFor(scenario domain.Scenario) string {
	return e.sheets[scenario]
}

// Extract reads one scenario sheet into a series. Empty amount cells become 0
// and empty labels become "Month n"; both are flagged as missing on the record.
func (e *Extractor) Extract(ctx context.Context, wb Workbook, scenario domain.Scenario) (domain.ScenarioSeries, error) {
	sheet := e.SheetFor(scenario)
	if sheet == "" {
		return domain.ScenarioSeries{}, apperrors.NewExtractionError(
			fmt.Sprintf("unknown scenario %q", scenario), nil)
	}
	if !wb.HasSheet(sheet) {
		return domain.ScenarioSeries{}, apperrors.NewSheetNotFoundError(sheet).
			WithContext("scenario", scenario.String())
	}

	records := make([]domain.MonthlyRecord, 0, e.schema.Periods())
	for col := e.schema.FirstColumn; col <= e.schema.LastColumn; col++ {
		record, err := e.readRecord(wb, sheet, col)
		if err != nil {
			return domain.ScenarioSeries{}, err
		}
		records = append(records, record)
	}

	series := domain.NewScenarioSeries(scenario, records)

	e.logger.DebugContext(ctx, "Scenario extracted",
		slog.String("scenario", scenario.String()),
		slog.String("sheet", sheet),
		slog.Int("periods", series.Len()),
		slog.Int("missing_cells", series.MissingCount()))

	for _, inc := range series.Inconsistencies() {
		e.logger.DebugContext(ctx, "Sheet figures do not reconcile",
			slog.String("scenario", scenario.String()),
			slog.String("kind", inc.Kind),
			slog.String("period", inc.Label),
			slog.Float64("expected", inc.Expected),
			slog.Float64("actual", inc.Actual))
	}

	return series, nil
}

func (e *Extractor) readRecord(wb Workbook, sheet string, col int) (domain.MonthlyRecord, error) {
	var record domain.MonthlyRecord

	label, err := wb.CellText(sheet, e.schema.Row(domain.FieldPeriodLabel), col)
	if err != nil {
		return record, apperrors.NewExtractionError(
			fmt.Sprintf("read period label in %s", sheet), err)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = fmt.Sprintf("Month %d", e.schema.PeriodNumber(col))
		record.Missing = append(record.Missing, domain.FieldPeriodLabel)
	}
	record.PeriodLabel = label

	for _, field := range domain.AmountFields {
		row := e.schema.Row(field)
		raw, err := wb.CellValue(sheet, row, col)
		if err != nil {
			return record, apperrors.NewExtractionError(
				fmt.Sprintf("read %s in %s", field, sheet), err)
		}

		value, present, err := ParseAmount(raw)
		if err != nil {
			return record, apperrors.NewExtractionError(
				fmt.Sprintf("non-numeric %s in %s", field, sheet), err).
				WithContext("row", row).
				WithContext("column", col)
		}
		if !present {
			record.Missing = append(record.Missing, field)
		}
		record.SetValue(field, value)
	}

	return record, nil
}

// ExtractAll extracts the three scenarios. The first failure aborts the whole
// extraction; no partial set is returned.
func (e *Extractor) ExtractAll(ctx context.Context, wb Workbook) (domain.ScenarioSet, error) {
	var set domain.ScenarioSet

	for _, scenario := range domain.ComparisonOrder {
		series, err := e.Extract(ctx, wb, scenario)
		if err != nil {
			return domain.ScenarioSet{}, err
		}
		switch scenario {
		case domain.ScenarioOptimistic:
			set.Optimistic = series
		case domain.ScenarioBase:
			set.Base = series
		case domain.ScenarioPessimistic:
			set.Pessimistic = series
		}
	}

	return set, nil
}

// ExtractBreakEven reads the break-even snapshot. A missing sheet or a
// malformed cell yields a BREAK_EVEN_UNAVAILABLE error; empty cells read as 0.
func (e *Extractor) ExtractBreakEven(ctx context.Context, wb Workbook) (domain.BreakEvenSnapshot, error) {
	var snap domain.BreakEvenSnapshot

	if !wb.HasSheet(e.breakEvenSheet) {
		return snap, apperrors.NewBreakEvenUnavailableError(
			fmt.Sprintf("sheet %q not found", e.breakEvenSheet), nil)
	}

	cells := []struct {
		name   string
		row    int
		target *float64
	}{
		{"transaction count", e.breakEven.TransactionsRow, &snap.TransactionCount},
		{"break-even revenue", e.breakEven.RevenueRow, &snap.Revenue},
		{"current revenue", e.breakEven.CurrentRevenueRow, &snap.CurrentRevenue},
		{"safety margin", e.breakEven.SafetyMarginRow, &snap.SafetyMargin},
	}

	for _, c := range cells {
		raw, err := wb.CellValue(e.breakEvenSheet, c.row, e.breakEven.Column)
		if err != nil {
			return domain.BreakEvenSnapshot{}, apperrors.NewBreakEvenUnavailableError(
				fmt.Sprintf("read %s", c.name), err)
		}
		value, _, err := ParseAmount(raw)
		if err != nil {
			return domain.BreakEvenSnapshot{}, apperrors.NewBreakEvenUnavailableError(
				fmt.Sprintf("malformed %s", c.name), err).WithContext("row", c.row)
		}
		*c.target = value
	}

	e.logger.DebugContext(ctx, "Break-even extracted",
		slog.Float64("revenue", snap.Revenue),
		slog.Float64("safety_margin", snap.SafetyMargin),
		slog.String("status", string(snap.Status())))

	return snap, nil
}

// ParseAmount converts a cell value to a number. Empty cells return
// (0, false, nil). Thousands separators, a leading currency symbol, a
// trailing percent sign and accounting parentheses are accepted.
func ParseAmount(raw string) (float64, bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false, nil
	}
	if s == "-" {
		return 0, true, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.TrimPrefix(s, config.CurrencySymbol)
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("cannot parse %q as a number", raw)
	}
	if percent {
		value /= 100
	}
	if negative {
		value = -value
	}
	return value, true, nil
}
