package domain

import (
	"fmt"
	"math"
)

// consistencyTolerance absorbs rounding noise in spreadsheet formulas.
const consistencyTolerance = 0.5

// MonthlyRecord represents one reporting period within one scenario.
// The flow fields are read independently from the sheet; the identity
// net = inflows - outflows is not guaranteed to hold.
type MonthlyRecord struct {
	PeriodLabel    string  `json:"period_label" validate:"required"`
	OpeningBalance float64 `json:"opening_balance"`
	TotalInflows   float64 `json:"total_inflows"`
	TotalOutflows  float64 `json:"total_outflows"`
	NetCashFlow    float64 `json:"net_cash_flow"`
	ClosingBalance float64 `json:"closing_balance"`

	// Missing lists the fields whose source cell was empty and got substituted
	// (zero for amounts, a synthetic label for the period).
	Missing []Field `json:"missing,omitempty"`
}

// Value returns the amount stored for field. Unknown fields and the label return 0.
func (r MonthlyRecord) Value(field Field) float64 {
	switch field {
	case FieldOpeningBalance:
		return r.OpeningBalance
	case FieldTotalInflows:
		return r.TotalInflows
	case FieldTotalOutflows:
		return r.TotalOutflows
	case FieldNetCashFlow:
		return r.NetCashFlow
	case FieldClosingBalance:
		return r.ClosingBalance
	default:
		return 0
	}
}

// SetValue stores v for an amount field. The label and unknown fields are ignored.
func (r *MonthlyRecord) SetValue(field Field, v float64) {
	switch field {
	case FieldOpeningBalance:
		r.OpeningBalance = v
	case FieldTotalInflows:
		r.TotalInflows = v
	case FieldTotalOutflows:
		r.TotalOutflows = v
	case FieldNetCashFlow:
		r.NetCashFlow = v
	case FieldClosingBalance:
		r.ClosingBalance = v
	}
}

// IsPresent reports whether field was read from a non-empty cell
func (r MonthlyRecord) IsPresent(field Field) bool {
	for _, f := range r.Missing {
		if f == field {
			return false
		}
	}
	return true
}

// ScenarioSeries is the ordered monthly timeline of one scenario.
// It is built once by the extractor and never mutated afterwards.
type ScenarioSeries struct {
	Scenario Scenario
	records  []MonthlyRecord
}

// NewScenarioSeries creates a series from records in calendar order
func NewScenarioSeries(scenario Scenario, records []MonthlyRecord) ScenarioSeries {
	owned := make([]MonthlyRecord, len(records))
	for i, r := range records {
		r.Missing = append([]Field(nil), r.Missing...)
		owned[i] = r
	}
	return ScenarioSeries{Scenario: scenario, records: owned}
}

// Len returns the number of periods
func (s ScenarioSeries) Len() int {
	return len(s.records)
}

// Records returns a copy of the monthly records
func (s ScenarioSeries) Records() []MonthlyRecord {
	out := make([]MonthlyRecord, len(s.records))
	for i, r := range s.records {
		r.Missing = append([]Field(nil), r.Missing...)
		out[i] = r
	}
	return out
}

// Record returns the record at period index i
func (s ScenarioSeries) Record(i int) MonthlyRecord {
	return s.records[i]
}

// Labels returns the period labels in order
func (s ScenarioSeries) Labels() []string {
	labels := make([]string, len(s.records))
	for i, r := range s.records {
		labels[i] = r.PeriodLabel
	}
	return labels
}

// Values returns the column of amounts for field in period order
func (s ScenarioSeries) Values(field Field) []float64 {
	values := make([]float64, len(s.records))
	for i, r := range s.records {
		values[i] = r.Value(field)
	}
	return values
}

// First returns the first period's value for field, or 0 for an empty series
func (s ScenarioSeries) First(field Field) float64 {
	if len(s.records) == 0 {
		return 0
	}
	return s.records[0].Value(field)
}

// Final returns the last period's value for field, or 0 for an empty series
func (s ScenarioSeries) Final(field Field) float64 {
	if len(s.records) == 0 {
		return 0
	}
	return s.records[len(s.records)-1].Value(field)
}

// MissingCount returns how many cells were substituted during extraction
func (s ScenarioSeries) MissingCount() int {
	n := 0
	for _, r := range s.records {
		n += len(r.Missing)
	}
	return n
}

// Inconsistency describes a period where the workbook's own arithmetic does not add up.
type Inconsistency struct {
	Period   int
	Label    string
	Kind     string
	Expected float64
	Actual   float64
}

func (i Inconsistency) String() string {
	return fmt.Sprintf("%s: %s expected %.2f, got %.2f", i.Label, i.Kind, i.Expected, i.Actual)
}

// Inconsistencies reports periods where net != inflows - outflows or where the
// closing balance does not carry into the next opening balance. Nothing is corrected.
func (s ScenarioSeries) Inconsistencies() []Inconsistency {
	var out []Inconsistency
	for i, r := range s.records {
		expectedNet := r.TotalInflows - r.TotalOutflows
		if math.Abs(expectedNet-r.NetCashFlow) > consistencyTolerance {
			out = append(out, Inconsistency{
				Period: i, Label: r.PeriodLabel, Kind: "net_cash_flow",
				Expected: expectedNet, Actual: r.NetCashFlow,
			})
		}
		if i+1 < len(s.records) {
			next := s.records[i+1]
			if math.Abs(r.ClosingBalance-next.OpeningBalance) > consistencyTolerance {
				out = append(out, Inconsistency{
					Period: i + 1, Label: next.PeriodLabel, Kind: "opening_balance",
					Expected: r.ClosingBalance, Actual: next.OpeningBalance,
				})
			}
		}
	}
	return out
}

// ScenarioSet holds the three extracted scenarios of one workbook.
type ScenarioSet struct {
	Optimistic  ScenarioSeries
	Base        ScenarioSeries
	Pessimistic ScenarioSeries
}

// Get returns the series for scenario; unknown scenarios yield an empty series
func (s ScenarioSet) Get(scenario Scenario) ScenarioSeries {
	switch scenario {
	case ScenarioOptimistic:
		return s.Optimistic
	case ScenarioBase:
		return s.Base
	case ScenarioPessimistic:
		return s.Pessimistic
	default:
		return ScenarioSeries{Scenario: scenario}
	}
}

// Ordered returns the series in ComparisonOrder
func (s ScenarioSet) Ordered() []ScenarioSeries {
	out := make([]ScenarioSeries, 0, len(ComparisonOrder))
	for _, sc := range ComparisonOrder {
		out = append(out, s.Get(sc))
	}
	return out
}
