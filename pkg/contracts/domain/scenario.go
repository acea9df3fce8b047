package domain

// Scenario identifies one of the fixed cash flow projections in the workbook.
type Scenario string

const (
	ScenarioBase        Scenario = "base"
	ScenarioOptimistic  Scenario = "optimistic"
	ScenarioPessimistic Scenario = "pessimistic"
)

// ComparisonOrder is the fixed column order used by comparison tables and charts.
var ComparisonOrder = []Scenario{ScenarioOptimistic, ScenarioBase, ScenarioPessimistic}

// String returns the scenario identifier
func (s Scenario) String() string {
	return string(s)
}

// DisplayName returns the human readable scenario name
func (s Scenario) DisplayName() string {
	switch s {
	case ScenarioBase:
		return "Base Case"
	case ScenarioOptimistic:
		return "Optimistic"
	case ScenarioPessimistic:
		return "Pessimistic"
	default:
		return "Unknown"
	}
}

// IsValid reports whether s is one of the known scenarios
func (s Scenario) IsValid() bool {
	switch s {
	case ScenarioBase, ScenarioOptimistic, ScenarioPessimistic:
		return true
	default:
		return false
	}
}

// Field names a logical row of a scenario sheet.
type Field string

const (
	FieldPeriodLabel    Field = "period_label"
	FieldOpeningBalance Field = "opening_balance"
	FieldTotalInflows   Field = "total_inflows"
	FieldTotalOutflows  Field = "total_outflows"
	FieldNetCashFlow    Field = "net_cash_flow"
	FieldClosingBalance Field = "closing_balance"
)

// AmountFields lists the numeric fields of a MonthlyRecord in sheet order.
var AmountFields = []Field{
	FieldOpeningBalance,
	FieldTotalInflows,
	FieldTotalOutflows,
	FieldNetCashFlow,
	FieldClosingBalance,
}

// AllFields lists every field of a MonthlyRecord, label first.
var AllFields = append([]Field{FieldPeriodLabel}, AmountFields...)
