package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"cashflowcli/internal/config"
	"cashflowcli/pkg/contracts/domain"
)

// ScenarioFixture describes one scenario sheet. A nil slice leaves its row
// empty; a "" label leaves that label cell empty.
type ScenarioFixture struct {
	Labels   []string
	Opening  []float64
	Inflows  []float64
	Outflows []float64
	Net      []float64
	Closing  []float64
	// Cells overrides individual cells by name, e.g. {"C13": "n/a"}.
	Cells map[string]interface{}
}

// BreakEvenFixture describes the break-even sheet
type BreakEvenFixture struct {
	Transactions   float64
	Revenue        float64
	CurrentRevenue float64
	SafetyMargin   float64
	Cells          map[string]interface{}
}

// WorkbookFixture is a whole input workbook keyed by sheet name
type WorkbookFixture struct {
	Layout    config.LayoutConfig
	Scenarios map[string]ScenarioFixture
	// BreakEven is written to config.SheetBreakEven when set.
	BreakEven *BreakEvenFixture
}

// ConsistentScenario builds a scenario whose figures reconcile: net is
// inflow minus outflow and each closing balance opens the next period.
func ConsistentScenario(opening float64, inflows, outflows []float64) ScenarioFixture {
	n := len(inflows)
	fx := ScenarioFixture{
		Labels:   make([]string, n),
		Opening:  make([]float64, n),
		Inflows:  append([]float64(nil), inflows...),
		Outflows: append([]float64(nil), outflows...),
		Net:      make([]float64, n),
		Closing:  make([]float64, n),
	}
	balance := opening
	for i := 0; i < n; i++ {
		fx.Labels[i] = monthNames[i%len(monthNames)]
		fx.Opening[i] = balance
		fx.Net[i] = inflows[i] - outflows[i]
		balance += fx.Net[i]
		fx.Closing[i] = balance
	}
	return fx
}

var monthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// StandardWorkbook returns the three scenarios over nine months plus a
// healthy break-even sheet, laid out like the default configuration.
func StandardWorkbook() WorkbookFixture {
	base := make([]float64, 9)
	baseOut := make([]float64, 9)
	opt := make([]float64, 9)
	optOut := make([]float64, 9)
	pes := make([]float64, 9)
	pesOut := make([]float64, 9)
	for i := range base {
		base[i] = 100e6 + float64(i)*5e6
		baseOut[i] = 80e6 + float64(i)*2e6
		opt[i] = 120e6 + float64(i)*7e6
		optOut[i] = 85e6 + float64(i)*2e6
		pes[i] = 80e6 + float64(i)*2e6
		pesOut[i] = 78e6 + float64(i)*2e6
	}

	return WorkbookFixture{
		Layout: config.DefaultLayout(),
		Scenarios: map[string]ScenarioFixture{
			config.SheetBase:        ConsistentScenario(50e6, base, baseOut),
			config.SheetOptimistic:  ConsistentScenario(50e6, opt, optOut),
			config.SheetPessimistic: ConsistentScenario(50e6, pes, pesOut),
		},
		BreakEven: &BreakEvenFixture{
			Transactions:   2150,
			Revenue:        86e6,
			CurrentRevenue: 100e6,
			SafetyMargin:   0.14,
		},
	}
}

// Series converts the fixture into the series the extractor would produce
// from a fully populated sheet
func (fx ScenarioFixture) Series(scenario domain.Scenario) domain.ScenarioSeries {
	records := make([]domain.MonthlyRecord, len(fx.Labels))
	for i := range records {
		records[i] = domain.MonthlyRecord{
			PeriodLabel:    fx.Labels[i],
			OpeningBalance: fx.Opening[i],
			TotalInflows:   fx.Inflows[i],
			TotalOutflows:  fx.Outflows[i],
			NetCashFlow:    fx.Net[i],
			ClosingBalance: fx.Closing[i],
		}
	}
	return domain.NewScenarioSeries(scenario, records)
}

// StandardScenarioSet is StandardWorkbook already extracted
func StandardScenarioSet() domain.ScenarioSet {
	fx := StandardWorkbook()
	return domain.ScenarioSet{
		Optimistic:  fx.Scenarios[config.SheetOptimistic].Series(domain.ScenarioOptimistic),
		Base:        fx.Scenarios[config.SheetBase].Series(domain.ScenarioBase),
		Pessimistic: fx.Scenarios[config.SheetPessimistic].Series(domain.ScenarioPessimistic),
	}
}

// StandardBreakEven is the break-even sheet of StandardWorkbook
func StandardBreakEven() *domain.BreakEvenSnapshot {
	be := StandardWorkbook().BreakEven
	return &domain.BreakEvenSnapshot{
		Revenue:          be.Revenue,
		TransactionCount: be.Transactions,
		CurrentRevenue:   be.CurrentRevenue,
		SafetyMargin:     be.SafetyMargin,
	}
}

// WriteWorkbook saves the fixture as dir/name and returns the path
func WriteWorkbook(t testing.TB, dir, name string, fx WorkbookFixture) string {
	t.Helper()

	layout := fx.Layout
	if layout.FirstColumn == 0 {
		layout = config.DefaultLayout()
	}

	f := excelize.NewFile()
	defer f.Close()
	defaultSheet := f.GetSheetName(0)

	for sheet, sc := range fx.Scenarios {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("failed to create sheet %s: %v", sheet, err)
		}
		for i, label := range sc.Labels {
			if label != "" {
				setCell(t, f, sheet, layout.FirstColumn+i, layout.PeriodRow, label)
			}
		}
		writeRow(t, f, sheet, layout.FirstColumn, layout.OpeningRow, sc.Opening)
		writeRow(t, f, sheet, layout.FirstColumn, layout.InflowRow, sc.Inflows)
		writeRow(t, f, sheet, layout.FirstColumn, layout.OutflowRow, sc.Outflows)
		writeRow(t, f, sheet, layout.FirstColumn, layout.NetCashFlowRow, sc.Net)
		writeRow(t, f, sheet, layout.FirstColumn, layout.ClosingRow, sc.Closing)
		writeCells(t, f, sheet, sc.Cells)
	}

	if be := fx.BreakEven; be != nil {
		sheet := config.SheetBreakEven
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("failed to create sheet %s: %v", sheet, err)
		}
		col := layout.BreakEvenColumn
		setCell(t, f, sheet, col, layout.TransactionsRow, be.Transactions)
		setCell(t, f, sheet, col, layout.BreakEvenRow, be.Revenue)
		setCell(t, f, sheet, col, layout.CurrentRevenueRow, be.CurrentRevenue)
		setCell(t, f, sheet, col, layout.SafetyMarginRow, be.SafetyMargin)
		writeCells(t, f, sheet, be.Cells)
	}

	if len(fx.Scenarios) > 0 || fx.BreakEven != nil {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			t.Fatalf("failed to delete default sheet: %v", err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook fixture: %v", err)
	}
	return path
}

func writeRow(t testing.TB, f *excelize.File, sheet string, firstCol, row int, values []float64) {
	t.Helper()
	for i, v := range values {
		setCell(t, f, sheet, firstCol+i, row, v)
	}
}

func writeCells(t testing.TB, f *excelize.File, sheet string, cells map[string]interface{}) {
	t.Helper()
	for cell, v := range cells {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("failed to set %s!%s: %v", sheet, cell, err)
		}
	}
}

func setCell(t testing.TB, f *excelize.File, sheet string, col, row int, v interface{}) {
	t.Helper()
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		t.Fatalf("invalid cell [%d, %d]: %v", col, row, err)
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		t.Fatalf("failed to set %s!%s: %v", sheet, cell, err)
	}
}
