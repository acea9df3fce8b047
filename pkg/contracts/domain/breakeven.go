package domain

// Safety margin thresholds used to classify the break-even position.
const (
	SafeMarginThreshold    = 0.15
	MonitorMarginThreshold = 0.08
)

// BreakEvenStatus classifies how comfortably current revenue clears break-even.
type BreakEvenStatus string

const (
	BreakEvenSafe      BreakEvenStatus = "safe"
	BreakEvenMonitor   BreakEvenStatus = "monitor"
	BreakEvenAttention BreakEvenStatus = "attention"
)

// Description returns a short explanation of the status
func (s BreakEvenStatus) Description() string {
	switch s {
	case BreakEvenSafe:
		return "high safety margin"
	case BreakEvenMonitor:
		return "adequate margin, needs monitoring"
	case BreakEvenAttention:
		return "thin margin, needs attention"
	default:
		return "unknown"
	}
}

// BreakEvenSnapshot holds the single-period break-even facts from the
// break-even sheet. It is independent of the scenario series.
type BreakEvenSnapshot struct {
	Revenue          float64 `json:"be_revenue"`
	TransactionCount float64 `json:"be_transaction_count"`
	CurrentRevenue   float64 `json:"current_revenue"`
	SafetyMargin     float64 `json:"safety_margin"` // fraction, 0.12 == 12%
}

// Status classifies the safety margin
func (b BreakEvenSnapshot) Status() BreakEvenStatus {
	switch {
	case b.SafetyMargin > SafeMarginThreshold:
		return BreakEvenSafe
	case b.SafetyMargin > MonitorMarginThreshold:
		return BreakEvenMonitor
	default:
		return BreakEvenAttention
	}
}
