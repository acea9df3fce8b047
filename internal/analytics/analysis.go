package analytics

import (
	"cashflowcli/pkg/contracts/domain"
)

// Analysis is the complete, immutable result of one run's computations.
// Renderers read from it and never recompute.
type Analysis struct {
	Scenarios  domain.ScenarioSet
	Metrics    map[domain.Scenario]DerivedMetrics
	Comparison Comparison
	// BreakEven is nil when the break-even sheet was unavailable.
	BreakEven *domain.BreakEvenSnapshot
}

// Analyze computes metrics for every scenario and the cross-scenario comparison
func Analyze(set domain.ScenarioSet, breakEven *domain.BreakEvenSnapshot) Analysis {
	metrics := make(map[domain.Scenario]DerivedMetrics, len(domain.ComparisonOrder))
	for _, series := range set.Ordered() {
		metrics[series.Scenario] = ComputeMetrics(series)
	}

	var be *domain.BreakEvenSnapshot
	if breakEven != nil {
		copied := *breakEven
		be = &copied
	}

	return Analysis{
		Scenarios:  set,
		Metrics:    metrics,
		Comparison: Compare(set.Optimistic, set.Base, set.Pessimistic),
		BreakEven:  be,
	}
}

// Base returns the base scenario metrics
func (a Analysis) Base() DerivedMetrics {
	return a.Metrics[domain.ScenarioBase]
}

// MetricsFor returns the metrics of scenario
func (a Analysis) MetricsFor(scenario domain.Scenario) DerivedMetrics {
	return a.Metrics[scenario]
}

// HasBreakEven reports whether break-even figures are available
func (a Analysis) HasBreakEven() bool {
	return a.BreakEven != nil
}
