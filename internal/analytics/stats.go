package analytics

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrDivisionByZero is returned when a ratio has a zero denominator
var ErrDivisionByZero = errors.New("division by zero")

// NullFloat is a float64 that may be undefined, e.g. the correlation of a
// constant column.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Defined wraps v as a valid NullFloat
func Defined(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// Undefined returns an invalid NullFloat
func Undefined() NullFloat {
	return NullFloat{}
}

// ColumnSummary is a describe()-style summary of one column
type ColumnSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
	Sum    float64 `json:"sum"`
}

// Mean returns the arithmetic mean, 0 for an empty column
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Sum returns the column total
func Sum(values []float64) float64 {
	return floats.Sum(values)
}

// StdDev returns the sample standard deviation (N-1). Columns with fewer
// than two values have no spread and return 0.
func StdDev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// Describe summarizes a column. Quartiles interpolate linearly between the
// closest ranks.
func Describe(values []float64) ColumnSummary {
	if len(values) == 0 {
		return ColumnSummary{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return ColumnSummary{
		Count:  len(values),
		Mean:   Mean(values),
		Std:    StdDev(values),
		Min:    sorted[0],
		Q25:    Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q75:    Quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
		Sum:    Sum(values),
	}
}

// Quantile returns the q-th quantile of an ascending slice using linear
// interpolation at rank q*(n-1).
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	index := q * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// GrowthRate returns the percentage change from the first to the last value.
// An empty column or a zero first value yields 0.
func GrowthRate(values []float64) float64 {
	if len(values) == 0 || values[0] == 0 {
		return 0
	}
	return (values[len(values)-1]/values[0] - 1) * 100
}

// Correlation returns the Pearson correlation of a and b. It is undefined
// for mismatched lengths, fewer than two points or a constant column.
func Correlation(a, b []float64) NullFloat {
	if len(a) != len(b) || len(a) < 2 {
		return Undefined()
	}
	if StdDev(a) == 0 || StdDev(b) == 0 {
		return Undefined()
	}

	r := stat.Correlation(a, b, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return Undefined()
	}
	return Defined(r)
}

// TrendSlope fits a least-squares line through values against their index
// and returns the slope per period. Undefined for fewer than two points.
func TrendSlope(values []float64) NullFloat {
	if len(values) < 2 {
		return Undefined()
	}

	x := make([]float64, len(values))
	for i := range x {
		x[i] = float64(i)
	}
	_, beta := stat.LinearRegression(x, values, nil, false)
	return Defined(beta)
}

// ExpenseRatio returns mean outflow as a percentage of mean inflow
func ExpenseRatio(inflows, outflows []float64) (float64, error) {
	in := Mean(inflows)
	if in == 0 {
		return 0, ErrDivisionByZero
	}
	return Mean(outflows) / in * 100, nil
}

// CumulativeSum returns the running total of values
func CumulativeSum(values []float64) []float64 {
	out := make([]float64, len(values))
	floats.CumSum(out, values)
	return out
}
