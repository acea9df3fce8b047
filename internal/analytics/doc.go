// Package analytics computes descriptive statistics, derived metrics and
// the cross-scenario comparison from extracted cash flow series.
//
// Everything here is a pure function of its inputs. Quantities that cannot
// be computed, such as the correlation of a constant column or the spread
// against a zero base balance, are returned as an invalid NullFloat and
// rendered as "N/A" downstream.
package analytics
