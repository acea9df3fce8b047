// Package chart draws the four-panel cash flow dashboard: balance
// projection, final balance comparison, base month-over-month growth and
// cumulative net cash flow with the scenario range shaded.
package chart
