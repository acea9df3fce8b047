// Package operations runs an analysis as a sequence of stages.
//
// A Stage is one unit of work (validate input, open the workbook, extract
// scenarios, analyze, render, export). The Registry holds the stages and
// orders them by their declared dependencies. The Pipeline executes them in
// that order against a shared RunState, tracing and timing every stage.
//
// Error policy: a stage error whose type is fatal (missing input, missing
// sheet, extraction failure, configuration) aborts the run and skips the
// remaining stages. Any other error marks the stage failed, is logged at
// warn level, and skips only the stages that depend on it.
package operations
