// Package errors defines the typed application errors of the cash flow
// analysis pipeline.
//
// Every failure carries an ErrorType. Input, sheet, extraction and
// configuration errors are fatal and abort the run; break-even, render and
// export errors are reported and the run continues with degraded output.
//
//	if apperrors.IsFatal(err) {
//	    os.Exit(1)
//	}
package errors
