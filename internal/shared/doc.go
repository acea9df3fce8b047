// Package shared holds code used across the cash flow packages that belongs
// to no single layer.
//
// The testutil subpackage provides the helpers the package tests share:
//
//   - BufferedSlogHandler and NewTestLogger capture structured logs so tests
//     can assert on warnings and attributes.
//   - WorkbookFixture and WriteWorkbook build scenario workbooks with excelize
//     in a temporary directory.
//   - StandardScenarioSet and StandardBreakEven return the same data as
//     in-memory domain values for tests that skip workbook IO.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, handler := testutil.NewTestLogger(t)
//	    path := testutil.WriteWorkbook(t, t.TempDir(), "cashflow.xlsx", testutil.StandardWorkbook())
//	    // run the code under test with logger and path
//	    testutil.AssertNoErrors(t, handler)
//	}
package shared
