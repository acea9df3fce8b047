// Package dataprocessing reads the cash flow workbook into domain series.
// It covers the path from spreadsheet file to validated scenario timelines
// and the break-even snapshot.
//
// # Architecture
//
// The package is organized into three parts:
//
// 1. Workbook: read-only cell access over .xlsx (excelize) and .xls (xlsReader)
// 2. Schema: the explicit row and column layout of the scenario and break-even sheets
// 3. Extractor: turns sheets into domain.ScenarioSeries and domain.BreakEvenSnapshot
//
// # Usage
//
//	wb, err := dataprocessing.OpenWorkbook("cafe_cashflow_bekasi.xlsx")
//	if err != nil {
//	    return err
//	}
//	defer wb.Close()
//
//	extractor, err := dataprocessing.NewExtractor(cfg.Input, cfg.Layout, logger)
//	if err != nil {
//	    return err
//	}
//	set, err := extractor.ExtractAll(ctx, wb)
//
// # Missing Data
//
// Empty amount cells read as 0 and empty period labels become "Month n",
// n counted from 1 at the first period column. Every substitution is
// recorded on the MonthlyRecord so reports can tell real zeros from gaps.
//
// # Error Handling
//
// A missing scenario sheet is SHEET_NOT_FOUND and text that is not a number
// is EXTRACTION; both are fatal. Any problem with the break-even sheet is
// BREAK_EVEN_UNAVAILABLE, which callers treat as a warning.
package dataprocessing
