package dataprocessing

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// Workbook is read-only cell access to a spreadsheet. Rows and columns are
// 1-indexed. Reading a cell outside the used range returns "".
type Workbook interface {
	Path() string
	SheetNames() []string
	HasSheet(name string) bool
	// CellText returns the cell as displayed, number format applied.
	CellText(sheet string, row, col int) (string, error)
	// CellValue returns the stored value without number formatting.
	CellValue(sheet string, row, col int) (string, error)
	Close() error
}

// OpenWorkbook opens path with the reader matching its extension:
// .xlsx and .xlsm through excelize, legacy .xls through xlsReader.
func OpenWorkbook(path string) (Workbook, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return openExcelWorkbook(path)
	case ".xls":
		return openLegacyWorkbook(path)
	default:
		return nil, fmt.Errorf("unsupported workbook format %q", filepath.Ext(path))
	}
}

// excelWorkbook reads Office Open XML workbooks
type excelWorkbook struct {
	path string
	file *excelize.File
}

func openExcelWorkbook(path string) (*excelWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return &excelWorkbook{path: path, file: f}, nil
}

func (w *excelWorkbook) Path() string { return w.path }

func (w *excelWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

func (w *excelWorkbook) HasSheet(name string) bool {
	idx, err := w.file.GetSheetIndex(name)
	return err == nil && idx >= 0
}

func (w *excelWorkbook) CellText(sheet string, row, col int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	return w.file.GetCellValue(sheet, cell)
}

func (w *excelWorkbook) CellValue(sheet string, row, col int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	return w.file.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
}

func (w *excelWorkbook) Close() error {
	return w.file.Close()
}

// legacyWorkbook reads BIFF8 .xls files. Sheets are loaded eagerly into a
// grid because xlsReader only exposes whole rows.
type legacyWorkbook struct {
	path   string
	names  []string
	sheets map[string][][]string
}

func openLegacyWorkbook(path string) (*legacyWorkbook, error) {
	book, err := xls.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	wb := &legacyWorkbook{path: path, sheets: make(map[string][][]string)}
	for i := 0; i < book.GetNumberSheets(); i++ {
		sheet, err := book.GetSheet(i)
		if err != nil || sheet == nil {
			return nil, fmt.Errorf("failed to read sheet %d: %w", i, err)
		}

		var grid [][]string
		for _, row := range sheet.GetRows() {
			var values []string
			if row != nil {
				for _, col := range row.GetCols() {
					values = append(values, col.GetString())
				}
			}
			grid = append(grid, values)
		}

		name := sheet.GetName()
		wb.names = append(wb.names, name)
		wb.sheets[name] = grid
	}
	return wb, nil
}

func (w *legacyWorkbook) Path() string { return w.path }

func (w *legacyWorkbook) SheetNames() []string {
	return append([]string(nil), w.names...)
}

func (w *legacyWorkbook) HasSheet(name string) bool {
	_, ok := w.sheets[name]
	return ok
}

func (w *legacyWorkbook) CellText(sheet string, row, col int) (string, error) {
	grid, ok := w.sheets[sheet]
	if !ok {
		return "", fmt.Errorf("sheet %s does not exist", sheet)
	}
	if row < 1 || col < 1 {
		return "", fmt.Errorf("invalid cell coordinates [%d, %d]", col, row)
	}
	if row > len(grid) || col > len(grid[row-1]) {
		return "", nil
	}
	return grid[row-1][col-1], nil
}

// CellValue is CellText: xlsReader renders numbers without formatting.
func (w *legacyWorkbook) CellValue(sheet string, row, col int) (string, error) {
	return w.CellText(sheet, row, col)
}

func (w *legacyWorkbook) Close() error {
	w.sheets = nil
	return nil
}
