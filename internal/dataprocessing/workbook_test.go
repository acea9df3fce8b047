package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflowcli/internal/config"
	"cashflowcli/internal/shared/testutil"
)

func TestOpenWorkbook_Excel(t *testing.T) {
	path := testutil.WriteWorkbook(t, t.TempDir(), "book.xlsx", testutil.StandardWorkbook())

	wb, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, path, wb.Path())
	assert.True(t, wb.HasSheet(config.SheetBase))
	assert.False(t, wb.HasSheet("Sheet1"))
	assert.Len(t, wb.SheetNames(), 4)

	text, err := wb.CellText(config.SheetBase, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, "Jan", text)

	raw, err := wb.CellValue(config.SheetBase, 13, 2)
	require.NoError(t, err)
	assert.Equal(t, "100000000", raw)

	empty, err := wb.CellValue(config.SheetBase, 200, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = wb.CellText(config.SheetBase, 0, 2)
	assert.Error(t, err)
}

func TestOpenWorkbook_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenWorkbook(filepath.Join(dir, "data.ods"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported workbook format")

	broken := filepath.Join(dir, "broken.xlsx")
	require.NoError(t, os.WriteFile(broken, []byte("not a zip"), 0644))
	_, err = OpenWorkbook(broken)
	assert.Error(t, err)

	_, err = OpenWorkbook(filepath.Join(dir, "missing.xls"))
	assert.Error(t, err)
}

func TestLegacyWorkbook_CellAccess(t *testing.T) {
	wb := &legacyWorkbook{
		path:  "legacy.xls",
		names: []string{"Skenario Base"},
		sheets: map[string][][]string{
			"Skenario Base": {
				{"", "Jan", "Feb"},
				{"Opening", "1000", "1200"},
			},
		},
	}

	assert.True(t, wb.HasSheet("Skenario Base"))
	assert.Equal(t, []string{"Skenario Base"}, wb.SheetNames())

	v, err := wb.CellValue("Skenario Base", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, "1200", v)

	v, err = wb.CellText("Skenario Base", 5, 9)
	require.NoError(t, err)
	assert.Empty(t, v, "outside the used range reads empty")

	_, err = wb.CellText("Other", 1, 1)
	assert.Error(t, err)
	_, err = wb.CellText("Skenario Base", 0, 1)
	assert.Error(t, err)
	assert.NoError(t, wb.Close())
}
