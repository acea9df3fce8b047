package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "cashflowcli/internal/errors"
)

func TestFileValidator_ValidateInputWorkbook(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "valid xlsx",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "cashflow.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
		},
		{
			name: "valid legacy xls with upper case extension",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "CASHFLOW.XLS")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.xlsx")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "book.xlsx")
				require.NoError(t, os.Mkdir(dir, 0755))
				return dir
			},
			wantErr:       true,
			errorContains: "is a directory",
		},
		{
			name: "unsupported extension",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "cashflow.csv")
				require.NoError(t, os.WriteFile(file, []byte("a,b"), 0644))
				return file
			},
			wantErr:       true,
			errorContains: "unsupported extension",
		},
		{
			name: "excel lock file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "~$cashflow.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("lock"), 0644))
				return file
			},
			wantErr:       true,
			errorContains: "temporary Excel file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			path := tt.setupFunc(t)

			err := validator.ValidateInputWorkbook(path)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInputNotFound))
				assert.True(t, apperrors.IsFatal(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	validator := NewFileValidator(nil)

	dir := filepath.Join(t.TempDir(), "nested", "reports")
	require.NoError(t, validator.ValidateOutputDirectory(dir))
	assert.DirExists(t, dir)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe is removed")

	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.Error(t, validator.ValidateOutputDirectory(filepath.Join(file, "sub")))
}

func TestIsSupportedWorkbook(t *testing.T) {
	assert.True(t, IsSupportedWorkbook("a.xlsx"))
	assert.True(t, IsSupportedWorkbook("a.XLSM"))
	assert.True(t, IsSupportedWorkbook("dir/a.xls"))
	assert.False(t, IsSupportedWorkbook("a.ods"))
	assert.False(t, IsSupportedWorkbook("xlsx"))
}
