package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "cashflowcli/internal/errors"
)

// SupportedWorkbookExtensions lists the spreadsheet formats the extractor can open
var SupportedWorkbookExtensions = []string{".xlsx", ".xlsm", ".xls"}

// FileValidator checks input and output locations before the pipeline touches them
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateInputWorkbook checks that the workbook exists, is a readable regular
// file and has a supported extension. Every failure is an INPUT_NOT_FOUND
// error so the pipeline aborts before opening anything.
func (v *FileValidator) ValidateInputWorkbook(path string) error {
	size, err := checkInputWorkbook(path)
	if err != nil {
		v.logger.Error("Input workbook rejected",
			slog.String("file", path),
			slog.String("reason", err.Error()))
		return apperrors.NewInputNotFoundError(path, err)
	}

	v.logger.Debug("Input workbook validated",
		slog.String("file", path),
		slog.Int64("size", size))
	return nil
}

func checkInputWorkbook(path string) (int64, error) {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return 0, fmt.Errorf("file %s does not exist", path)
	case err != nil:
		return 0, fmt.Errorf("failed to stat file %s: %w", path, err)
	case info.IsDir():
		return 0, fmt.Errorf("%s is a directory, not a file", path)
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return 0, fmt.Errorf("%s is a temporary Excel file", base)
	}
	if !IsSupportedWorkbook(path) {
		return 0, fmt.Errorf("unsupported extension %q (want one of %s)",
			strings.ToLower(filepath.Ext(path)), strings.Join(SupportedWorkbookExtensions, ", "))
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()
	return info.Size(), nil
}

// IsSupportedWorkbook reports whether path has a supported spreadsheet extension
func IsSupportedWorkbook(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedWorkbookExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// ValidateOutputDirectory creates dir if needed and probes that the run can
// write its outputs there.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".cashflow-write-*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}
