package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Fatal(t *testing.T) {
	tests := []struct {
		errType ErrorType
		fatal   bool
	}{
		{ErrTypeInputNotFound, true},
		{ErrTypeSheetNotFound, true},
		{ErrTypeExtraction, true},
		{ErrTypeConfig, true},
		{ErrTypeValidation, true},
		{ErrTypeBreakEvenUnavailable, false},
		{ErrTypeRender, false},
		{ErrTypeExport, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			assert.Equal(t, tt.fatal, tt.errType.Fatal())
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    NewSheetNotFoundError("Skenario Base"),
			wantMessage: `[SHEET_NOT_FOUND] sheet "Skenario Base" not found`,
		},
		{
			name:        "error with cause",
			appError:    NewExportError("write summary table", fmt.Errorf("disk full")),
			wantMessage: "[EXPORT] write summary table: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewRenderError("save chart", cause)

	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("stage render: %w", err)
	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeRender, appErr.Type)
}

func TestAppError_IsMatchesType(t *testing.T) {
	err := fmt.Errorf("extract: %w", NewSheetNotFoundError("Skenario Optimistis"))

	assert.True(t, errors.Is(err, &AppError{Type: ErrTypeSheetNotFound}))
	assert.False(t, errors.Is(err, &AppError{Type: ErrTypeExtraction}))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewInputNotFoundError("missing.xlsx", nil)
	assert.Equal(t, "missing.xlsx", err.Context["path"])

	var nilCtx AppError
	nilCtx.WithContext("row", 13)
	assert.Equal(t, 13, nilCtx.Context["row"])
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), true},
		{"input not found", NewInputNotFoundError("x.xlsx", nil), true},
		{"wrapped extraction", fmt.Errorf("ctx: %w", NewExtractionError("bad cell", nil)), true},
		{"break-even", NewBreakEvenUnavailableError("no sheet", nil), false},
		{"render", NewRenderError("png", nil), false},
		{"export", NewExportError("csv", nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fatal, IsFatal(tt.err))
		})
	}
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
	assert.Equal(t, ErrTypeConfig, TypeOf(NewConfigError("bad", nil)))
	assert.True(t, IsType(fmt.Errorf("w: %w", NewAppValidationError("x")), ErrTypeValidation))
}
