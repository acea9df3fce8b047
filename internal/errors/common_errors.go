package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeInputNotFound        ErrorType = "INPUT_NOT_FOUND"
	ErrTypeSheetNotFound        ErrorType = "SHEET_NOT_FOUND"
	ErrTypeExtraction           ErrorType = "EXTRACTION"
	ErrTypeBreakEvenUnavailable ErrorType = "BREAK_EVEN_UNAVAILABLE"
	ErrTypeRender               ErrorType = "RENDER"
	ErrTypeExport               ErrorType = "EXPORT"
	ErrTypeConfig               ErrorType = "CONFIG"
	ErrTypeValidation           ErrorType = "VALIDATION"
)

// Fatal reports whether an error of this type must abort the run
func (t ErrorType) Fatal() bool {
	switch t {
	case ErrTypeInputNotFound, ErrTypeSheetNotFound, ErrTypeExtraction, ErrTypeConfig, ErrTypeValidation:
		return true
	default:
		return false
	}
}

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError of the same type, so sentinel-style
// comparisons like errors.Is(err, &AppError{Type: ErrTypeSheetNotFound}) work.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewInputNotFoundError creates an error for a missing input spreadsheet
func NewInputNotFoundError(path string, cause error) *AppError {
	return NewAppError(ErrTypeInputNotFound, fmt.Sprintf("input file %s not found", path), cause).
		WithContext("path", path)
}

// NewSheetNotFoundError creates an error for a missing worksheet
func NewSheetNotFoundError(sheet string) *AppError {
	return NewAppError(ErrTypeSheetNotFound, fmt.Sprintf("sheet %q not found", sheet), nil).
		WithContext("sheet", sheet)
}

// NewExtractionError creates an error for a malformed scenario sheet
func NewExtractionError(message string, cause error) *AppError {
	return NewAppError(ErrTypeExtraction, message, cause)
}

// NewBreakEvenUnavailableError creates an error for a missing or malformed break-even sheet
func NewBreakEvenUnavailableError(message string, cause error) *AppError {
	return NewAppError(ErrTypeBreakEvenUnavailable, message, cause)
}

// NewRenderError creates a chart rendering error
func NewRenderError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRender, message, cause)
}

// NewExportError creates a table/workbook export error
func NewExportError(message string, cause error) *AppError {
	return NewAppError(ErrTypeExport, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "" if none
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err carries an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}

// IsFatal reports whether err must abort the run. Errors that are not
// AppErrors are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	t := TypeOf(err)
	if t == "" {
		return true
	}
	return t.Fatal()
}
