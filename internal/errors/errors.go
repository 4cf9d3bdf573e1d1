package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeLoad       ErrorType = "load"
	ErrorTypeSchema     ErrorType = "schema"
	ErrorTypeDecode     ErrorType = "decode"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeInternal   ErrorType = "internal"
)

// Process exit codes. Configuration problems are distinguished from
// failures that happen while the batch is running.
const (
	ExitCodeFailure    = 1
	ExitCodeValidation = 2
)

// AppError represents a structured application error
type AppError struct {
	Type     ErrorType `json:"type"`
	Message  string    `json:"message"`
	Details  string    `json:"details,omitempty"`
	ExitCode int       `json:"exit_code"`
	Cause    error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := e.Message
	if e.Details != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Details)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails returns a copy of the error carrying extra context
func (e *AppError) WithDetails(format string, args ...interface{}) *AppError {
	cp := *e
	cp.Details = fmt.Sprintf(format, args...)
	return &cp
}

func newError(t ErrorType, code int, message string, cause error) *AppError {
	return &AppError{
		Type:     t,
		Message:  message,
		ExitCode: code,
		Cause:    cause,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return newError(ErrorTypeValidation, ExitCodeValidation, message, cause)
}

// NewLoadError creates an error for unreadable input tables
func NewLoadError(message string, cause error) *AppError {
	return newError(ErrorTypeLoad, ExitCodeFailure, message, cause)
}

// NewSchemaError creates an error for missing or mistyped columns
func NewSchemaError(message string, cause error) *AppError {
	return newError(ErrorTypeSchema, ExitCodeFailure, message, cause)
}

// NewDecodeError creates an error for images that cannot be read or decoded
func NewDecodeError(message string, cause error) *AppError {
	return newError(ErrorTypeDecode, ExitCodeFailure, message, cause)
}

// NewRenderError creates an error for grid and plot rendering failures
func NewRenderError(message string, cause error) *AppError {
	return newError(ErrorTypeRender, ExitCodeFailure, message, cause)
}

// NewIOError creates an error for output writes
func NewIOError(message string, cause error) *AppError {
	return newError(ErrorTypeIO, ExitCodeFailure, message, cause)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return newError(ErrorTypeInternal, ExitCodeFailure, message, cause)
}

// IsType checks if the error, or any error it wraps, is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetExitCode extracts the process exit code from an error
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.ExitCode != 0 {
		return appErr.ExitCode
	}
	return ExitCodeFailure
}
