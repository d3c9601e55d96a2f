package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeLoad       ErrorType = "LOAD"
	ErrTypeSchema     ErrorType = "SCHEMA"
	ErrTypeType       ErrorType = "TYPE"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeInternal   ErrorType = "INTERNAL"
)

// Sentinel causes for load failures.
var (
	ErrUnsupportedFormat = stderrors.New("unsupported file format")
	ErrUnreadableFile    = stderrors.New("file cannot be read")
	ErrMalformedContent  = stderrors.New("malformed content")
)

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

// NewLoadError creates an error for a dataset that could not be loaded.
// The cause is usually one of ErrUnsupportedFormat, ErrUnreadableFile or
// ErrMalformedContent, possibly wrapped.
func NewLoadError(message string, cause error) *AppError {
	return NewAppError(ErrTypeLoad, message, cause)
}

// NewSchemaError reports expected columns absent from a dataset.
func NewSchemaError(missing ...string) *AppError {
	return NewAppError(ErrTypeSchema, fmt.Sprintf("missing required columns: %v", missing), nil).
		WithContext("missing_columns", missing)
}

// NewTypeError reports columns that are not numeric where numbers are required.
func NewTypeError(columns ...string) *AppError {
	return NewAppError(ErrTypeType, fmt.Sprintf("columns are not numeric: %v", columns), nil).
		WithContext("columns", columns)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsType reports whether err is, or wraps, an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// IsLoadError reports whether err is a dataset load failure.
func IsLoadError(err error) bool { return IsType(err, ErrTypeLoad) }

// IsSchemaError reports whether err reports missing columns.
func IsSchemaError(err error) bool { return IsType(err, ErrTypeSchema) }

// IsTypeError reports whether err reports non-numeric columns.
func IsTypeError(err error) bool { return IsType(err, ErrTypeType) }
