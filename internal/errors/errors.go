package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Error codes carried by APIError and surfaced as the problem's error_code.
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidJSON     = "INVALID_JSON"
	CodeValidation      = "VALIDATION_FAILED"
	CodeNotFound        = "NOT_FOUND"
	CodeDatasetNotFound = "DATASET_NOT_FOUND"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// problemTypes maps error codes to RFC 7807 problem types.
var problemTypes = map[string]string{
	CodeInvalidRequest:  TypeValidation,
	CodeInvalidJSON:     TypeValidation,
	CodeValidation:      TypeValidation,
	CodeNotFound:        TypeNotFound,
	CodeDatasetNotFound: TypeDatasetNotFound,
	CodePayloadTooLarge: TypePayloadTooLarge,
}

// APIError is an HTTP-level failure raised by handlers and middleware
// before the dataset service is involved.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ProblemType returns the problem type for the error code.
func (e *APIError) ProblemType() string {
	if t, ok := problemTypes[e.ErrorCode]; ok {
		return t
	}
	return TypeInternal
}

// ValidationError names the offending request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every failed field of a request body.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message, Details: details}
}

var (
	ErrDatasetNotFound = New(http.StatusNotFound, CodeDatasetNotFound, "Dataset not found")
	ErrPayloadTooLarge = New(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Uploaded file exceeds the size limit")
)

// InvalidRequestWithError reports a body that could not be decoded.
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation reports a single bad field or query parameter.
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidation, "Request validation failed",
		ValidationError{Field: field, Message: message})
}

// NewValidationErrors reports several bad fields at once.
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidation, "Request validation failed",
		ValidationErrors{Errors: errs})
}

// NotFoundError reports a missing resource other than a dataset.
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource), resource)
}
