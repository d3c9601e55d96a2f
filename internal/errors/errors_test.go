package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		want     string
	}{
		{
			name: "simple message",
			apiError: &APIError{
				StatusCode: http.StatusBadRequest,
				ErrorCode:  "INVALID_REQUEST",
				Message:    "Invalid request format",
			},
			want: "Invalid request format",
		},
		{
			name: "empty message",
			apiError: &APIError{
				StatusCode: http.StatusInternalServerError,
				ErrorCode:  "INTERNAL_ERROR",
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.apiError.Error())
		})
	}
}

func TestNewWithDetails(t *testing.T) {
	err := NewWithDetails(http.StatusNotFound, "DATASET_NOT_FOUND", "Dataset not found", "abc123")

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "DATASET_NOT_FOUND", err.ErrorCode)
	assert.Equal(t, "Dataset not found", err.Message)
	assert.Equal(t, "abc123", err.Details)
}

func TestAPIError_ProblemType(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		wantType string
	}{
		{"dataset not found", ErrDatasetNotFound, TypeDatasetNotFound},
		{"payload too large", ErrPayloadTooLarge, TypePayloadTooLarge},
		{"invalid json", New(http.StatusBadRequest, CodeInvalidJSON, "bad body"), TypeValidation},
		{"validation", ErrValidation("bins", "must be positive"), TypeValidation},
		{"generic not found", NotFoundError("metrics exporter"), TypeNotFound},
		{"unknown code", New(http.StatusTeapot, "TEAPOT", "short and stout"), TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.ProblemType())
		})
	}
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("columns", "at least one column is required")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	details, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "columns", details.Field)
	assert.Equal(t, "at least one column is required", details.Message)
}

func TestInvalidRequestWithError(t *testing.T) {
	err := InvalidRequestWithError(fmt.Errorf("unexpected EOF"))
	assert.Equal(t, "INVALID_REQUEST", err.ErrorCode)
	assert.Equal(t, "unexpected EOF", err.Details)
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "columns", Message: "required"},
		{Field: "bins", Message: "must be positive"},
	})

	details, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, details.Errors, 2)
}

func TestAPIErrorRender(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/datasets/x", nil)

	require.NoError(t, render.Render(w, r, ErrDatasetNotFound))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, CodeDatasetNotFound, body["error_code"])
}

func TestProblemDetails_JSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusUnprocessableEntity, TypeSchema, "Missing Columns", "missing GHI", "/api/datasets/1/summary").
		WithExtension("missing_columns", []string{"GHI"})

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, TypeSchema, flat["type"])
	assert.Equal(t, float64(http.StatusUnprocessableEntity), flat["status"])
	assert.Equal(t, []interface{}{"GHI"}, flat["missing_columns"])

	var decoded ProblemDetails
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Missing Columns", decoded.Title)
	assert.Equal(t, "/api/datasets/1/summary", decoded.Instance)
	assert.Equal(t, []interface{}{"GHI"}, decoded.Extensions["missing_columns"])
	assert.NotContains(t, decoded.Extensions, "type")
}
