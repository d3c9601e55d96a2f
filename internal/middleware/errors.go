package middleware

import (
	"net/http"

	apperrors "solareda/internal/errors"
)

// ProblemFromStatus builds the RFC 7807 problem middleware writes when it
// rejects a request before any handler runs.
func ProblemFromStatus(status int, detail, traceID string) *apperrors.ProblemDetails {
	problemType := "/errors/unknown"
	switch status {
	case http.StatusBadRequest:
		problemType = apperrors.TypeValidation
	case http.StatusNotFound:
		problemType = apperrors.TypeNotFound
	case http.StatusRequestEntityTooLarge:
		problemType = apperrors.TypePayloadTooLarge
	case http.StatusUnsupportedMediaType:
		problemType = apperrors.TypeUnsupportedMedia
	case http.StatusTooManyRequests:
		problemType = apperrors.TypeRateLimit
	case http.StatusServiceUnavailable:
		problemType = apperrors.TypeServiceDown
	case http.StatusGatewayTimeout:
		problemType = apperrors.TypeTimeout
	case http.StatusInternalServerError:
		problemType = apperrors.TypeInternal
	}

	problem := apperrors.NewProblemDetails(status, problemType, http.StatusText(status), detail, "")
	if traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}
	return problem
}
