package types

import (
	"errors"
	"net/http"

	apperrors "github.com/sprintforge/backend/pkg/errors"
)

// APIError is the wire representation of a failure.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError in the response envelope.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// FromError converts any error into an HTTP status and wire error.
// Unknown errors are masked as internal to avoid leaking details.
func FromError(err error) (int, ErrorResponse) {
	var ae *apperrors.AppError
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError, ErrorResponse{Error: APIError{
			Code:    string(apperrors.CodeInternal),
			Message: "internal server error",
		}}
	}

	status := http.StatusInternalServerError
	switch ae.Code {
	case apperrors.CodeInvalid:
		status = http.StatusBadRequest
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeConflict:
		status = http.StatusConflict
	case apperrors.CodeUnavailable:
		status = http.StatusServiceUnavailable
	}

	return status, ErrorResponse{Error: APIError{
		Code:    string(ae.Code),
		Message: ae.Message,
		Details: ae.Meta,
	}}
}
