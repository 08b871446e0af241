package errors

import (
	"github.com/cockroachdb/errors"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Display       string         `json:"message"`
	Code          string         `json:"code,omitempty"`
	InternalError string         `json:"internal_error,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

// NewErrorResponse builds the response body for err.
// The display message prefers the attached hints over the raw error text.
func NewErrorResponse(err error) ErrorResponse {
	detail := ErrorDetail{
		Display:       err.Error(),
		InternalError: err.Error(),
	}
	if hints := errors.FlattenHints(err); hints != "" {
		detail.Display = hints
	}

	var internal *InternalError
	for _, sentinel := range []*InternalError{
		ErrFetch, ErrValidation, ErrUnknownRatePlan, ErrMissingCurrency,
		ErrNotFound, ErrInvalidOperation, ErrHTTPClient, ErrSystem,
	} {
		if errors.Is(err, sentinel) {
			internal = sentinel
			break
		}
	}
	if internal != nil {
		detail.Code = internal.Code
	}

	return ErrorResponse{Success: false, Error: detail}
}
