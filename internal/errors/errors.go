package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrUnknownRatePlan  = new(ErrCodeUnknownRatePlan, "no such rate plan")
	ErrMissingCurrency  = new(ErrCodeMissingCurrency, "no pricing for currency")
	ErrFetch            = new(ErrCodeFetch, "catalog fetch failed")
	ErrHTTPClient       = new(ErrCodeHTTPClient, "http client error")
	ErrSystem           = new(ErrCodeSystemError, "system error")
	// maps errors to http status codes, first match wins so a fetch failure
	// caused by an http error or a broken catalog still reports as a fetch failure
	statusCodes = []struct {
		err    error
		status int
	}{
		{ErrFetch, http.StatusBadGateway},
		{ErrValidation, http.StatusBadRequest},
		{ErrUnknownRatePlan, http.StatusNotFound},
		{ErrMissingCurrency, http.StatusUnprocessableEntity},
		{ErrNotFound, http.StatusNotFound},
		{ErrInvalidOperation, http.StatusBadRequest},
		{ErrHTTPClient, http.StatusInternalServerError},
		{ErrSystem, http.StatusInternalServerError},
	}
)

const (
	ErrCodeHTTPClient       = "http_client_error"
	ErrCodeSystemError      = "system_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodeUnknownRatePlan  = "unknown_rate_plan"
	ErrCodeMissingCurrency  = "missing_currency"
	ErrCodeFetch            = "fetch_failure"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// New creates a new InternalError
func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsUnknownRatePlan checks if the rate plan id was absent from the catalog
func IsUnknownRatePlan(err error) bool {
	return errors.Is(err, ErrUnknownRatePlan)
}

// IsMissingCurrency checks if the rate plan exists but is not priced in the currency
func IsMissingCurrency(err error) bool {
	return errors.Is(err, ErrMissingCurrency)
}

// IsFetch checks if an error came from a raw catalog or token collaborator
func IsFetch(err error) bool {
	return errors.Is(err, ErrFetch)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

// IsSystem checks if an error is an internal failure
func IsSystem(err error) bool {
	return errors.Is(err, ErrSystem)
}

func HTTPStatusFromErr(err error) int {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) {
			return sc.status
		}
	}
	return http.StatusInternalServerError
}
