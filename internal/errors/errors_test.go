package errors

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestMarkedErrorsAreDistinguishable(t *testing.T) {
	unknown := NewError("rate plan not found").Mark(ErrUnknownRatePlan)
	missing := NewErrorf("no %s pricing", "USD").Mark(ErrMissingCurrency)

	assert.True(t, IsUnknownRatePlan(unknown))
	assert.False(t, IsMissingCurrency(unknown))
	assert.True(t, IsMissingCurrency(missing))
	assert.False(t, IsUnknownRatePlan(missing))

	assert.Equal(t, http.StatusNotFound, HTTPStatusFromErr(unknown))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatusFromErr(missing))
}

func TestWithErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := WithError(cause).
		WithHint("Could not fetch the catalog").
		WithMessagef("stage:%s", "CODE").
		Mark(ErrFetch)

	assert.True(t, IsFetch(err))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, http.StatusBadGateway, HTTPStatusFromErr(err))
	assert.Equal(t, "Could not fetch the catalog", Hints(err))
}

func TestNewErrorResponse(t *testing.T) {
	err := NewError("bad currency").
		WithHint("Currency must be one of the supported codes").
		Mark(ErrValidation)

	resp := NewErrorResponse(err)
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "Currency must be one of the supported codes", resp.Error.Display)

	plain := NewErrorResponse(errors.New("boom"))
	assert.Empty(t, plain.Error.Code)
	assert.Equal(t, "boom", plain.Error.Display)
}

func TestFetchFailureWinsOverHTTPClient(t *testing.T) {
	httpErr := &InternalError{Code: ErrCodeHTTPClient, Message: "http client error"}
	err := WithError(httpErr).
		WithHint("Failed to fetch the catalog").
		Mark(ErrFetch)

	assert.True(t, IsHTTPClient(err))
	assert.True(t, IsFetch(err))
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusBadGateway, HTTPStatusFromErr(err))
	}
}
