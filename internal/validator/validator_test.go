package validator

import (
	"testing"

	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupRequest struct {
	RatePlanID string `json:"ratePlanId" validate:"required"`
	Currency   string `json:"currency" validate:"required,currency"`
}

func TestValidateRequest(t *testing.T) {
	NewValidator()

	require.NoError(t, ValidateRequest(lookupRequest{RatePlanID: "rp-1", Currency: "GBP"}))

	err := ValidateRequest(lookupRequest{RatePlanID: "rp-1", Currency: "JPY"})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestNewUsesJSONNames(t *testing.T) {
	err := New().Struct(lookupRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookupRequest.ratePlanId")
}
