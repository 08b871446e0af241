package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChargeTypeFromVendor(t *testing.T) {
	tests := []struct {
		name       string
		vendorType string
		model      string
		want       ChargeType
		ok         bool
	}{
		{"recurring", "Recurring", "FlatFee", CHARGE_TYPE_RECURRING, true},
		{"one time", "OneTime", "", CHARGE_TYPE_ONETIME, true},
		{"usage", "Usage", "PerUnit", CHARGE_TYPE_USAGE, true},
		{"discount model wins", "Recurring", "DiscountPercentage", CHARGE_TYPE_DISCOUNT, true},
		{"unknown", "Weekly", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ChargeTypeFromVendor(tt.vendorType, tt.model)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCurrency(t *testing.T) {
	c, ok := ParseCurrency(" gbp ")
	assert.True(t, ok)
	assert.Equal(t, CurrencyGBP, c)

	_, ok = ParseCurrency("JPY")
	assert.False(t, ok)
}

func TestParseStage(t *testing.T) {
	s, ok := ParseStage("prod")
	assert.True(t, ok)
	assert.True(t, s.IsProduction())

	_, ok = ParseStage("DEV")
	assert.False(t, ok)
}
