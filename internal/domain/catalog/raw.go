package catalog

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/shopspring/decimal"
)

// RawCatalog is the billing provider's catalog as delivered. Only the fields
// listed here are read, everything else in the document is dropped.
type RawCatalog struct {
	Products []RawProduct `json:"products" validate:"required,dive"`
	NextPage string       `json:"nextPage,omitempty"`
}

type RawProduct struct {
	ID          string        `json:"id" validate:"required"`
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description,omitempty"`
	RatePlans   []RawRatePlan `json:"productRatePlans" validate:"required,dive"`
}

type RawRatePlan struct {
	ID             string              `json:"id" validate:"required"`
	Name           string              `json:"name" validate:"required"`
	Status         string              `json:"status,omitempty"`
	LastChangeType string              `json:"lastChangeType,omitempty" validate:"omitempty,oneof=Add Update Remove"`
	Charges        []RawRatePlanCharge `json:"productRatePlanCharges" validate:"required,dive"`
}

type RawRatePlanCharge struct {
	ID             string       `json:"id" validate:"required"`
	Name           string       `json:"name" validate:"required"`
	Type           string       `json:"type" validate:"required,oneof=Recurring OneTime Usage"`
	Model          string       `json:"model,omitempty"`
	BillingPeriod  string       `json:"billingPeriod,omitempty"`
	LastChangeType string       `json:"lastChangeType,omitempty" validate:"omitempty,oneof=Add Update Remove"`
	Pricing        []RawPricing `json:"pricing" validate:"required,dive"`
}

// RawPricing is one currency entry of a charge. Discount charges carry a
// percentage instead of a price.
type RawPricing struct {
	Currency           string    `json:"currency" validate:"required,currency"`
	Price              *Number   `json:"price" validate:"required_without=DiscountPercentage"`
	DiscountPercentage *Number   `json:"discountPercentage"`
	Tiers              []RawTier `json:"tiers,omitempty" validate:"omitempty,dive"`
}

type RawTier struct {
	StartingUnit *Number `json:"startingUnit" validate:"required"`
	EndingUnit   *Number `json:"endingUnit"`
	Price        *Number `json:"price" validate:"required"`
	PriceFormat  string  `json:"priceFormat,omitempty"`
}

// Number is a decimal read from a JSON number literal. Quoted numbers are
// rejected so a price sent as a string fails validation.
type Number struct {
	Value decimal.Decimal
}

// NewNumber wraps d, mostly for building raw catalogs in code
func NewNumber(d decimal.Decimal) *Number {
	return &Number{Value: d}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return &json.UnmarshalTypeError{Value: "string", Type: reflect.TypeOf(Number{})}
	}
	if string(data) == "true" || string(data) == "false" {
		return &json.UnmarshalTypeError{Value: "bool", Type: reflect.TypeOf(Number{})}
	}
	if len(data) > 0 && data[0] == '{' {
		return &json.UnmarshalTypeError{Value: "object", Type: reflect.TypeOf(Number{})}
	}
	if len(data) > 0 && data[0] == '[' {
		return &json.UnmarshalTypeError{Value: "array", Type: reflect.TypeOf(Number{})}
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return &json.UnmarshalTypeError{Value: "number " + string(data), Type: reflect.TypeOf(Number{})}
	}
	n.Value = d
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Value.String()), nil
}
