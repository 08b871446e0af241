package types

import "strings"

// ChargeType is the canonical charge classification ex RECURRING, ONETIME, DISCOUNT
type ChargeType string

const (
	CHARGE_TYPE_RECURRING ChargeType = "RECURRING"
	CHARGE_TYPE_ONETIME   ChargeType = "ONETIME"
	CHARGE_TYPE_USAGE     ChargeType = "USAGE"
	CHARGE_TYPE_DISCOUNT  ChargeType = "DISCOUNT"
)

// Vendor charge type tags as they appear in the raw catalog
const (
	VendorChargeTypeRecurring = "Recurring"
	VendorChargeTypeOneTime   = "OneTime"
	VendorChargeTypeUsage     = "Usage"

	// vendor charge models starting with this prefix are discounts
	// ex DiscountPercentage, DiscountFixedAmount
	VendorDiscountModelPrefix = "Discount"
)

// VendorChargeTypes is the closed set of accepted vendor charge type tags
var VendorChargeTypes = []string{
	VendorChargeTypeRecurring,
	VendorChargeTypeOneTime,
	VendorChargeTypeUsage,
}

// ChangeType is the vendor's last change marker on rate plans and charges
type ChangeType string

const (
	ChangeTypeAdd    ChangeType = "Add"
	ChangeTypeUpdate ChangeType = "Update"
	ChangeTypeRemove ChangeType = "Remove"
)

// RatePlanStatus is the vendor lifecycle status of a rate plan
type RatePlanStatus string

const (
	RatePlanStatusActive     RatePlanStatus = "Active"
	RatePlanStatusExpired    RatePlanStatus = "Expired"
	RatePlanStatusNotStarted RatePlanStatus = "NotStarted"
)

// ChargeTypeFromVendor maps the vendor type tag and model to a canonical ChargeType.
// The model wins when it names a discount.
func ChargeTypeFromVendor(vendorType, model string) (ChargeType, bool) {
	if strings.HasPrefix(model, VendorDiscountModelPrefix) {
		return CHARGE_TYPE_DISCOUNT, true
	}
	switch vendorType {
	case VendorChargeTypeRecurring:
		return CHARGE_TYPE_RECURRING, true
	case VendorChargeTypeOneTime:
		return CHARGE_TYPE_ONETIME, true
	case VendorChargeTypeUsage:
		return CHARGE_TYPE_USAGE, true
	}
	return "", false
}

// Default vendor products that only hold discounts and promotions.
// Promotions exists only in the CODE catalog.
var DefaultDiscountProducts = []string{"Discounts", "Promotions"}
