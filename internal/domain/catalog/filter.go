package catalog

import (
	"github.com/flexprice/productcatalog/internal/types"
	"github.com/samber/lo"
)

// RatePlanPredicate decides whether a rate plan belongs to a caller's view
type RatePlanPredicate func(product *Product, plan *RatePlan) bool

// ChargePredicate decides whether a charge belongs to a caller's view
type ChargePredicate func(plan *RatePlan, charge *Charge) bool

// ActiveRatePlans drops rate plans the vendor marked as removed
func ActiveRatePlans(_ *Product, plan *RatePlan) bool {
	return !plan.Removed
}

// NotDiscountProduct drops rate plans of products that only carry discounts or
// promotions. Names are compared after normalization.
func NotDiscountProduct(names ...string) RatePlanPredicate {
	excluded := lo.SliceToMap(names, func(name string) (string, struct{}) {
		return NormalizeKey(name), struct{}{}
	})
	return func(product *Product, _ *RatePlan) bool {
		_, skip := excluded[product.Key]
		return !skip
	}
}

// ActiveCharges drops charges the vendor marked as removed
func ActiveCharges(_ *RatePlan, charge *Charge) bool {
	return !charge.Removed
}

// NotDiscountCharge drops discount charges
func NotDiscountCharge(_ *RatePlan, charge *Charge) bool {
	return charge.Type != types.CHARGE_TYPE_DISCOUNT
}

// RatePlans returns the rate plans accepted by every predicate, ordered by
// product key then rate plan key.
func (c *Catalog) RatePlans(preds ...RatePlanPredicate) []*RatePlan {
	var plans []*RatePlan
	for _, productKey := range c.ProductKeys() {
		product := c.Products[productKey]
		for _, planKey := range product.RatePlanKeys() {
			plan := product.RatePlans[planKey]
			if lo.EveryBy(preds, func(pred RatePlanPredicate) bool { return pred(product, plan) }) {
				plans = append(plans, plan)
			}
		}
	}
	return plans
}

// SelectCharges returns the charges accepted by every predicate ordered by key
func (rp *RatePlan) SelectCharges(preds ...ChargePredicate) []*Charge {
	var charges []*Charge
	for _, key := range rp.ChargeKeys() {
		charge := rp.Charges[key]
		if lo.EveryBy(preds, func(pred ChargePredicate) bool { return pred(rp, charge) }) {
			charges = append(charges, charge)
		}
	}
	return charges
}
