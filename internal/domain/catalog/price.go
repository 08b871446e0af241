package catalog

import (
	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/types"
	"github.com/shopspring/decimal"
)

// GetPrice returns the price of a rate plan in currency. The amount is the sum
// of the amounts of the selected charges, so a single charge plan returns the
// charge's amount unchanged. Charge predicates narrow which charges take part
// ex ActiveCharges.
//
// Errors are marked ierr.ErrUnknownRatePlan when the id is not in the catalog
// and ierr.ErrMissingCurrency when a selected non discount charge, or every
// selected charge, has no price in currency.
func GetPrice(c *Catalog, ratePlanID string, currency types.Currency, preds ...ChargePredicate) (*Price, error) {
	plan, ok := c.RatePlanByID(ratePlanID)
	if !ok {
		return nil, ierr.NewErrorf("rate plan %s not found", ratePlanID).
			WithHintf("No rate plan with id %s exists in the catalog", ratePlanID).
			WithReportableDetails(map[string]any{
				"rate_plan_id": ratePlanID,
			}).
			Mark(ierr.ErrUnknownRatePlan)
	}

	var (
		matched    []Price
		amount     = decimal.Zero
		percentage *decimal.Decimal
	)
	for _, charge := range plan.SelectCharges(preds...) {
		price, ok := charge.Pricing[currency]
		if !ok && charge.Type == types.CHARGE_TYPE_DISCOUNT {
			continue
		}
		if !ok {
			return nil, missingCurrencyError(plan, currency).
				WithReportableDetails(map[string]any{
					"rate_plan_id": ratePlanID,
					"charge_id":    charge.ID,
					"currency":     currency,
					"available":    charge.Currencies(),
				}).
				Mark(ierr.ErrMissingCurrency)
		}
		matched = append(matched, price)
		amount = amount.Add(price.Amount)
		if price.DiscountPercentage != nil {
			sum := *price.DiscountPercentage
			if percentage != nil {
				sum = percentage.Add(sum)
			}
			percentage = &sum
		}
	}

	if len(matched) == 0 {
		return nil, missingCurrencyError(plan, currency).
			WithReportableDetails(map[string]any{
				"rate_plan_id": ratePlanID,
				"currency":     currency,
				"available":    plan.Currencies(),
			}).
			Mark(ierr.ErrMissingCurrency)
	}

	// a lone charge is returned as is so the amount keeps its source exponent
	if len(matched) == 1 {
		price := matched[0]
		return &price, nil
	}

	return &Price{
		Currency:           currency,
		Amount:             amount,
		DiscountPercentage: percentage,
	}, nil
}

// GetActivePrice prices a rate plan the way a new subscription would pay for
// it: removed charges are left out, and so are discount charges unless the
// rate plan holds nothing else.
func GetActivePrice(c *Catalog, ratePlanID string, currency types.Currency) (*Price, error) {
	plan, ok := c.RatePlanByID(ratePlanID)
	if ok && len(plan.SelectCharges(ActiveCharges, NotDiscountCharge)) > 0 {
		return GetPrice(c, ratePlanID, currency, ActiveCharges, NotDiscountCharge)
	}
	return GetPrice(c, ratePlanID, currency, ActiveCharges)
}

func missingCurrencyError(plan *RatePlan, currency types.Currency) *ierr.ErrorBuilder {
	return ierr.NewErrorf("rate plan %s has no %s pricing", plan.ID, currency).
		WithHintf("Rate plan %s is not priced in %s", plan.Key, currency)
}

// GetChargePrice returns the pricing entry of a single charge in currency
func GetChargePrice(c *Catalog, chargeID string, currency types.Currency) (*Price, error) {
	charge, ok := c.ChargeByID(chargeID)
	if !ok {
		return nil, ierr.NewErrorf("charge %s not found", chargeID).
			WithHintf("No charge with id %s exists in the catalog", chargeID).
			Mark(ierr.ErrNotFound)
	}

	price, ok := charge.Pricing[currency]
	if !ok {
		return nil, ierr.NewErrorf("charge %s has no %s pricing", chargeID, currency).
			WithHintf("Charge %s is not priced in %s", charge.Key, currency).
			WithReportableDetails(map[string]any{
				"charge_id": chargeID,
				"currency":  currency,
				"available": charge.Currencies(),
			}).
			Mark(ierr.ErrMissingCurrency)
	}
	return &price, nil
}
