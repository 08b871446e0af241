package catalog

import (
	"fmt"

	"github.com/flexprice/productcatalog/internal/types"
	"github.com/shopspring/decimal"
)

// Map converts a validated raw catalog into the canonical catalog. Every
// product, rate plan and charge is kept, including products without rate
// plans, removed entries and discount charges; filtering is left to callers.
// An error means the raw catalog broke an invariant Validate enforces.
func Map(raw *RawCatalog) (*Catalog, error) {
	if raw == nil {
		return nil, newValidationError(rootPath, "is empty", nil)
	}

	c := &Catalog{
		Products:      make(map[string]*Product, len(raw.Products)),
		ratePlansByID: make(map[string]*RatePlan),
		chargesByID:   make(map[string]*Charge),
	}

	for i, rawProduct := range raw.Products {
		path := fmt.Sprintf("products[%d]", i)
		product, err := c.mapProduct(rawProduct, path)
		if err != nil {
			return nil, err
		}
		if _, dup := c.Products[product.Key]; dup {
			return nil, newValidationError(path+".name", fmt.Sprintf("key %q is not unique", product.Key), nil)
		}
		c.Products[product.Key] = product
	}

	return c, nil
}

// Build validates and maps raw catalog bytes in one step
func Build(data []byte) (*Catalog, error) {
	raw, err := Validate(data)
	if err != nil {
		return nil, err
	}
	return Map(raw)
}

func (c *Catalog) mapProduct(raw RawProduct, path string) (*Product, error) {
	product := &Product{
		Key:         NormalizeKey(raw.Name),
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		RatePlans:   make(map[string]*RatePlan, len(raw.RatePlans)),
	}
	if product.Key == "" {
		return nil, newValidationError(path+".name", "is blank", nil)
	}

	for j, rawPlan := range raw.RatePlans {
		planPath := fmt.Sprintf("%s.productRatePlans[%d]", path, j)
		plan, err := c.mapRatePlan(rawPlan, product.Key, planPath)
		if err != nil {
			return nil, err
		}
		if _, dup := product.RatePlans[plan.Key]; dup {
			return nil, newValidationError(planPath+".name", fmt.Sprintf("key %q is not unique", plan.Key), nil)
		}
		if _, dup := c.ratePlansByID[plan.ID]; dup {
			return nil, newValidationError(planPath+".id", fmt.Sprintf("id %q is not unique", plan.ID), nil)
		}
		product.RatePlans[plan.Key] = plan
		c.ratePlansByID[plan.ID] = plan
	}

	return product, nil
}

func (c *Catalog) mapRatePlan(raw RawRatePlan, productKey, path string) (*RatePlan, error) {
	plan := &RatePlan{
		Key:        NormalizeKey(raw.Name),
		ID:         raw.ID,
		Name:       raw.Name,
		ProductKey: productKey,
		Status:     types.RatePlanStatus(raw.Status),
		Removed:    types.ChangeType(raw.LastChangeType) == types.ChangeTypeRemove,
		Charges:    make(map[string]*Charge, len(raw.Charges)),
	}
	if plan.Key == "" {
		return nil, newValidationError(path+".name", "is blank", nil)
	}

	for k, rawCharge := range raw.Charges {
		chargePath := fmt.Sprintf("%s.productRatePlanCharges[%d]", path, k)
		charge, err := mapCharge(rawCharge, plan.ID, chargePath)
		if err != nil {
			return nil, err
		}
		if _, dup := plan.Charges[charge.Key]; dup {
			return nil, newValidationError(chargePath+".name", fmt.Sprintf("key %q is not unique", charge.Key), nil)
		}
		if _, dup := c.chargesByID[charge.ID]; dup {
			return nil, newValidationError(chargePath+".id", fmt.Sprintf("id %q is not unique", charge.ID), nil)
		}
		plan.Charges[charge.Key] = charge
		c.chargesByID[charge.ID] = charge
	}

	return plan, nil
}

func mapCharge(raw RawRatePlanCharge, ratePlanID, path string) (*Charge, error) {
	chargeType, ok := types.ChargeTypeFromVendor(raw.Type, raw.Model)
	if !ok {
		return nil, newValidationError(path+".type", fmt.Sprintf("%q is not a known charge type", raw.Type), nil)
	}

	charge := &Charge{
		Key:           NormalizeKey(raw.Name),
		ID:            raw.ID,
		Name:          raw.Name,
		RatePlanID:    ratePlanID,
		Type:          chargeType,
		Model:         raw.Model,
		BillingPeriod: raw.BillingPeriod,
		Removed:       types.ChangeType(raw.LastChangeType) == types.ChangeTypeRemove,
		Pricing:       make(map[types.Currency]Price, len(raw.Pricing)),
	}
	if charge.Key == "" {
		return nil, newValidationError(path+".name", "is blank", nil)
	}

	for p, entry := range raw.Pricing {
		entryPath := fmt.Sprintf("%s.pricing[%d]", path, p)
		price, err := mapPrice(entry, entryPath)
		if err != nil {
			return nil, err
		}
		if _, dup := charge.Pricing[price.Currency]; dup {
			return nil, newValidationError(entryPath+".currency", fmt.Sprintf("%s appears twice", price.Currency), nil)
		}
		charge.Pricing[price.Currency] = price
	}

	return charge, nil
}

func mapPrice(raw RawPricing, path string) (Price, error) {
	currency := types.Currency(raw.Currency)
	if !currency.IsSupported() {
		return Price{}, newValidationError(path+".currency", fmt.Sprintf("%q is not a supported currency", raw.Currency), nil)
	}

	price := Price{Currency: currency}
	if raw.Price != nil {
		price.Amount = raw.Price.Value
	}
	if raw.DiscountPercentage != nil {
		pct := raw.DiscountPercentage.Value
		price.DiscountPercentage = &pct
	}
	if price.Amount.IsNegative() {
		return Price{}, newValidationError(path+".price", "must not be negative", nil)
	}

	for _, rawTier := range raw.Tiers {
		tier := Tier{PriceFormat: rawTier.PriceFormat}
		if rawTier.StartingUnit != nil {
			tier.StartingUnit = rawTier.StartingUnit.Value
		}
		if rawTier.EndingUnit != nil {
			end := rawTier.EndingUnit.Value
			tier.EndingUnit = &end
		}
		if rawTier.Price != nil {
			tier.Price = rawTier.Price.Value
		} else {
			tier.Price = decimal.Zero
		}
		price.Tiers = append(price.Tiers, tier)
	}

	return price, nil
}
