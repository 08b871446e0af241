package catalog

import (
	"sort"

	"github.com/flexprice/productcatalog/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Catalog is the canonical product catalog keyed by normalized names.
// It is immutable once built and safe to share between goroutines.
type Catalog struct {
	Products map[string]*Product

	ratePlansByID map[string]*RatePlan
	chargesByID   map[string]*Charge
}

type Product struct {
	Key         string
	ID          string
	Name        string
	Description string
	RatePlans   map[string]*RatePlan
}

type RatePlan struct {
	Key        string
	ID         string
	Name       string
	ProductKey string
	Status     types.RatePlanStatus
	// Removed is set when the vendor marked the rate plan with lastChangeType Remove
	Removed bool
	Charges map[string]*Charge
}

type Charge struct {
	Key           string
	ID            string
	Name          string
	RatePlanID    string
	Type          types.ChargeType
	Model         string
	BillingPeriod string
	Removed       bool
	Pricing       map[types.Currency]Price
}

// Price is the amount of one charge, or the summed charges of a rate plan, in
// one currency. Amount is stored in main currency units ex 149 means £149.
type Price struct {
	Currency types.Currency
	Amount   decimal.Decimal
	// DiscountPercentage is set for discount charges which carry no amount
	DiscountPercentage *decimal.Decimal
	Tiers              []Tier
}

type Tier struct {
	StartingUnit decimal.Decimal
	EndingUnit   *decimal.Decimal
	Price        decimal.Decimal
	PriceFormat  string
}

// IsDiscount reports whether the price is a percentage rather than an amount
func (p Price) IsDiscount() bool {
	return p.DiscountPercentage != nil
}

// ProductCount returns the number of products
func (c *Catalog) ProductCount() int {
	return len(c.Products)
}

// ProductKeys returns the product keys in sorted order
func (c *Catalog) ProductKeys() []string {
	return sortedKeys(c.Products)
}

// Product returns the product stored under key
func (c *Catalog) Product(key string) (*Product, bool) {
	p, ok := c.Products[key]
	return p, ok
}

// RatePlanByID finds a rate plan by vendor id across all products
func (c *Catalog) RatePlanByID(id string) (*RatePlan, bool) {
	rp, ok := c.ratePlansByID[id]
	return rp, ok
}

// ChargeByID finds a charge by vendor id across all rate plans
func (c *Catalog) ChargeByID(id string) (*Charge, bool) {
	ch, ok := c.chargesByID[id]
	return ch, ok
}

// RatePlanKeys returns the rate plan keys in sorted order
func (p *Product) RatePlanKeys() []string {
	return sortedKeys(p.RatePlans)
}

// ChargeKeys returns the charge keys in sorted order
func (rp *RatePlan) ChargeKeys() []string {
	return sortedKeys(rp.Charges)
}

// Currencies returns the currencies the charge is priced in, sorted
func (ch *Charge) Currencies() []types.Currency {
	return types.SortCurrencies(lo.Keys(ch.Pricing))
}

// Currencies returns every currency priced by at least one charge, sorted
func (rp *RatePlan) Currencies() []types.Currency {
	var all []types.Currency
	for _, ch := range rp.Charges {
		all = append(all, lo.Keys(ch.Pricing)...)
	}
	return types.SortCurrencies(lo.Uniq(all))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
