package catalog

import (
	"github.com/flexprice/productcatalog/internal/types"
)

// KeySchema is the closed shape of a catalog: product keys, their rate plan
// keys, and per rate plan the charge keys and priced currencies. Every list
// is sorted so the same catalog always yields the same schema.
type KeySchema struct {
	Products []ProductSchema `json:"products" yaml:"products"`
}

type ProductSchema struct {
	Key       string           `json:"key" yaml:"key"`
	RatePlans []RatePlanSchema `json:"ratePlans" yaml:"ratePlans"`
}

type RatePlanSchema struct {
	Key        string           `json:"key" yaml:"key"`
	Charges    []string         `json:"charges" yaml:"charges"`
	Currencies []types.Currency `json:"currencies" yaml:"currencies"`
}

// Generate derives the key schema of c. Removed and discount entries are
// listed like any other; the schema describes the whole catalog.
func Generate(c *Catalog) KeySchema {
	schema := KeySchema{Products: make([]ProductSchema, 0, c.ProductCount())}
	for _, productKey := range c.ProductKeys() {
		product := c.Products[productKey]
		ps := ProductSchema{
			Key:       productKey,
			RatePlans: make([]RatePlanSchema, 0, len(product.RatePlans)),
		}
		for _, planKey := range product.RatePlanKeys() {
			plan := product.RatePlans[planKey]
			currencies := plan.Currencies()
			if currencies == nil {
				currencies = []types.Currency{}
			}
			ps.RatePlans = append(ps.RatePlans, RatePlanSchema{
				Key:        planKey,
				Charges:    plan.ChargeKeys(),
				Currencies: currencies,
			})
		}
		schema.Products = append(schema.Products, ps)
	}
	return schema
}

// Product returns the schema entry for key
func (s KeySchema) Product(key string) (ProductSchema, bool) {
	for _, p := range s.Products {
		if p.Key == key {
			return p, true
		}
	}
	return ProductSchema{}, false
}

// RatePlan returns the schema entry for key
func (p ProductSchema) RatePlan(key string) (RatePlanSchema, bool) {
	for _, rp := range p.RatePlans {
		if rp.Key == key {
			return rp, true
		}
	}
	return RatePlanSchema{}, false
}
