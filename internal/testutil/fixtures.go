package testutil

import (
	"encoding/json"
	"fmt"
)

// Raw catalog fixtures are built as plain JSON values in the billing
// provider's shape so tests exercise the same decoding path as production.

// RawCatalog marshals products into a raw catalog document
func RawCatalog(products ...map[string]any) []byte {
	if products == nil {
		products = []map[string]any{}
	}
	data, err := json.Marshal(map[string]any{
		"products": products,
		"success":  true,
	})
	if err != nil {
		panic(err)
	}
	return data
}

func RawProduct(id, name string, ratePlans ...map[string]any) map[string]any {
	if ratePlans == nil {
		ratePlans = []map[string]any{}
	}
	return map[string]any{
		"id":                 id,
		"name":               name,
		"description":        name + " product",
		"effectiveStartDate": "2007-01-01",
		"productRatePlans":   ratePlans,
	}
}

func RawRatePlan(id, name string, charges ...map[string]any) map[string]any {
	if charges == nil {
		charges = []map[string]any{}
	}
	return map[string]any{
		"id":                     id,
		"name":                   name,
		"status":                 "Active",
		"TermType__c":            "TERMED",
		"productRatePlanCharges": charges,
	}
}

func RawCharge(id, name, chargeType string, pricing ...map[string]any) map[string]any {
	if pricing == nil {
		pricing = []map[string]any{}
	}
	return map[string]any{
		"id":            id,
		"name":          name,
		"type":          chargeType,
		"model":         "FlatFee",
		"billingPeriod": "Annual",
		"pricing":       pricing,
	}
}

// RawPrice builds a pricing entry; amount is written as a JSON number literal
func RawPrice(currency, amount string) map[string]any {
	return map[string]any{
		"currency":           currency,
		"price":              json.Number(amount),
		"discountPercentage": nil,
	}
}

// RawDiscountPrice builds a percentage pricing entry
func RawDiscountPrice(currency, percentage string) map[string]any {
	return map[string]any{
		"currency":           currency,
		"price":              nil,
		"discountPercentage": json.Number(percentage),
	}
}

// With returns a copy of node with the extra fields set
func With(node map[string]any, fields map[string]any) map[string]any {
	out := make(map[string]any, len(node)+len(fields))
	for k, v := range node {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// GeneratedRawCatalog builds a catalog of n products, each with one monthly
// rate plan priced in GBP and USD
func GeneratedRawCatalog(n int) []byte {
	products := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		products = append(products, RawProduct(
			fmt.Sprintf("prod-%03d", i),
			fmt.Sprintf("Product %03d", i),
			RawRatePlan(
				fmt.Sprintf("rp-%03d", i),
				"Monthly",
				RawCharge(
					fmt.Sprintf("ch-%03d", i),
					"Subscription",
					"Recurring",
					RawPrice("GBP", fmt.Sprintf("%d.99", i)),
					RawPrice("USD", fmt.Sprintf("%d.49", i)),
				),
			),
		))
	}
	return RawCatalog(products...)
}

// DigitalSubscriptionCatalog is one product "Digital Subscription" with an
// "Annual" rate plan priced GBP 149
func DigitalSubscriptionCatalog() []byte {
	return RawCatalog(
		RawProduct("prod-ds", "Digital Subscription",
			RawRatePlan("rp-ds-annual", "Annual",
				RawCharge("ch-ds-annual", "Subscription", "Recurring",
					RawPrice("GBP", "149"),
				),
			),
		),
	)
}
