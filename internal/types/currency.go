package types

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Currency is a 3 letter ISO currency code in upper case ex GBP, USD
type Currency string

const (
	CurrencyGBP Currency = "GBP"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyAUD Currency = "AUD"
	CurrencyCAD Currency = "CAD"
	CurrencyNZD Currency = "NZD"
)

// SupportedCurrencies is the closed set of currencies a catalog may be priced in
var SupportedCurrencies = []Currency{
	CurrencyGBP,
	CurrencyUSD,
	CurrencyEUR,
	CurrencyAUD,
	CurrencyCAD,
	CurrencyNZD,
}

// IsSupported reports whether c belongs to the closed currency set
func (c Currency) IsSupported() bool {
	return lo.Contains(SupportedCurrencies, c)
}

func (c Currency) String() string {
	return string(c)
}

// ParseCurrency upper cases code and checks it against the closed set
func ParseCurrency(code string) (Currency, bool) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	return c, c.IsSupported()
}

// SortCurrencies sorts in place by code and returns the slice
func SortCurrencies(cs []Currency) []Currency {
	sort.Slice(cs, func(i, j int) bool { return cs[i] < cs[j] })
	return cs
}
