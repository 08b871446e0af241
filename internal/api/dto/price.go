package dto

import (
	"github.com/flexprice/productcatalog/internal/domain/catalog"
	"github.com/flexprice/productcatalog/internal/service"
	"github.com/flexprice/productcatalog/internal/types"
	"github.com/shopspring/decimal"
)

type GetPriceRequest struct {
	RatePlanID string         `json:"ratePlanId" validate:"required"`
	Currency   types.Currency `json:"currency" validate:"required,currency"`
}

type GetPricingRequest struct {
	Product  string         `json:"product" validate:"required"`
	Currency types.Currency `json:"currency" validate:"required,currency"`
}

type PriceResponse struct {
	RatePlanID         string           `json:"ratePlanId"`
	Currency           types.Currency   `json:"currency"`
	Amount             decimal.Decimal  `json:"amount"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage,omitempty"`
}

func NewPriceResponse(ratePlanID string, p *catalog.Price) *PriceResponse {
	return &PriceResponse{
		RatePlanID:         ratePlanID,
		Currency:           p.Currency,
		Amount:             p.Amount,
		DiscountPercentage: p.DiscountPercentage,
	}
}

type RatePlanPriceResponse struct {
	Product  string `json:"product"`
	RatePlan string `json:"ratePlan"`
	*PriceResponse
}

type ListPricingResponse struct {
	Items []*RatePlanPriceResponse `json:"items"`
}

func NewListPricingResponse(prices []service.RatePlanPrice) *ListPricingResponse {
	resp := &ListPricingResponse{Items: make([]*RatePlanPriceResponse, 0, len(prices))}
	for i := range prices {
		p := prices[i]
		resp.Items = append(resp.Items, &RatePlanPriceResponse{
			Product:       p.ProductKey,
			RatePlan:      p.RatePlanKey,
			PriceResponse: NewPriceResponse(p.RatePlanID, &p.Price),
		})
	}
	return resp
}
