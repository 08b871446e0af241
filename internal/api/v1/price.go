package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/flexprice/productcatalog/internal/api/dto"
	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/logger"
	"github.com/flexprice/productcatalog/internal/service"
	"github.com/flexprice/productcatalog/internal/types"
	"github.com/flexprice/productcatalog/internal/validator"
)

type PriceHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewPriceHandler(service service.CatalogService, log *logger.Logger) *PriceHandler {
	return &PriceHandler{service: service, log: log}
}

// GetPrice answers GET /prices?ratePlanId=..&currency=..
func (h *PriceHandler) GetPrice(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := dto.GetPriceRequest{
		RatePlanID: strings.TrimSpace(req.QueryStringParameters["ratePlanId"]),
		Currency:   types.Currency(strings.ToUpper(strings.TrimSpace(req.QueryStringParameters["currency"]))),
	}
	if err := validator.ValidateRequest(&params); err != nil {
		return h.error(ctx, err), nil
	}

	price, err := h.service.GetPrice(ctx, params.RatePlanID, params.Currency)
	if err != nil {
		return h.error(ctx, catalogError(err)), nil
	}

	return h.json(http.StatusOK, dto.NewPriceResponse(params.RatePlanID, price)), nil
}

// ListPricing answers GET /pricing?product=..&currency=..
func (h *PriceHandler) ListPricing(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := dto.GetPricingRequest{
		Product:  req.QueryStringParameters["product"],
		Currency: types.Currency(strings.ToUpper(strings.TrimSpace(req.QueryStringParameters["currency"]))),
	}
	if err := validator.ValidateRequest(&params); err != nil {
		return h.error(ctx, err), nil
	}

	prices, err := h.service.ActivePricing(ctx, params.Product, params.Currency)
	if err != nil {
		return h.error(ctx, catalogError(err)), nil
	}

	return h.json(http.StatusOK, dto.NewListPricingResponse(prices)), nil
}

// catalogError reports a catalog that failed validation as an upstream
// failure rather than a bad request
func catalogError(err error) error {
	if ierr.IsValidation(err) {
		return ierr.WithError(err).
			WithHint("The product catalog is currently unavailable").
			Mark(ierr.ErrFetch)
	}
	return err
}

func (h *PriceHandler) error(ctx context.Context, err error) events.APIGatewayProxyResponse {
	status := ierr.HTTPStatusFromErr(err)
	if status >= http.StatusInternalServerError {
		h.log.Errorw("price lookup failed",
			"request_id", types.GetRequestID(ctx),
			"status", status,
			"error", err,
		)
	} else {
		h.log.Debugw("price lookup rejected",
			"request_id", types.GetRequestID(ctx),
			"status", status,
			"error", err,
		)
	}
	return h.json(status, ierr.NewErrorResponse(err))
}

func (h *PriceHandler) json(status int, body any) events.APIGatewayProxyResponse {
	data, err := json.Marshal(body)
	if err != nil {
		h.log.Errorw("failed to encode response", "error", err)
		status = http.StatusInternalServerError
		data = []byte(`{"success":false,"error":{"message":"internal error"}}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Cache-Control": "max-age=60",
		},
		Body: string(data),
	}
}
