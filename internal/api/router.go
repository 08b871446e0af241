package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	v1 "github.com/flexprice/productcatalog/internal/api/v1"
	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/types"
)

type Handlers struct {
	Price *v1.PriceHandler
}

// HandlerFunc handles one API Gateway proxy request
type HandlerFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// NewRouter dispatches API Gateway proxy requests by method and path
func NewRouter(handlers Handlers) HandlerFunc {
	routes := map[string]HandlerFunc{
		"GET /prices":  handlers.Price.GetPrice,
		"GET /pricing": handlers.Price.ListPricing,
	}

	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		if id := req.RequestContext.RequestID; id != "" {
			ctx = context.WithValue(ctx, types.CtxRequestID, id)
		}
		ctx = types.WithRequestID(ctx)

		path := "/" + strings.Trim(req.Path, "/")
		path = strings.TrimPrefix(path, "/v1")
		if handler, ok := routes[req.HTTPMethod+" "+path]; ok {
			return handler(ctx, req)
		}

		err := ierr.NewErrorf("no route for %s %s", req.HTTPMethod, req.Path).
			WithHint("Supported routes are GET /prices and GET /pricing").
			Mark(ierr.ErrNotFound)
		resp := ierr.NewErrorResponse(err)
		return notFound(resp), nil
	}
}

func notFound(resp ierr.ErrorResponse) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(resp)
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusNotFound,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}
