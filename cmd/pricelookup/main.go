package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/flexprice/productcatalog/internal/api"
	v1 "github.com/flexprice/productcatalog/internal/api/v1"
	"github.com/flexprice/productcatalog/internal/config"
	"github.com/flexprice/productcatalog/internal/logger"
	"github.com/flexprice/productcatalog/internal/service"
	"github.com/flexprice/productcatalog/internal/source"
	"github.com/flexprice/productcatalog/internal/validator"
	"go.uber.org/fx"
)

func init() {
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			provideSource,
			provideServiceParams,
			service.NewCatalogService,
			v1.NewPriceHandler,
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			validator.NewValidator,
			startAWSLambdaAPI,
		),
	)
	app.Run()
}

func provideSource(cfg *config.Configuration, log *logger.Logger) (source.Source, error) {
	return source.NewFromConfig(context.Background(), cfg, log)
}

func provideServiceParams(cfg *config.Configuration, log *logger.Logger, src source.Source) service.ServiceParams {
	return service.ServiceParams{
		Logger: log,
		Config: cfg,
		Source: src,
	}
}

func provideHandlers(price *v1.PriceHandler) api.Handlers {
	return api.Handlers{Price: price}
}

// the catalog is built by the first request of each execution environment
// and reused by every later one
func startAWSLambdaAPI(router api.HandlerFunc, log *logger.Logger) {
	log.Info("Starting price lookup lambda")
	lambda.Start(router)
}
