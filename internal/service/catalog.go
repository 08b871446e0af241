package service

import (
	"context"

	"github.com/flexprice/productcatalog/internal/domain/catalog"
	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/lazy"
	"github.com/flexprice/productcatalog/internal/types"
	"github.com/shopspring/decimal"
)

// CatalogService serves prices from the canonical catalog of the configured
// stage. The catalog is fetched, validated and mapped on first use and kept
// for the lifetime of the service, which in the lambda is the lifetime of
// the execution environment. A failed build is retried on the next call.
type CatalogService interface {
	Catalog(ctx context.Context) (*catalog.Catalog, error)
	KeySchema(ctx context.Context) (catalog.KeySchema, error)
	// GetPrice prices a rate plan without its removed and discount charges
	GetPrice(ctx context.Context, ratePlanID string, currency types.Currency) (*catalog.Price, error)
	GetChargePrice(ctx context.Context, chargeID string, currency types.Currency) (*catalog.Price, error)
	ActivePricing(ctx context.Context, productKey string, currency types.Currency) ([]RatePlanPrice, error)
	// Invalidate forgets the built catalog so the next call rebuilds it
	Invalidate(ctx context.Context)
}

// RatePlanPrice is the price of one purchasable rate plan
type RatePlanPrice struct {
	ProductKey  string
	RatePlanKey string
	RatePlanID  string
	Price       catalog.Price
}

type catalogService struct {
	ServiceParams
	stage            types.Stage
	discountProducts []string
	catalog          *lazy.Value[*catalog.Catalog]
	schema           *lazy.Value[catalog.KeySchema]
}

// stageInvalidator is implemented by sources that keep fetched bytes
type stageInvalidator interface {
	Invalidate(ctx context.Context, stage types.Stage)
}

func NewCatalogService(params ServiceParams) CatalogService {
	s := &catalogService{
		ServiceParams:    params,
		stage:            params.Config.Deployment.Stage,
		discountProducts: params.Config.Catalog.DiscountProducts,
	}
	s.catalog = lazy.New(s.build, lazy.WithLabel("catalog "+s.stage.String(), params.Logger))
	s.schema = lazy.Then(s.catalog, func(_ context.Context, c *catalog.Catalog) (catalog.KeySchema, error) {
		return catalog.Generate(c), nil
	})
	return s
}

func (s *catalogService) build(ctx context.Context) (*catalog.Catalog, error) {
	data, err := s.Source.Fetch(ctx, s.stage)
	if err != nil {
		return nil, err
	}

	c, err := catalog.Build(data)
	if err != nil {
		s.Logger.Errorw("catalog failed validation",
			"stage", s.stage,
			"error", err,
			"hint", ierr.Hints(err),
		)
		return nil, err
	}

	s.Logger.Infow("catalog built",
		"stage", s.stage,
		"bytes", len(data),
		"products", c.ProductCount(),
	)
	return c, nil
}

func (s *catalogService) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	return s.catalog.Get(ctx)
}

func (s *catalogService) KeySchema(ctx context.Context) (catalog.KeySchema, error) {
	return s.schema.Get(ctx)
}

func (s *catalogService) GetPrice(ctx context.Context, ratePlanID string, currency types.Currency) (*catalog.Price, error) {
	c, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.GetActivePrice(c, ratePlanID, currency)
}

func (s *catalogService) GetChargePrice(ctx context.Context, chargeID string, currency types.Currency) (*catalog.Price, error) {
	c, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.GetChargePrice(c, chargeID, currency)
}

// ActivePricing prices every rate plan of a product that is still on sale,
// leaving out removed rate plans and charges, discount products, and rate
// plans with no price in currency
func (s *catalogService) ActivePricing(ctx context.Context, productKey string, currency types.Currency) ([]RatePlanPrice, error) {
	c, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	key := catalog.NormalizeKey(productKey)
	if _, ok := c.Product(key); !ok {
		return nil, ierr.NewErrorf("product %q not found", productKey).
			WithHintf("No product named %s exists in the catalog", productKey).
			Mark(ierr.ErrNotFound)
	}

	plans := c.RatePlans(
		catalog.ActiveRatePlans,
		catalog.NotDiscountProduct(s.discountProducts...),
		func(product *catalog.Product, _ *catalog.RatePlan) bool { return product.Key == key },
	)

	prices := make([]RatePlanPrice, 0, len(plans))
	for _, plan := range plans {
		price, err := catalog.GetActivePrice(c, plan.ID, currency)
		if ierr.IsMissingCurrency(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		// percentage only plans have nothing to charge
		if price.IsDiscount() && price.Amount.Equal(decimal.Zero) {
			continue
		}
		prices = append(prices, RatePlanPrice{
			ProductKey:  plan.ProductKey,
			RatePlanKey: plan.Key,
			RatePlanID:  plan.ID,
			Price:       *price,
		})
	}
	return prices, nil
}

func (s *catalogService) Invalidate(ctx context.Context) {
	if inv, ok := s.Source.(stageInvalidator); ok {
		inv.Invalidate(ctx, s.stage)
	}
	s.catalog.Invalidate()
	s.schema.Invalidate()
}
