package service

import (
	"context"
	"errors"
	"testing"
	"time"

	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/lazy"
	"github.com/flexprice/productcatalog/internal/testutil"
	"github.com/flexprice/productcatalog/internal/types"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/suite"
)

type CatalogServiceSuite struct {
	testutil.BaseServiceTestSuite
	ctx     context.Context
	source  *testutil.InMemorySource
	service CatalogService
}

func TestCatalogService(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}

func (s *CatalogServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.ctx = s.GetContext()
	s.source = s.GetSource()
	s.source.Put(types.StageCODE, testutil.RawCatalog(
		testutil.RawProduct("prod-gw", "Guardian Weekly",
			testutil.RawRatePlan("rp-gw-annual", "Annual",
				testutil.RawCharge("ch-gw-annual", "Subscription", "Recurring",
					testutil.RawPrice("GBP", "150"),
					testutil.RawPrice("USD", "300"),
				),
			),
			testutil.RawRatePlan("rp-gw-quarterly", "Quarterly",
				testutil.RawCharge("ch-gw-quarterly", "Subscription", "Recurring",
					testutil.RawPrice("GBP", "37.50"),
				),
				testutil.With(testutil.RawCharge("ch-gw-legacy", "Legacy", "Recurring",
					testutil.RawPrice("GBP", "5"),
				), map[string]any{"lastChangeType": "Remove"}),
			),
			testutil.With(testutil.RawRatePlan("rp-gw-old", "Old",
				testutil.RawCharge("ch-gw-old", "Subscription", "Recurring",
					testutil.RawPrice("GBP", "99"),
				),
			), map[string]any{"lastChangeType": "Remove"}),
		),
		testutil.RawProduct("prod-promo", "Promotions",
			testutil.RawRatePlan("rp-promo", "Launch",
				testutil.RawCharge("ch-promo", "Launch", "Recurring",
					testutil.RawPrice("GBP", "1"),
				),
			),
		),
	))

	s.service = NewCatalogService(ServiceParams{
		Logger: s.GetLogger(),
		Config: s.GetConfig(),
		Source: s.source,
	})
}

func (s *CatalogServiceSuite) TestCatalogIsBuiltOnce() {
	var wg conc.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Go(func() {
			price, err := s.service.GetPrice(s.ctx, "rp-gw-annual", types.CurrencyGBP)
			s.NoError(err)
			s.Equal("150", price.Amount.String())
		})
	}
	wg.Wait()
	s.Equal(1, s.source.Fetches())
}

func (s *CatalogServiceSuite) TestNothingIsFetchedUntilAsked() {
	s.Equal(0, s.source.Fetches())
	_, err := s.service.KeySchema(s.ctx)
	s.NoError(err)
	s.Equal(1, s.source.Fetches())
}

func (s *CatalogServiceSuite) TestFailedBuildIsRetried() {
	s.source.FailNext(errors.New("connection reset"))

	_, err := s.service.GetPrice(s.ctx, "rp-gw-annual", types.CurrencyGBP)
	s.Require().Error(err)
	s.True(ierr.IsFetch(err))

	price, err := s.service.GetPrice(s.ctx, "rp-gw-annual", types.CurrencyGBP)
	s.Require().NoError(err)
	s.Equal("150", price.Amount.String())
	s.Equal(2, s.source.Fetches())
}

func (s *CatalogServiceSuite) TestInvalidCatalogIsNotCached() {
	s.source.Put(types.StageCODE, []byte(`{"products":[{"id":"p1"}]}`))

	_, err := s.service.Catalog(s.ctx)
	s.Require().Error(err)
	s.True(ierr.IsValidation(err))

	s.source.Put(types.StageCODE, testutil.DigitalSubscriptionCatalog())
	c, err := s.service.Catalog(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, c.ProductCount())
}

func (s *CatalogServiceSuite) TestInvalidateRebuilds() {
	_, err := s.service.Catalog(s.ctx)
	s.Require().NoError(err)

	s.source.Put(types.StageCODE, testutil.DigitalSubscriptionCatalog())
	s.service.Invalidate(s.ctx)

	schema, err := s.service.KeySchema(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(schema.Products, 1)
	s.Equal("Digital Subscription", schema.Products[0].Key)
	s.Equal(2, s.source.Fetches())
}

func (s *CatalogServiceSuite) TestCallerTimeoutDoesNotAbortBuild() {
	release := s.source.Block()

	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Millisecond)
	defer cancel()
	_, err := s.service.Catalog(ctx)
	s.ErrorIs(err, context.DeadlineExceeded)

	release()
	c, err := s.service.Catalog(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, c.ProductCount())
	s.Equal(1, s.source.Fetches())
}

func (s *CatalogServiceSuite) TestErrorsAreDistinct() {
	_, err := s.service.GetPrice(s.ctx, "rp-gw-quarterly", types.CurrencyUSD)
	s.True(ierr.IsMissingCurrency(err))

	_, err = s.service.GetPrice(s.ctx, "rp-none", types.CurrencyGBP)
	s.True(ierr.IsUnknownRatePlan(err))

	price, err := s.service.GetChargePrice(s.ctx, "ch-gw-legacy", types.CurrencyGBP)
	s.Require().NoError(err)
	s.Equal("5", price.Amount.String())
}

func (s *CatalogServiceSuite) TestActivePricing() {
	prices, err := s.service.ActivePricing(s.ctx, "  Guardian Weekly", types.CurrencyGBP)
	s.Require().NoError(err)
	s.Require().Len(prices, 2)

	s.Equal("Annual", prices[0].RatePlanKey)
	s.Equal("150", prices[0].Price.Amount.String())
	s.Equal("Quarterly", prices[1].RatePlanKey)
	s.Equal("37.5", prices[1].Price.Amount.String(), "removed charge is left out")

	prices, err = s.service.ActivePricing(s.ctx, "Guardian Weekly", types.CurrencyUSD)
	s.Require().NoError(err)
	s.Require().Len(prices, 1)
	s.Equal("rp-gw-annual", prices[0].RatePlanID)

	prices, err = s.service.ActivePricing(s.ctx, "Promotions", types.CurrencyGBP)
	s.Require().NoError(err)
	s.Empty(prices)

	_, err = s.service.ActivePricing(s.ctx, "Nope", types.CurrencyGBP)
	s.True(ierr.IsNotFound(err))
}

func (s *CatalogServiceSuite) TestPriceLeavesOutRemovedCharges() {
	s.source.Put(types.StageCODE, testutil.RawCatalog(
		testutil.RawProduct("prod-gw", "Guardian Weekly",
			testutil.RawRatePlan("rp-gw", "Annual",
				testutil.RawCharge("ch-sub", "Sub", "Recurring",
					testutil.RawPrice("GBP", "150"),
					testutil.RawPrice("USD", "300"),
				),
				testutil.RawCharge("ch-del", "Delivery", "Recurring",
					testutil.RawPrice("GBP", "15"),
				),
				testutil.With(testutil.RawCharge("ch-old", "Old", "Recurring",
					testutil.RawPrice("GBP", "9"),
				), map[string]any{"lastChangeType": "Remove"}),
			),
		),
	))

	price, err := s.service.GetPrice(s.ctx, "rp-gw", types.CurrencyGBP)
	s.Require().NoError(err)
	s.Equal("165", price.Amount.String())

	_, err = s.service.GetPrice(s.ctx, "rp-gw", types.CurrencyUSD)
	s.True(ierr.IsMissingCurrency(err), "delivery is not priced in USD")

	prices, err := s.service.ActivePricing(s.ctx, "Guardian Weekly", types.CurrencyUSD)
	s.Require().NoError(err)
	s.Empty(prices)

	prices, err = s.service.ActivePricing(s.ctx, "Guardian Weekly", types.CurrencyGBP)
	s.Require().NoError(err)
	s.Require().Len(prices, 1)
	s.Equal("165", prices[0].Price.Amount.String())
}

func (s *CatalogServiceSuite) TestCatalogValueIsLabelled() {
	svc := s.service.(*catalogService)
	s.Equal("catalog CODE", svc.catalog.Label())
	s.Equal(lazy.StateEmpty, svc.catalog.State())
}
