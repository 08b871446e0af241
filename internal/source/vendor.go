package source

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/flexprice/productcatalog/internal/auth"
	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/httpclient"
	"github.com/flexprice/productcatalog/internal/logger"
	"github.com/flexprice/productcatalog/internal/types"
	"github.com/tidwall/gjson"
)

const (
	productsPath = "/v1/catalog/products"
	maxPages     = 500
)

// TokenSource is an auth.Provider whose cached token can be rejected
type TokenSource interface {
	auth.Provider
	Reject(desc *auth.Descriptor)
}

// VendorSource pages through the billing provider's catalog API and joins
// the pages into one raw catalog document. It serves the stage whose tenant
// the credentials belong to.
type VendorSource struct {
	client   httpclient.Client
	tokens   TokenSource
	stage    types.Stage
	pageSize int
	log      *logger.Logger
}

func NewVendorSource(client httpclient.Client, tokens TokenSource, stage types.Stage, pageSize int, log *logger.Logger) *VendorSource {
	if pageSize <= 0 {
		pageSize = 40
	}
	return &VendorSource{
		client:   client,
		tokens:   tokens,
		stage:    stage,
		pageSize: pageSize,
		log:      log,
	}
}

func (s *VendorSource) Fetch(ctx context.Context, stage types.Stage) ([]byte, error) {
	if stage != s.stage {
		return nil, ierr.NewErrorf("vendor source serves %s, not %s", s.stage, stage).
			WithHintf("The billing provider credentials only cover the %s catalog", s.stage).
			Mark(ierr.ErrFetch)
	}

	var (
		products [][]byte
		page     string
		seen     = make(map[string]struct{})
	)
	for n := 0; n < maxPages; n++ {
		body, err := s.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		result := gjson.ParseBytes(body)
		if !result.Get("products").IsArray() {
			return nil, ierr.NewErrorf("catalog page %d has no products array", n).
				WithHint("The billing provider returned an unexpected catalog page").
				Mark(ierr.ErrFetch)
		}
		result.Get("products").ForEach(func(_, product gjson.Result) bool {
			products = append(products, []byte(product.Raw))
			return true
		})

		page = result.Get("nextPage").String()
		if page == "" {
			return s.join(products, n+1), nil
		}
		if _, loop := seen[page]; loop {
			return nil, ierr.NewErrorf("catalog page %s was returned twice", page).
				WithHint("The billing provider's paging did not terminate").
				Mark(ierr.ErrFetch)
		}
		seen[page] = struct{}{}
	}

	return nil, ierr.NewErrorf("catalog has more than %d pages", maxPages).
		WithHint("The billing provider's paging did not terminate").
		Mark(ierr.ErrFetch)
}

// fetchPage requests one page, renewing the token once if it was rejected
func (s *VendorSource) fetchPage(ctx context.Context, page string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		desc, err := s.tokens.Authorize(ctx)
		if err != nil {
			return nil, fetchError(err, s.stage, "Failed to authorize with the billing provider")
		}

		query := url.Values{}
		query.Set("pageSize", strconv.Itoa(s.pageSize))
		if page != "" {
			query.Set("page", page)
		}

		resp, err := s.client.Send(ctx, &httpclient.Request{
			Method:  http.MethodGet,
			URL:     desc.BaseURL + productsPath + "?" + query.Encode(),
			Headers: desc.Headers,
		})
		if err == nil {
			return resp.Body, nil
		}
		if httpclient.IsUnauthorized(err) && attempt == 0 {
			s.log.Infow("catalog request unauthorized, renewing token", "stage", s.stage)
			s.tokens.Reject(desc)
			continue
		}
		return nil, fetchError(err, s.stage, "Failed to fetch the catalog from the billing provider")
	}
}

func (s *VendorSource) join(products [][]byte, pages int) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"products":[`)
	buf.Write(bytes.Join(products, []byte{','}))
	buf.WriteString(`]}`)

	s.log.Debugw("fetched catalog from billing provider",
		"stage", s.stage,
		"pages", pages,
		"products", len(products),
	)
	return buf.Bytes()
}
