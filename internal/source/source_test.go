package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/flexprice/productcatalog/internal/auth"
	"github.com/flexprice/productcatalog/internal/cache"
	"github.com/flexprice/productcatalog/internal/config"
	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/logger"
	"github.com/flexprice/productcatalog/internal/testutil"
	"github.com/flexprice/productcatalog/internal/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type fakeS3 struct {
	objects map[string][]byte
	keys    []string
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)
	f.keys = append(f.keys, key)
	data, ok := f.objects[key]
	if !ok {
		return nil, &s3types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{
		"catalogs/CODE/catalog.json": testutil.DigitalSubscriptionCatalog(),
		"catalogs/PROD/catalog.json": {},
	}}
	src := NewS3Source(client, config.S3Config{
		Bucket:      "catalogs",
		KeyTemplate: "{stage}/catalog.json",
	}, logger.NewNoopLogger())
	ctx := testutil.SetupContext()

	data, err := src.Fetch(ctx, types.StageCODE)
	require.NoError(t, err)
	assert.Equal(t, testutil.DigitalSubscriptionCatalog(), data)
	assert.Equal(t, []string{"catalogs/CODE/catalog.json"}, client.keys)

	_, err = src.Fetch(ctx, types.StagePROD)
	assert.True(t, ierr.IsFetch(err), "empty object is a fetch failure")

	delete(client.objects, "catalogs/PROD/catalog.json")
	_, err = src.Fetch(ctx, types.StagePROD)
	assert.True(t, ierr.IsFetch(err), "missing object is a fetch failure")
}

func TestFileSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/catalog/code.json", testutil.DigitalSubscriptionCatalog(), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/catalog/prod.json", nil, 0o644))
	src := NewFileSource(fs, "/catalog")
	ctx := testutil.SetupContext()

	data, err := src.Fetch(ctx, types.StageCODE)
	require.NoError(t, err)
	assert.Equal(t, testutil.DigitalSubscriptionCatalog(), data)

	_, err = src.Fetch(ctx, types.StagePROD)
	assert.True(t, ierr.IsFetch(err))

	require.NoError(t, fs.Remove("/catalog/prod.json"))
	_, err = src.Fetch(ctx, types.StagePROD)
	assert.True(t, ierr.IsFetch(err))
}

type countingTokens struct {
	issued      int
	invalidated int
}

func (c *countingTokens) Authorize(context.Context) (*auth.Descriptor, error) {
	c.issued++
	return &auth.Descriptor{
		BaseURL: "https://rest.vendor.test",
		Headers: map[string]string{"Authorization": "Bearer t"},
	}, nil
}

func (c *countingTokens) Reject(*auth.Descriptor) {
	c.invalidated++
}

func TestVendorSourceJoinsPages(t *testing.T) {
	client := testutil.NewMockHTTPClient()
	client.RegisterJSONResponse("/v1/catalog/products?pageSize=2",
		[]byte(`{"products":[{"id":"p1","name":"A"},{"id":"p2","name":"B"}],"nextPage":"abc","success":true}`))
	client.RegisterJSONResponse("/v1/catalog/products?page=abc&pageSize=2",
		[]byte(`{"products":[{"id":"p3","name":"C"}],"success":true}`))

	tokens := &countingTokens{}
	src := NewVendorSource(client, tokens, types.StageCODE, 2, logger.NewNoopLogger())

	data, err := src.Fetch(testutil.SetupContext(), types.StageCODE)
	require.NoError(t, err)
	assert.JSONEq(t, `{"products":[{"id":"p1","name":"A"},{"id":"p2","name":"B"},{"id":"p3","name":"C"}]}`, string(data))
	assert.Equal(t, 2, tokens.issued)

	for _, req := range client.Requests() {
		assert.Equal(t, "Bearer t", req.Headers["Authorization"])
	}
}

func TestVendorSourceRenewsRejectedToken(t *testing.T) {
	client := testutil.NewMockHTTPClient()
	client.RegisterResponses("/v1/catalog/products?pageSize=40",
		testutil.MockResponse{StatusCode: http.StatusUnauthorized},
		testutil.MockResponse{StatusCode: http.StatusOK, Body: []byte(`{"products":[]}`)},
	)
	tokens := &countingTokens{}
	src := NewVendorSource(client, tokens, types.StageCODE, 0, logger.NewNoopLogger())

	data, err := src.Fetch(testutil.SetupContext(), types.StageCODE)
	require.NoError(t, err)
	assert.Equal(t, 0, len(gjson.GetBytes(data, "products").Array()))
	assert.Equal(t, 1, tokens.invalidated)
	assert.Equal(t, 2, tokens.issued)
}

func TestVendorSourceFailures(t *testing.T) {
	ctx := testutil.SetupContext()

	client := testutil.NewMockHTTPClient()
	client.RegisterResponse("/v1/catalog/products?pageSize=40", testutil.MockResponse{StatusCode: http.StatusUnauthorized})
	tokens := &countingTokens{}
	src := NewVendorSource(client, tokens, types.StageCODE, 40, logger.NewNoopLogger())

	_, err := src.Fetch(ctx, types.StageCODE)
	assert.True(t, ierr.IsFetch(err), "a second 401 gives up")
	assert.Equal(t, 1, tokens.invalidated)

	_, err = src.Fetch(ctx, types.StagePROD)
	assert.True(t, ierr.IsFetch(err), "other stages are not served")

	client.Clear()
	client.RegisterJSONResponse("/v1/catalog/products?pageSize=40", []byte(`{"success":false}`))
	_, err = src.Fetch(ctx, types.StageCODE)
	assert.True(t, ierr.IsFetch(err))

	client.Clear()
	client.RegisterJSONResponse("/v1/catalog/products?pageSize=40", []byte(`{"products":[],"nextPage":"x"}`))
	client.RegisterJSONResponse("/v1/catalog/products?page=x&pageSize=40", []byte(`{"products":[],"nextPage":"x"}`))
	_, err = src.Fetch(ctx, types.StageCODE)
	assert.True(t, ierr.IsFetch(err), "looping pages are rejected")
}

func TestCachedSource(t *testing.T) {
	inner := testutil.NewInMemorySource()
	inner.Put(types.StageCODE, testutil.DigitalSubscriptionCatalog())
	src := NewCached(inner, cache.NewInMemoryCache(time.Minute), time.Minute)
	ctx := testutil.SetupContext()

	for i := 0; i < 3; i++ {
		_, err := src.Fetch(ctx, types.StageCODE)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, inner.Fetches())

	src.Invalidate(ctx, types.StageCODE)
	_, err := src.Fetch(ctx, types.StageCODE)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.Fetches())

	_, err = src.Fetch(ctx, types.StagePROD)
	assert.True(t, ierr.IsFetch(err))
	_, err = src.Fetch(ctx, types.StagePROD)
	assert.True(t, ierr.IsFetch(err))
	assert.Equal(t, 4, inner.Fetches(), "failures are not cached")
}

func TestRateLimitedSource(t *testing.T) {
	inner := testutil.NewInMemorySource()
	inner.Put(types.StageCODE, testutil.DigitalSubscriptionCatalog())
	src := NewRateLimited(inner, time.Hour)

	_, err := src.Fetch(testutil.SetupContext(), types.StageCODE)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = src.Fetch(ctx, types.StageCODE)
	assert.True(t, ierr.IsFetch(err))
	assert.Equal(t, 1, inner.Fetches())

	unlimited := NewRateLimited(inner, 0)
	for i := 0; i < 5; i++ {
		_, err := unlimited.Fetch(testutil.SetupContext(), types.StageCODE)
		require.NoError(t, err)
	}
}

func TestRetryingSource(t *testing.T) {
	inner := testutil.NewInMemorySource()
	inner.Put(types.StageCODE, testutil.DigitalSubscriptionCatalog())
	inner.FailNext(errors.New("timeout"), errors.New("timeout"))

	src := NewRetrying(inner, 3, logger.NewNoopLogger())
	src.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3)
	}

	data, err := src.Fetch(testutil.SetupContext(), types.StageCODE)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, 3, inner.Fetches())

	inner.FailNext(errors.New("a"), errors.New("b"), errors.New("c"), errors.New("d"))
	_, err = src.Fetch(testutil.SetupContext(), types.StageCODE)
	assert.True(t, ierr.IsFetch(err))
}

func TestNewBaseFileSource(t *testing.T) {
	cfg := config.GetDefaultConfig()
	src, err := NewFromConfig(context.Background(), cfg, logger.NewNoopLogger())
	require.NoError(t, err)
	assert.IsType(t, &Cached{}, src)

	cfg.Catalog.Source = "ftp"
	_, err = NewBase(context.Background(), cfg, logger.NewNoopLogger())
	assert.True(t, ierr.IsValidation(err))
}
