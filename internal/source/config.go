package source

import (
	"context"

	"github.com/flexprice/productcatalog/internal/auth"
	"github.com/flexprice/productcatalog/internal/cache"
	"github.com/flexprice/productcatalog/internal/config"
	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/httpclient"
	"github.com/flexprice/productcatalog/internal/logger"
	"github.com/flexprice/productcatalog/internal/types"
	"github.com/spf13/afero"
)

// NewFromConfig builds the configured source wrapped in the rate limiter and
// the per stage byte cache
func NewFromConfig(ctx context.Context, cfg *config.Configuration, log *logger.Logger) (Source, error) {
	base, err := NewBase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var src Source = NewRateLimited(base, cfg.Catalog.MinFetchInterval)
	if cfg.Catalog.CacheTTL > 0 {
		src = NewCached(src, cache.NewInMemoryCache(cfg.Catalog.CacheTTL), cfg.Catalog.CacheTTL)
	}
	return src, nil
}

// NewBase builds the undecorated source named by catalog.source
func NewBase(ctx context.Context, cfg *config.Configuration, log *logger.Logger) (Source, error) {
	log = log.Named("source").With("kind", cfg.Catalog.Source)

	switch cfg.Catalog.Source {
	case types.SourceKindS3:
		awsCfg, err := config.LoadAwsConfig(ctx, cfg.S3.Region)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to load aws config").
				Mark(ierr.ErrHTTPClient)
		}
		client, err := config.NewS3Client(ctx, awsCfg)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to create s3 client").
				Mark(ierr.ErrHTTPClient)
		}
		return NewS3Source(client, cfg.S3, log), nil

	case types.SourceKindFile:
		return NewFileSource(afero.NewOsFs(), cfg.File.Dir), nil

	case types.SourceKindAPI:
		client := httpclient.NewClient(httpclient.ClientConfig{
			Timeout:  cfg.Vendor.Timeout,
			RetryMax: 3,
		}, log)
		provider := auth.NewClientCredentialsProvider(cfg.Vendor, client, log)
		tokens := auth.NewTokenCache(provider, log)
		return NewVendorSource(client, tokens, cfg.Deployment.Stage, cfg.Vendor.PageSize, log), nil
	}

	return nil, ierr.NewErrorf("unknown catalog source %q", cfg.Catalog.Source).
		WithHint("catalog.source must be one of s3, file or api").
		Mark(ierr.ErrValidation)
}
