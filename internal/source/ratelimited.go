package source

import (
	"context"
	"time"

	"github.com/flexprice/productcatalog/internal/types"
	"golang.org/x/time/rate"
)

// RateLimited spaces fetches at least interval apart. The lazy catalog
// retries on every demand after a failure; this keeps a failing upstream
// from being hammered.
type RateLimited struct {
	next    Source
	limiter *rate.Limiter
}

func NewRateLimited(next Source, interval time.Duration) *RateLimited {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (s *RateLimited) Fetch(ctx context.Context, stage types.Stage) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fetchError(err, stage, "Catalog fetch was throttled")
	}
	return s.next.Fetch(ctx, stage)
}
