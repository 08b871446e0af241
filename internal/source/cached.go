package source

import (
	"context"
	"time"

	"github.com/flexprice/productcatalog/internal/cache"
	"github.com/flexprice/productcatalog/internal/types"
)

// Cached keeps fetched bytes per stage for ttl so a rebuilt catalog does not
// always mean another download
type Cached struct {
	next  Source
	cache cache.Cache
	ttl   time.Duration
}

func NewCached(next Source, c cache.Cache, ttl time.Duration) *Cached {
	return &Cached{next: next, cache: c, ttl: ttl}
}

func (s *Cached) Fetch(ctx context.Context, stage types.Stage) ([]byte, error) {
	key := cache.GenerateKey(cache.PrefixRawCatalog, stage)
	if v, found := s.cache.Get(ctx, key); found {
		if data, ok := v.([]byte); ok {
			return data, nil
		}
	}

	data, err := s.next.Fetch(ctx, stage)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, data, s.ttl)
	return data, nil
}

// Invalidate forgets the bytes stored for stage
func (s *Cached) Invalidate(ctx context.Context, stage types.Stage) {
	s.cache.Delete(ctx, cache.GenerateKey(cache.PrefixRawCatalog, stage))
}
