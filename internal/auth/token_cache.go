package auth

import (
	"context"
	"time"

	"github.com/flexprice/productcatalog/internal/lazy"
	"github.com/flexprice/productcatalog/internal/logger"
)

// expirySkew renews a token this long before the provider would reject it.
// Short lived tokens renew after three quarters of their lifetime instead.
const expirySkew = 30 * time.Second

// TokenCache memoizes the descriptor of a Provider. Concurrent callers share
// one token request and a failed request is retried on the next call.
type TokenCache struct {
	value *lazy.Value[*Descriptor]
	now   func() time.Time
}

func NewTokenCache(provider Provider, log *logger.Logger) *TokenCache {
	return &TokenCache{
		value: lazy.New(provider.Authorize, lazy.WithLabel("vendor access token", log)),
		now:   time.Now,
	}
}

// Authorize returns the cached descriptor, fetching a new one when there is
// none or the cached token is about to expire
func (c *TokenCache) Authorize(ctx context.Context) (*Descriptor, error) {
	desc, err := c.value.Get(ctx)
	if err != nil {
		return nil, err
	}
	if desc.Expired(c.now(), skewFor(desc)) {
		c.Reject(desc)
		return c.value.Get(ctx)
	}
	return desc, nil
}

// Reject drops desc if it is still the cached descriptor, ex after the
// provider answered 401 to a request made with it. A newer descriptor cached
// by another caller is kept.
func (c *TokenCache) Reject(desc *Descriptor) {
	c.value.InvalidateIf(func(cached *Descriptor) bool { return cached == desc })
}

// Invalidate drops whatever token is cached
func (c *TokenCache) Invalidate() {
	c.value.Invalidate()
}

func skewFor(desc *Descriptor) time.Duration {
	if lifetime := desc.Lifetime(); lifetime > 0 && lifetime/4 < expirySkew {
		return lifetime / 4
	}
	return expirySkew
}
