package auth

import (
	"context"
	"time"
)

// Descriptor is what an authenticated call to the billing provider needs:
// the API root and the headers to send with every request.
type Descriptor struct {
	BaseURL string
	Headers map[string]string
	// IssuedAt and ExpiresAt bound the token's lifetime, zero if unknown
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the descriptor is past its expiry, with skew subtracted
func (d *Descriptor) Expired(now time.Time, skew time.Duration) bool {
	if d == nil {
		return true
	}
	if d.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(d.ExpiresAt.Add(-skew))
}

// Lifetime is how long the token was issued for, zero if unknown
func (d *Descriptor) Lifetime() time.Duration {
	if d == nil || d.IssuedAt.IsZero() || d.ExpiresAt.IsZero() {
		return 0
	}
	return d.ExpiresAt.Sub(d.IssuedAt)
}

// Provider hands out descriptors for calling the billing provider
type Provider interface {
	Authorize(ctx context.Context) (*Descriptor, error)
}
