package source

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/flexprice/productcatalog/internal/logger"
	"github.com/flexprice/productcatalog/internal/types"
)

// Retrying retries failed fetches with exponential backoff. It is meant for
// one-shot tools; long running processes rely on the lazy catalog retrying
// on the next demand instead.
type Retrying struct {
	next       Source
	newBackOff func() backoff.BackOff
	log        *logger.Logger
}

func NewRetrying(next Source, maxRetries uint64, log *logger.Logger) *Retrying {
	return &Retrying{
		next: next,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxElapsedTime = 2 * time.Minute
			return backoff.WithMaxRetries(b, maxRetries)
		},
		log: log,
	}
}

func (s *Retrying) Fetch(ctx context.Context, stage types.Stage) ([]byte, error) {
	var data []byte
	operation := func() error {
		var err error
		data, err = s.next.Fetch(ctx, stage)
		return err
	}
	notify := func(err error, wait time.Duration) {
		s.log.Warnw("catalog fetch failed, retrying",
			"stage", stage,
			"error", err,
			"wait", wait,
		)
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(s.newBackOff(), ctx), notify); err != nil {
		return nil, fetchError(err, stage, "Failed to fetch the catalog")
	}
	return data, nil
}
