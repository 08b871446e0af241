package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/types"
)

// InMemorySource serves raw catalog bytes per stage and counts fetches.
// Queued failures are returned before the stored catalog.
type InMemorySource struct {
	mu       sync.Mutex
	catalogs map[types.Stage][]byte
	failures []error
	fetches  atomic.Int32
	gate     chan struct{}
}

func NewInMemorySource() *InMemorySource {
	return &InMemorySource{catalogs: make(map[types.Stage][]byte)}
}

// Put stores the raw catalog for stage
func (s *InMemorySource) Put(stage types.Stage, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogs[stage] = data
}

// FailNext queues errors returned by the next fetches, one per fetch
func (s *InMemorySource) FailNext(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, errs...)
}

// Block makes fetches wait until the returned release func is called
func (s *InMemorySource) Block() (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan struct{})
	s.gate = gate
	return func() { close(gate) }
}

// Fetches returns how many times Fetch ran
func (s *InMemorySource) Fetches() int {
	return int(s.fetches.Load())
}

func (s *InMemorySource) Fetch(ctx context.Context, stage types.Stage) ([]byte, error) {
	s.fetches.Add(1)

	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.failures) > 0 {
		err := s.failures[0]
		s.failures = s.failures[1:]
		return nil, ierr.WithError(err).
			WithHint("Failed to fetch the catalog").
			Mark(ierr.ErrFetch)
	}

	data, ok := s.catalogs[stage]
	if !ok || len(data) == 0 {
		return nil, ierr.NewErrorf("no catalog stored for stage %s", stage).
			WithHint("Catalog not found or empty").
			Mark(ierr.ErrFetch)
	}
	return data, nil
}
