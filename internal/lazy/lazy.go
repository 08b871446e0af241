// Package lazy provides a memoizing value that runs an expensive producer on
// first demand, shares one in-flight run between concurrent callers and
// forgets failures so the next demand retries.
package lazy

import (
	"context"
	"sync"

	ierr "github.com/flexprice/productcatalog/internal/errors"
	"golang.org/x/sync/singleflight"
)

// State is the observable lifecycle of a Value
type State string

const (
	StateEmpty    State = "empty"
	StatePending  State = "pending"
	StateResolved State = "resolved"
	StateFailed   State = "failed"
)

// Producer computes the value. It receives the context of the caller that
// started the resolution with cancellation detached.
type Producer[T any] func(ctx context.Context) (T, error)

const flightKey = "resolve"

// Value holds at most one of: nothing yet, a pending or completed result,
// the last failure. The zero value is not usable, create one with New.
type Value[T any] struct {
	producer Producer[T]
	opts     options

	flight singleflight.Group

	mu       sync.RWMutex
	state    State
	value    T
	lastErr  error
	attempts int
}

// New wraps producer. Nothing runs until the first Get.
func New[T any](producer Producer[T], opts ...Option) *Value[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Value[T]{
		producer: producer,
		opts:     o,
		state:    StateEmpty,
	}
}

// Get returns the resolved value, running the producer if there is none.
// Callers arriving while a run is pending wait for that run instead of
// starting another. A failed run is reported to every caller that waited on
// it and then forgotten. ctx only bounds how long this caller waits.
func (v *Value[T]) Get(ctx context.Context) (T, error) {
	if value, ok := v.cached(); ok {
		return value, nil
	}

	ch := v.flight.DoChan(flightKey, func() (interface{}, error) {
		return v.resolve(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		value, _ := res.Val.(T)
		return value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Invalidate drops a resolved value so the next Get rebuilds it from scratch.
// A run already in flight is not affected.
func (v *Value[T]) Invalidate() {
	v.InvalidateIf(func(T) bool { return true })
}

// InvalidateIf drops the resolved value only when match accepts it. Callers
// holding a value they found stale pass a match on that value so a newer one
// resolved in the meantime survives.
func (v *Value[T]) InvalidateIf(match func(T) bool) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != StateResolved || !match(v.value) {
		return false
	}
	var zero T
	v.value = zero
	v.state = StateEmpty
	if v.opts.label != "" {
		v.opts.log.Infow("lazy value invalidated", "label", v.opts.label)
	}
	return true
}

// State reports the current lifecycle state
func (v *Value[T]) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// LastError returns the error of the most recent failed run, nil after a success
func (v *Value[T]) LastError() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastErr
}

// Label returns the diagnostic label, empty when none was set
func (v *Value[T]) Label() string {
	return v.opts.label
}

func (v *Value[T]) cached() (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.state == StateResolved {
		return v.value, true
	}
	var zero T
	return zero, false
}

// resolve runs inside the single flight so at most one producer call is
// outstanding per Value.
func (v *Value[T]) resolve(ctx context.Context) (T, error) {
	v.mu.Lock()
	// a caller that missed the cache may enter a new flight right after the
	// previous one resolved
	if v.state == StateResolved {
		value := v.value
		v.mu.Unlock()
		return value, nil
	}
	retrying := v.state == StateFailed
	v.state = StatePending
	v.attempts++
	attempt := v.attempts
	v.mu.Unlock()

	if v.opts.label != "" {
		if retrying {
			v.opts.log.Infow("re-initialising lazy value after failure",
				"label", v.opts.label,
				"attempt", attempt,
			)
		} else {
			v.opts.log.Infow("initialising lazy value",
				"label", v.opts.label,
				"attempt", attempt,
			)
		}
	}

	value, err := v.produce(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		var zero T
		v.value = zero
		v.lastErr = err
		v.state = StateFailed
		if v.opts.label != "" {
			v.opts.log.Warnw("lazy value failed, next access will re-initialise",
				"label", v.opts.label,
				"attempt", attempt,
				"error", err,
			)
		}
		return zero, err
	}

	v.value = value
	v.lastErr = nil
	v.state = StateResolved
	return value, nil
}

// produce turns a producer panic into a failed run so the flight completes
// and the next Get retries
func (v *Value[T]) produce(ctx context.Context) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = ierr.NewErrorf("lazy value producer panicked: %v", r).
				WithHint("An internal error occurred while loading data").
				Mark(ierr.ErrSystem)
		}
	}()
	return v.producer(ctx)
}

// Then derives a Value whose producer resolves v and applies f to the result.
// Neither v nor f runs until the derived Value is asked for.
func Then[T, U any](v *Value[T], f func(ctx context.Context, value T) (U, error), opts ...Option) *Value[U] {
	return New(func(ctx context.Context) (U, error) {
		value, err := v.Get(ctx)
		if err != nil {
			var zero U
			return zero, err
		}
		return f(ctx, value)
	}, opts...)
}
