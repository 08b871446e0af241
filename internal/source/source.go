// Package source fetches raw catalog bytes for a stage from wherever the
// billing provider's export lives. Every failure is marked ierr.ErrFetch.
package source

import (
	"context"

	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/types"
)

// Source returns the raw catalog document for a stage
type Source interface {
	Fetch(ctx context.Context, stage types.Stage) ([]byte, error)
}

// Func adapts a plain function to Source
type Func func(ctx context.Context, stage types.Stage) ([]byte, error)

func (f Func) Fetch(ctx context.Context, stage types.Stage) ([]byte, error) {
	return f(ctx, stage)
}

func fetchError(err error, stage types.Stage, hint string) error {
	if ierr.IsFetch(err) {
		return err
	}
	return ierr.WithError(err).
		WithHint(hint).
		WithReportableDetails(map[string]any{
			"stage": stage,
		}).
		Mark(ierr.ErrFetch)
}

func emptyCatalogError(stage types.Stage, where string) error {
	return ierr.NewErrorf("catalog for stage %s at %s is empty", stage, where).
		WithHint("Catalog not found or empty").
		WithReportableDetails(map[string]any{
			"stage":    stage,
			"location": where,
		}).
		Mark(ierr.ErrFetch)
}
