// Package pipeline is the uniform request executor: skeleton resolves
// which entities matter, hydration batch-fetches state, rules applies
// visibility policy, presentation maps to the output shape.
package pipeline

import (
	"context"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("skylark/pkg/pipeline")

// SkeletonFunc resolves the subject identifiers for a request.
type SkeletonFunc[P, S any] func(ctx context.Context, params P) (S, error)

// HydrationFunc batch-fetches everything presentation will need. It is
// the only stage allowed to hit storage.
type HydrationFunc[P, S, H any] func(ctx context.Context, params P, skeleton S) (H, error)

// RulesFunc filters or annotates the hydrated state. It must not fetch.
type RulesFunc[P, S, H any] func(ctx context.Context, params P, skeleton S, hydrated H) (H, error)

// PresentationFunc is a pure mapping from hydrated state to the view.
type PresentationFunc[P, S, H, V any] func(ctx context.Context, params P, skeleton S, hydrated H) (V, error)

// Pipeline runs the four stages in order. The first failing stage
// aborts the run; no partial result is returned.
type Pipeline[P, S, H, V any] struct {
	skeleton     SkeletonFunc[P, S]
	hydration    HydrationFunc[P, S, H]
	rules        RulesFunc[P, S, H]
	presentation PresentationFunc[P, S, H, V]
}

func New[P, S, H, V any](
	skeleton SkeletonFunc[P, S],
	hydration HydrationFunc[P, S, H],
	rules RulesFunc[P, S, H],
	presentation PresentationFunc[P, S, H, V],
) *Pipeline[P, S, H, V] {
	return &Pipeline[P, S, H, V]{
		skeleton:     skeleton,
		hydration:    hydration,
		rules:        rules,
		presentation: presentation,
	}
}

func (p *Pipeline[P, S, H, V]) Run(ctx context.Context, params P) (V, error) {
	ctx, span := tracer.Start(ctx, "pipeline.Run")
	defer span.End()

	var zero V

	skeleton, err := p.skeleton(ctx, params)
	if err != nil {
		return zero, err
	}
	hydrated, err := p.hydration(ctx, params, skeleton)
	if err != nil {
		return zero, err
	}
	hydrated, err = p.rules(ctx, params, skeleton, hydrated)
	if err != nil {
		return zero, err
	}
	return p.presentation(ctx, params, skeleton, hydrated)
}

// NoRules is the identity rules stage for endpoints with nothing to
// filter.
func NoRules[P, S, H any]() RulesFunc[P, S, H] {
	return func(_ context.Context, _ P, _ S, hydrated H) (H, error) {
		return hydrated, nil
	}
}
