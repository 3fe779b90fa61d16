// Package hydration batch-loads the state needed to render views:
// actor records, viewer relationship state, and aggregates.
package hydration

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/skylark-social/skylark/internal/concurrency"
	"github.com/skylark-social/skylark/pkg/graph"
	"github.com/skylark-social/skylark/pkg/identity"
	"github.com/skylark-social/skylark/pkg/storage"
)

var tracer = otel.Tracer("skylark/pkg/hydration")

// Context carries per-request hydration inputs. It is immutable;
// derive variants with the With* methods.
type Context struct {
	ViewerDID        string
	Labelers         []string
	IncludeTakedowns bool
}

// WithIncludeTakedowns derives a copy with takedown visibility set.
func (c Context) WithIncludeTakedowns(include bool) Context {
	c.IncludeTakedowns = include
	return c
}

// Map distinguishes three outcomes per key: a populated value, a nil
// entry (the entity exists but is hidden from this view), and an
// absent key (unknown). Callers that render ordered lists rely on the
// nil state to drop a slot rather than reorder around it.
type Map[T any] map[string]*T

// Get returns the value and whether the key is present at all.
func (m Map[T]) Get(key string) (*T, bool) {
	v, ok := m[key]
	return v, ok
}

// Visible reports whether the key maps to a populated value.
func (m Map[T]) Visible(key string) bool {
	v, ok := m[key]
	return ok && v != nil
}

// Actor is a hydrated account record. ProfileCID is empty when the
// profile sub-record is hidden, independently of the account itself.
type Actor struct {
	DID              string
	Handle           string
	Kind             storage.ActorKind
	CreatedAt        time.Time
	TakenDown        bool
	ProfileCID       string
	ProfileIndexedAt time.Time
}

// ActorDatastore is the slice of the storage contract the actor
// hydrator reads from.
type ActorDatastore interface {
	GetActors(ctx context.Context, dids []string) (map[string]storage.ActorRecord, error)
	GetDIDsByHandles(ctx context.Context, handles []string) (map[string]string, error)
	GetActorAggregates(ctx context.Context, dids []string) (map[string]storage.ActorAggregates, error)
	GetRepoRev(ctx context.Context, did string) (string, error)
}

// ActorHydrator batch-loads actor state.
type ActorHydrator struct {
	store    ActorDatastore
	resolver *graph.Resolver
}

func NewActorHydrator(store ActorDatastore, resolver *graph.Resolver) *ActorHydrator {
	return &ActorHydrator{store: store, resolver: resolver}
}

// GetDIDs resolves a mixed batch of handles and DIDs to DIDs,
// order-preserving. Unresolvable identifiers map to the empty string.
func (h *ActorHydrator) GetDIDs(ctx context.Context, identifiers []string) ([]string, error) {
	handles, _ := identity.SplitHandlesAndDIDs(identifiers)

	var byHandle map[string]string
	if len(handles) > 0 {
		var err error
		byHandle, err = h.store.GetDIDsByHandles(ctx, handles)
		if err != nil {
			return nil, err
		}
	}

	out := make([]string, len(identifiers))
	for i, id := range identifiers {
		if identity.IsDID(id) {
			out[i] = id
			continue
		}
		out[i] = byHandle[id]
	}
	return out, nil
}

// GetActors loads actor records and applies suppression policy: a
// taken-down account (unless takedowns are included) or a tombstoned
// account maps to nil; an unknown DID is absent from the result.
func (h *ActorHydrator) GetActors(ctx context.Context, dids []string, hctx Context) (Map[Actor], error) {
	ctx, span := tracer.Start(ctx, "GetActors")
	defer span.End()

	if len(dids) == 0 {
		return Map[Actor]{}, nil
	}
	records, err := h.store.GetActors(ctx, dids)
	if err != nil {
		return nil, err
	}

	out := make(Map[Actor], len(records))
	for did, rec := range records {
		if rec.TombstonedAt != nil {
			out[did] = nil
			continue
		}
		if rec.TakenDown() && !hctx.IncludeTakedowns {
			out[did] = nil
			continue
		}
		actor := &Actor{
			DID:       rec.DID,
			Handle:    rec.Handle,
			Kind:      rec.Kind,
			CreatedAt: rec.CreatedAt,
			TakenDown: rec.TakenDown(),
		}
		// The profile record carries its own takedown ref, checked
		// independently of the account-level one.
		if rec.ProfileTakedownRef == "" || hctx.IncludeTakedowns {
			actor.ProfileCID = rec.ProfileCID
			if rec.ProfileIndexedAt != nil {
				actor.ProfileIndexedAt = *rec.ProfileIndexedAt
			}
		}
		out[did] = actor
	}
	return out, nil
}

// GetProfileViewerStates loads the viewer's relationship to each DID.
// With no viewer the result is empty; self entries are neutral.
func (h *ActorHydrator) GetProfileViewerStates(ctx context.Context, dids []string, hctx Context) (Map[graph.Relationship], error) {
	if hctx.ViewerDID == "" || len(dids) == 0 {
		return Map[graph.Relationship]{}, nil
	}
	rels, err := h.resolver.GetRelationships(ctx, hctx.ViewerDID, dids)
	if err != nil {
		return nil, err
	}
	out := make(Map[graph.Relationship], len(rels))
	for i := range rels {
		rel := rels[i]
		out[rel.DID] = &rel
	}
	return out, nil
}

// GetProfileAggregates loads follower/follow/post counts per DID.
// DIDs without an aggregate row are absent from the result.
func (h *ActorHydrator) GetProfileAggregates(ctx context.Context, dids []string) (Map[storage.ActorAggregates], error) {
	if len(dids) == 0 {
		return Map[storage.ActorAggregates]{}, nil
	}
	aggs, err := h.store.GetActorAggregates(ctx, dids)
	if err != nil {
		return nil, err
	}
	out := make(Map[storage.ActorAggregates], len(aggs))
	for did, a := range aggs {
		a := a
		out[did] = &a
	}
	return out, nil
}

// GetRepoRevSafe returns the indexed repo revision for a DID, or the
// empty string when unknown or on storage failure. Revisions feed a
// response header only, so a miss must not fail the request.
func (h *ActorHydrator) GetRepoRevSafe(ctx context.Context, did string) string {
	if did == "" {
		return ""
	}
	rev, err := h.store.GetRepoRev(ctx, did)
	if err != nil {
		return ""
	}
	return rev
}

// State is everything the presentation stage needs for profile views.
type State struct {
	Actors       Map[Actor]
	ViewerStates Map[graph.Relationship]
	Aggregates   Map[storage.ActorAggregates]
}

// Hydrator composes the per-kind hydrators.
type Hydrator struct {
	Actor *ActorHydrator
}

func NewHydrator(store ActorDatastore, resolver *graph.Resolver) *Hydrator {
	return &Hydrator{Actor: NewActorHydrator(store, resolver)}
}

// HydrateProfiles fans out the independent lookups for a batch of DIDs
// and joins them. The lookups share no results with each other, so
// they run concurrently.
func (h *Hydrator) HydrateProfiles(ctx context.Context, dids []string, hctx Context) (State, error) {
	ctx, span := tracer.Start(ctx, "HydrateProfiles")
	defer span.End()

	var state State
	pool := concurrency.NewPool(ctx, 3)
	pool.Go(func(ctx context.Context) error {
		var err error
		state.Actors, err = h.Actor.GetActors(ctx, dids, hctx)
		return err
	})
	pool.Go(func(ctx context.Context) error {
		var err error
		state.ViewerStates, err = h.Actor.GetProfileViewerStates(ctx, dids, hctx)
		return err
	})
	pool.Go(func(ctx context.Context) error {
		var err error
		state.Aggregates, err = h.Actor.GetProfileAggregates(ctx, dids)
		return err
	})
	if err := pool.Wait(); err != nil {
		return State{}, err
	}
	return state, nil
}
