// Package graph computes pairwise social-graph state (blocks, mutes,
// follows, both direct and through curated lists) in batch.
package graph

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/skylark-social/skylark/internal/concurrency"
	"github.com/skylark-social/skylark/pkg/storage"
)

var tracer = otel.Tracer("skylark/pkg/graph")

// Datastore is the slice of the storage contract the resolver needs.
type Datastore interface {
	storage.GraphReader

	GetActorAggregates(ctx context.Context, dids []string) (map[string]storage.ActorAggregates, error)
}

// Relationship is the state between a viewer and one target, from the
// viewer's perspective. String fields hold the URI of the record that
// established the state and are empty when the state does not hold.
type Relationship struct {
	DID            string
	Muted          bool
	MutedByList    string
	BlockedBy      bool
	Blocking       string
	BlockedByList  string
	BlockingByList string
	Following      string
	FollowedBy     string
}

// Blocked reports whether any block exists between the two actors, in
// either direction, direct or through a list.
func (r Relationship) Blocked() bool {
	return r.BlockedBy || r.Blocking != "" || r.BlockedByList != "" || r.BlockingByList != ""
}

// Pair is an unordered pair of DIDs for block-existence checks.
type Pair struct {
	A string
	B string
}

func (p Pair) canonical() Pair {
	if p.B < p.A {
		return Pair{A: p.B, B: p.A}
	}
	return p
}

// Resolver answers batch relationship queries with a fixed number of
// storage round trips per relationship kind, independent of batch size.
type Resolver struct {
	store Datastore
}

func NewResolver(store Datastore) *Resolver {
	return &Resolver{store: store}
}

// GetRelationships returns one entry per target, in input order.
// Unknown targets and self-pairs resolve to the neutral state.
func (r *Resolver) GetRelationships(ctx context.Context, viewer string, targets []string) ([]Relationship, error) {
	ctx, span := tracer.Start(ctx, "GetRelationships")
	defer span.End()

	out := make([]Relationship, len(targets))
	for i, t := range targets {
		out[i] = Relationship{DID: t}
	}
	if viewer == "" || len(targets) == 0 {
		return out, nil
	}

	others := distinctExcluding(targets, viewer)
	if len(others) == 0 {
		return out, nil
	}

	var (
		follows      []storage.EdgeRecord
		followedBys  []storage.EdgeRecord
		blocks       []storage.EdgeRecord
		blockedBys   []storage.EdgeRecord
		mutes        []storage.EdgeRecord
		muteLists    []storage.ListIndirectionRow
		blockLists   []storage.ListIndirectionRow
		blockedLists []storage.ListIndirectionRow
	)

	pool := concurrency.NewPool(ctx, 8)
	pool.Go(func(ctx context.Context) error {
		var err error
		follows, err = r.store.ReadEdges(ctx, storage.EdgeFollow, []string{viewer}, others)
		return err
	})
	pool.Go(func(ctx context.Context) error {
		var err error
		followedBys, err = r.store.ReadEdges(ctx, storage.EdgeFollow, others, []string{viewer})
		return err
	})
	pool.Go(func(ctx context.Context) error {
		var err error
		blocks, err = r.store.ReadEdges(ctx, storage.EdgeBlock, []string{viewer}, others)
		return err
	})
	pool.Go(func(ctx context.Context) error {
		var err error
		blockedBys, err = r.store.ReadEdges(ctx, storage.EdgeBlock, others, []string{viewer})
		return err
	})
	pool.Go(func(ctx context.Context) error {
		var err error
		mutes, err = r.store.ReadEdges(ctx, storage.EdgeMute, []string{viewer}, others)
		return err
	})
	pool.Go(func(ctx context.Context) error {
		var err error
		muteLists, err = r.store.ReadListIndirection(ctx, storage.EdgeListMute, []string{viewer}, others)
		return err
	})
	pool.Go(func(ctx context.Context) error {
		var err error
		blockLists, err = r.store.ReadListIndirection(ctx, storage.EdgeListBlock, []string{viewer}, others)
		return err
	})
	pool.Go(func(ctx context.Context) error {
		var err error
		blockedLists, err = r.store.ReadListIndirection(ctx, storage.EdgeListBlock, others, []string{viewer})
		return err
	})
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	followURI := uriBySubject(follows)
	followedByURI := uriByCreator(followedBys)
	blockURI := uriBySubject(blocks)
	blockedBySet := make(map[string]bool, len(blockedBys))
	for _, e := range blockedBys {
		blockedBySet[e.Creator] = true
	}
	mutedSet := make(map[string]bool, len(mutes))
	for _, e := range mutes {
		mutedSet[e.Subject] = true
	}
	muteListURI := firstListBySubject(muteLists)
	blockListURI := firstListBySubject(blockLists)
	blockedListURI := firstListByCreator(blockedLists)

	for i, t := range targets {
		if t == viewer {
			continue
		}
		out[i] = Relationship{
			DID:            t,
			Muted:          mutedSet[t] || muteListURI[t] != "",
			MutedByList:    muteListURI[t],
			BlockedBy:      blockedBySet[t],
			Blocking:       blockURI[t],
			BlockedByList:  blockedListURI[t],
			BlockingByList: blockListURI[t],
			Following:      followURI[t],
			FollowedBy:     followedByURI[t],
		}
	}
	return out, nil
}

// GetBlockExistence reports, for each unordered pair, whether a block
// exists between the two actors in either direction, direct or through
// a list. Output order matches input order; (A,B) and (B,A) resolve to
// the same answer and are computed once.
func (r *Resolver) GetBlockExistence(ctx context.Context, pairs []Pair) ([]bool, error) {
	ctx, span := tracer.Start(ctx, "GetBlockExistence")
	defer span.End()

	out := make([]bool, len(pairs))
	if len(pairs) == 0 {
		return out, nil
	}

	seen := make(map[Pair]bool, len(pairs))
	var dids []string
	didSet := make(map[string]struct{}, 2*len(pairs))
	for _, p := range pairs {
		c := p.canonical()
		if c.A == c.B {
			continue
		}
		seen[c] = false
		for _, did := range []string{c.A, c.B} {
			if _, ok := didSet[did]; !ok {
				didSet[did] = struct{}{}
				dids = append(dids, did)
			}
		}
	}
	if len(seen) == 0 {
		return out, nil
	}

	var (
		direct   []storage.EdgeRecord
		viaLists []storage.ListIndirectionRow
	)
	pool := concurrency.NewPool(ctx, 2)
	pool.Go(func(ctx context.Context) error {
		var err error
		direct, err = r.store.ReadEdges(ctx, storage.EdgeBlock, dids, dids)
		return err
	})
	pool.Go(func(ctx context.Context) error {
		var err error
		viaLists, err = r.store.ReadListIndirection(ctx, storage.EdgeListBlock, dids, dids)
		return err
	})
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	mark := func(a, b string) {
		if a == b {
			return
		}
		c := Pair{A: a, B: b}.canonical()
		if _, ok := seen[c]; ok {
			seen[c] = true
		}
	}
	for _, e := range direct {
		mark(e.Creator, e.Subject)
	}
	for _, row := range viaLists {
		mark(row.Creator, row.SubjectDID)
	}

	for i, p := range pairs {
		out[i] = seen[p.canonical()]
	}
	return out, nil
}

// GetFollowCounts returns the follow count per DID, in input order.
// Missing aggregate rows resolve to zero. Empty input hits no storage.
func (r *Resolver) GetFollowCounts(ctx context.Context, dids []string) ([]int64, error) {
	return r.counts(ctx, dids, func(a storage.ActorAggregates) int64 { return a.Follows })
}

// GetFollowerCounts returns the follower count per DID, in input order.
func (r *Resolver) GetFollowerCounts(ctx context.Context, dids []string) ([]int64, error) {
	return r.counts(ctx, dids, func(a storage.ActorAggregates) int64 { return a.Followers })
}

func (r *Resolver) counts(ctx context.Context, dids []string, pick func(storage.ActorAggregates) int64) ([]int64, error) {
	if len(dids) == 0 {
		return nil, nil
	}
	aggs, err := r.store.GetActorAggregates(ctx, dids)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(dids))
	for i, did := range dids {
		out[i] = pick(aggs[did])
	}
	return out, nil
}

func distinctExcluding(dids []string, exclude string) []string {
	set := make(map[string]struct{}, len(dids))
	var out []string
	for _, did := range dids {
		if did == exclude {
			continue
		}
		if _, ok := set[did]; ok {
			continue
		}
		set[did] = struct{}{}
		out = append(out, did)
	}
	return out
}

func uriBySubject(edges []storage.EdgeRecord) map[string]string {
	out := make(map[string]string, len(edges))
	for _, e := range edges {
		out[e.Subject] = e.URI
	}
	return out
}

func uriByCreator(edges []storage.EdgeRecord) map[string]string {
	out := make(map[string]string, len(edges))
	for _, e := range edges {
		out[e.Creator] = e.URI
	}
	return out
}

// firstListBySubject keeps the first list URI seen per subject; rows
// arrive in a deterministic order from storage, so ties resolve the
// same way on every call.
func firstListBySubject(rows []storage.ListIndirectionRow) map[string]string {
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		if _, ok := out[row.SubjectDID]; !ok {
			out[row.SubjectDID] = row.ListURI
		}
	}
	return out
}

func firstListByCreator(rows []storage.ListIndirectionRow) map[string]string {
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		if _, ok := out[row.Creator]; !ok {
			out[row.Creator] = row.ListURI
		}
	}
	return out
}
