package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/skylark-social/skylark/pkg/hydration"
	"github.com/skylark-social/skylark/pkg/logger"
	"github.com/skylark-social/skylark/pkg/pipeline"
	serverErrors "github.com/skylark-social/skylark/pkg/server/errors"
	"github.com/skylark-social/skylark/pkg/storage"
	"github.com/skylark-social/skylark/pkg/views"
)

type ListFollowersRequest struct {
	// Actor is a handle or a DID.
	Actor  string
	Limit  int
	Cursor string
	Viewer string
}

type ListFollowersResponse struct {
	Subject   views.ProfileView   `json:"subject"`
	Followers []views.ProfileView `json:"followers"`
	Cursor    string              `json:"cursor,omitempty"`
}

// edgePageSkeleton is the skeleton shape shared by the paginated edge
// listings: the resolved subject plus one page of edges.
type edgePageSkeleton struct {
	subjectDID string
	edges      []storage.EdgeRecord
	cursor     string
}

// ListFollowersQuery pages through the accounts following an actor.
// Followers with a block in either direction to the viewer are dropped
// from the page, not replaced, so pages may come back short.
type ListFollowersQuery struct {
	deps   deps
	logger logger.Logger

	pipeline *pipeline.Pipeline[ListFollowersRequest, edgePageSkeleton, hydration.State, *ListFollowersResponse]
}

type ListFollowersQueryOption func(*ListFollowersQuery)

func WithListFollowersQueryLogger(l logger.Logger) ListFollowersQueryOption {
	return func(q *ListFollowersQuery) {
		q.logger = l
	}
}

func NewListFollowersQuery(datastore storage.DataStore, opts ...ListFollowersQueryOption) *ListFollowersQuery {
	q := &ListFollowersQuery{
		deps:   newDeps(datastore),
		logger: logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.pipeline = pipeline.New(q.skeleton, q.hydrate, q.rules, q.present)
	return q
}

func (q *ListFollowersQuery) Execute(ctx context.Context, req ListFollowersRequest) (*ListFollowersResponse, error) {
	return q.pipeline.Run(ctx, req)
}

func (q *ListFollowersQuery) skeleton(ctx context.Context, req ListFollowersRequest) (edgePageSkeleton, error) {
	did, err := q.deps.resolveActorDID(ctx, req.Actor)
	if err != nil {
		return edgePageSkeleton{}, err
	}
	opts := storage.NewReadPageOptions(req.Limit, req.Cursor)
	// The edge indexes end in (sort_at, cid), so the row-value cursor
	// form applies to every edge page.
	opts.TryIndex = true
	edges, cursor, err := q.deps.datastore.ReadEdgePage(ctx, storage.EdgeFollow, storage.EdgeFilter{Subject: did}, opts)
	if err != nil {
		return edgePageSkeleton{}, serverErrors.Classify(err)
	}
	return edgePageSkeleton{subjectDID: did, edges: edges, cursor: cursor}, nil
}

func (q *ListFollowersQuery) hydrate(ctx context.Context, req ListFollowersRequest, skeleton edgePageSkeleton) (hydration.State, error) {
	dids := make([]string, 0, len(skeleton.edges)+1)
	dids = append(dids, skeleton.subjectDID)
	for _, e := range skeleton.edges {
		dids = append(dids, e.Creator)
	}
	state, err := q.deps.hydrator.HydrateProfiles(ctx, dids, hydration.Context{ViewerDID: req.Viewer})
	if err != nil {
		return hydration.State{}, serverErrors.Classify(err)
	}
	return state, nil
}

func (q *ListFollowersQuery) rules(_ context.Context, _ ListFollowersRequest, _ edgePageSkeleton, state hydration.State) (hydration.State, error) {
	state, dropped := dropBlocked(state)
	if dropped > 0 {
		q.logger.Debug("dropped blocked followers", zap.Int("count", dropped))
	}
	return state, nil
}

func (q *ListFollowersQuery) present(_ context.Context, req ListFollowersRequest, skeleton edgePageSkeleton, state hydration.State) (*ListFollowersResponse, error) {
	subject := views.NewProfileView(skeleton.subjectDID, state)
	if subject == nil {
		return nil, serverErrors.NotFound("Profile not found: %s", req.Actor)
	}
	resp := &ListFollowersResponse{
		Subject:   *subject,
		Followers: []views.ProfileView{},
		Cursor:    skeleton.cursor,
	}
	for _, e := range skeleton.edges {
		if profile := views.NewProfileView(e.Creator, state); profile != nil {
			resp.Followers = append(resp.Followers, *profile)
		}
	}
	return resp, nil
}
