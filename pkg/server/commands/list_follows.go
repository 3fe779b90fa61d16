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

type ListFollowsRequest struct {
	// Actor is a handle or a DID.
	Actor  string
	Limit  int
	Cursor string
	Viewer string
}

type ListFollowsResponse struct {
	Subject views.ProfileView   `json:"subject"`
	Follows []views.ProfileView `json:"follows"`
	Cursor  string              `json:"cursor,omitempty"`
}

// ListFollowsQuery pages through the accounts an actor follows.
type ListFollowsQuery struct {
	deps   deps
	logger logger.Logger

	pipeline *pipeline.Pipeline[ListFollowsRequest, edgePageSkeleton, hydration.State, *ListFollowsResponse]
}

type ListFollowsQueryOption func(*ListFollowsQuery)

func WithListFollowsQueryLogger(l logger.Logger) ListFollowsQueryOption {
	return func(q *ListFollowsQuery) {
		q.logger = l
	}
}

func NewListFollowsQuery(datastore storage.DataStore, opts ...ListFollowsQueryOption) *ListFollowsQuery {
	q := &ListFollowsQuery{
		deps:   newDeps(datastore),
		logger: logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.pipeline = pipeline.New(q.skeleton, q.hydrate, q.rules, q.present)
	return q
}

func (q *ListFollowsQuery) Execute(ctx context.Context, req ListFollowsRequest) (*ListFollowsResponse, error) {
	return q.pipeline.Run(ctx, req)
}

func (q *ListFollowsQuery) skeleton(ctx context.Context, req ListFollowsRequest) (edgePageSkeleton, error) {
	did, err := q.deps.resolveActorDID(ctx, req.Actor)
	if err != nil {
		return edgePageSkeleton{}, err
	}
	opts := storage.NewReadPageOptions(req.Limit, req.Cursor)
	opts.TryIndex = true
	edges, cursor, err := q.deps.datastore.ReadEdgePage(ctx, storage.EdgeFollow, storage.EdgeFilter{Creator: did}, opts)
	if err != nil {
		return edgePageSkeleton{}, serverErrors.Classify(err)
	}
	return edgePageSkeleton{subjectDID: did, edges: edges, cursor: cursor}, nil
}

func (q *ListFollowsQuery) hydrate(ctx context.Context, req ListFollowsRequest, skeleton edgePageSkeleton) (hydration.State, error) {
	dids := make([]string, 0, len(skeleton.edges)+1)
	dids = append(dids, skeleton.subjectDID)
	for _, e := range skeleton.edges {
		dids = append(dids, e.Subject)
	}
	state, err := q.deps.hydrator.HydrateProfiles(ctx, dids, hydration.Context{ViewerDID: req.Viewer})
	if err != nil {
		return hydration.State{}, serverErrors.Classify(err)
	}
	return state, nil
}

func (q *ListFollowsQuery) rules(_ context.Context, _ ListFollowsRequest, _ edgePageSkeleton, state hydration.State) (hydration.State, error) {
	state, dropped := dropBlocked(state)
	if dropped > 0 {
		q.logger.Debug("dropped blocked follows", zap.Int("count", dropped))
	}
	return state, nil
}

func (q *ListFollowsQuery) present(_ context.Context, req ListFollowsRequest, skeleton edgePageSkeleton, state hydration.State) (*ListFollowsResponse, error) {
	subject := views.NewProfileView(skeleton.subjectDID, state)
	if subject == nil {
		return nil, serverErrors.NotFound("Profile not found: %s", req.Actor)
	}
	resp := &ListFollowsResponse{
		Subject: *subject,
		Follows: []views.ProfileView{},
		Cursor:  skeleton.cursor,
	}
	for _, e := range skeleton.edges {
		if profile := views.NewProfileView(e.Subject, state); profile != nil {
			resp.Follows = append(resp.Follows, *profile)
		}
	}
	return resp, nil
}
