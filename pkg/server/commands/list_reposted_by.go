package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/skylark-social/skylark/pkg/hydration"
	"github.com/skylark-social/skylark/pkg/identity"
	"github.com/skylark-social/skylark/pkg/logger"
	"github.com/skylark-social/skylark/pkg/pipeline"
	serverErrors "github.com/skylark-social/skylark/pkg/server/errors"
	"github.com/skylark-social/skylark/pkg/storage"
	"github.com/skylark-social/skylark/pkg/views"
)

type ListRepostedByRequest struct {
	// URI is the at-uri of the reposted record.
	URI    string
	Limit  int
	Cursor string
	Viewer string
}

type ListRepostedByResponse struct {
	URI        string              `json:"uri"`
	RepostedBy []views.ProfileView `json:"repostedBy"`
	Cursor     string              `json:"cursor,omitempty"`
}

// ListRepostedByQuery pages through the accounts that reposted a
// record.
type ListRepostedByQuery struct {
	deps   deps
	logger logger.Logger

	pipeline *pipeline.Pipeline[ListRepostedByRequest, edgePageSkeleton, hydration.State, *ListRepostedByResponse]
}

type ListRepostedByQueryOption func(*ListRepostedByQuery)

func WithListRepostedByQueryLogger(l logger.Logger) ListRepostedByQueryOption {
	return func(q *ListRepostedByQuery) {
		q.logger = l
	}
}

func NewListRepostedByQuery(datastore storage.DataStore, opts ...ListRepostedByQueryOption) *ListRepostedByQuery {
	q := &ListRepostedByQuery{
		deps:   newDeps(datastore),
		logger: logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.pipeline = pipeline.New(q.skeleton, q.hydrate, q.rules, q.present)
	return q
}

func (q *ListRepostedByQuery) Execute(ctx context.Context, req ListRepostedByRequest) (*ListRepostedByResponse, error) {
	return q.pipeline.Run(ctx, req)
}

func (q *ListRepostedByQuery) skeleton(ctx context.Context, req ListRepostedByRequest) (edgePageSkeleton, error) {
	if !identity.IsATURI(req.URI) {
		return edgePageSkeleton{}, serverErrors.InvalidRequest("expected an at-uri: %s", req.URI)
	}
	opts := storage.NewReadPageOptions(req.Limit, req.Cursor)
	opts.TryIndex = true
	edges, cursor, err := q.deps.datastore.ReadEdgePage(ctx, storage.EdgeRepost, storage.EdgeFilter{Subject: req.URI}, opts)
	if err != nil {
		return edgePageSkeleton{}, serverErrors.Classify(err)
	}
	return edgePageSkeleton{edges: edges, cursor: cursor}, nil
}

func (q *ListRepostedByQuery) hydrate(ctx context.Context, req ListRepostedByRequest, skeleton edgePageSkeleton) (hydration.State, error) {
	dids := make([]string, 0, len(skeleton.edges))
	for _, e := range skeleton.edges {
		dids = append(dids, e.Creator)
	}
	state, err := q.deps.hydrator.HydrateProfiles(ctx, dids, hydration.Context{ViewerDID: req.Viewer})
	if err != nil {
		return hydration.State{}, serverErrors.Classify(err)
	}
	return state, nil
}

func (q *ListRepostedByQuery) rules(_ context.Context, _ ListRepostedByRequest, _ edgePageSkeleton, state hydration.State) (hydration.State, error) {
	state, dropped := dropBlocked(state)
	if dropped > 0 {
		q.logger.Debug("dropped blocked reposters", zap.Int("count", dropped))
	}
	return state, nil
}

func (q *ListRepostedByQuery) present(_ context.Context, req ListRepostedByRequest, skeleton edgePageSkeleton, state hydration.State) (*ListRepostedByResponse, error) {
	resp := &ListRepostedByResponse{
		URI:        req.URI,
		RepostedBy: []views.ProfileView{},
		Cursor:     skeleton.cursor,
	}
	for _, e := range skeleton.edges {
		if profile := views.NewProfileView(e.Creator, state); profile != nil {
			resp.RepostedBy = append(resp.RepostedBy, *profile)
		}
	}
	return resp, nil
}
