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

type ListLikedByRequest struct {
	// URI is the at-uri of the liked record.
	URI    string
	Limit  int
	Cursor string
	Viewer string
}

// Like is one entry of a ListLikedBy page. The like's own timestamps
// ride along with the actor view.
type Like struct {
	Actor     views.ProfileView `json:"actor"`
	CreatedAt string            `json:"createdAt"`
	IndexedAt string            `json:"indexedAt"`
}

type ListLikedByResponse struct {
	URI    string `json:"uri"`
	Likes  []Like `json:"likes"`
	Cursor string `json:"cursor,omitempty"`
}

// ListLikedByQuery pages through the accounts that liked a record.
type ListLikedByQuery struct {
	deps   deps
	logger logger.Logger

	pipeline *pipeline.Pipeline[ListLikedByRequest, edgePageSkeleton, hydration.State, *ListLikedByResponse]
}

type ListLikedByQueryOption func(*ListLikedByQuery)

func WithListLikedByQueryLogger(l logger.Logger) ListLikedByQueryOption {
	return func(q *ListLikedByQuery) {
		q.logger = l
	}
}

func NewListLikedByQuery(datastore storage.DataStore, opts ...ListLikedByQueryOption) *ListLikedByQuery {
	q := &ListLikedByQuery{
		deps:   newDeps(datastore),
		logger: logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.pipeline = pipeline.New(q.skeleton, q.hydrate, q.rules, q.present)
	return q
}

func (q *ListLikedByQuery) Execute(ctx context.Context, req ListLikedByRequest) (*ListLikedByResponse, error) {
	return q.pipeline.Run(ctx, req)
}

func (q *ListLikedByQuery) skeleton(ctx context.Context, req ListLikedByRequest) (edgePageSkeleton, error) {
	if !identity.IsATURI(req.URI) {
		return edgePageSkeleton{}, serverErrors.InvalidRequest("expected an at-uri: %s", req.URI)
	}
	opts := storage.NewReadPageOptions(req.Limit, req.Cursor)
	opts.TryIndex = true
	edges, cursor, err := q.deps.datastore.ReadEdgePage(ctx, storage.EdgeLike, storage.EdgeFilter{Subject: req.URI}, opts)
	if err != nil {
		return edgePageSkeleton{}, serverErrors.Classify(err)
	}
	return edgePageSkeleton{edges: edges, cursor: cursor}, nil
}

func (q *ListLikedByQuery) hydrate(ctx context.Context, req ListLikedByRequest, skeleton edgePageSkeleton) (hydration.State, error) {
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

func (q *ListLikedByQuery) rules(_ context.Context, _ ListLikedByRequest, _ edgePageSkeleton, state hydration.State) (hydration.State, error) {
	state, dropped := dropBlocked(state)
	if dropped > 0 {
		q.logger.Debug("dropped blocked likers", zap.Int("count", dropped))
	}
	return state, nil
}

func (q *ListLikedByQuery) present(_ context.Context, req ListLikedByRequest, skeleton edgePageSkeleton, state hydration.State) (*ListLikedByResponse, error) {
	resp := &ListLikedByResponse{
		URI:    req.URI,
		Likes:  []Like{},
		Cursor: skeleton.cursor,
	}
	for _, e := range skeleton.edges {
		profile := views.NewProfileView(e.Creator, state)
		if profile == nil {
			continue
		}
		resp.Likes = append(resp.Likes, Like{
			Actor:     *profile,
			CreatedAt: storage.FormatTime(e.CreatedAt),
			IndexedAt: storage.FormatTime(e.IndexedAt),
		})
	}
	return resp, nil
}
