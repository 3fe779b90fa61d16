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

// maxServiceBatch bounds the number of services one request may ask for.
const maxServiceBatch = 50

type GetServicesRequest struct {
	DIDs []string

	// Detailed attaches aggregate counts to each view.
	Detailed bool
	Viewer   string
}

type GetServicesResponse struct {
	Views []views.ServiceView `json:"views"`
}

// GetServicesQuery batch-fetches service accounts. Non-service DIDs
// and hidden accounts are dropped from the output.
type GetServicesQuery struct {
	deps   deps
	logger logger.Logger

	pipeline *pipeline.Pipeline[GetServicesRequest, []string, hydration.State, *GetServicesResponse]
}

type GetServicesQueryOption func(*GetServicesQuery)

func WithGetServicesQueryLogger(l logger.Logger) GetServicesQueryOption {
	return func(q *GetServicesQuery) {
		q.logger = l
	}
}

func NewGetServicesQuery(datastore storage.DataStore, opts ...GetServicesQueryOption) *GetServicesQuery {
	q := &GetServicesQuery{
		deps:   newDeps(datastore),
		logger: logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.pipeline = pipeline.New(q.skeleton, q.hydrate, pipeline.NoRules[GetServicesRequest, []string, hydration.State](), q.present)
	return q
}

func (q *GetServicesQuery) Execute(ctx context.Context, req GetServicesRequest) (*GetServicesResponse, error) {
	return q.pipeline.Run(ctx, req)
}

func (q *GetServicesQuery) skeleton(_ context.Context, req GetServicesRequest) ([]string, error) {
	if len(req.DIDs) == 0 {
		return nil, serverErrors.InvalidRequest("dids is required")
	}
	if len(req.DIDs) > maxServiceBatch {
		return nil, serverErrors.InvalidRequest("too many dids: %d > %d", len(req.DIDs), maxServiceBatch)
	}
	if err := requireDIDs(req.DIDs); err != nil {
		return nil, err
	}
	return req.DIDs, nil
}

func (q *GetServicesQuery) hydrate(ctx context.Context, req GetServicesRequest, dids []string) (hydration.State, error) {
	state, err := q.deps.hydrator.HydrateProfiles(ctx, dids, hydration.Context{ViewerDID: req.Viewer})
	if err != nil {
		return hydration.State{}, serverErrors.Classify(err)
	}
	return state, nil
}

func (q *GetServicesQuery) present(_ context.Context, req GetServicesRequest, dids []string, state hydration.State) (*GetServicesResponse, error) {
	resp := &GetServicesResponse{Views: []views.ServiceView{}}
	dropped := 0
	for _, did := range dids {
		actor, ok := state.Actors.Get(did)
		if !ok || actor == nil || actor.Kind != storage.ActorKindService {
			dropped++
			continue
		}
		if view := views.NewServiceView(did, state, req.Detailed); view != nil {
			resp.Views = append(resp.Views, *view)
		}
	}
	if dropped > 0 {
		q.logger.Debug("dropped non-service dids", zap.Int("count", dropped))
	}
	return resp, nil
}
