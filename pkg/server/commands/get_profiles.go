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

// maxProfileBatch bounds the number of actors one request may ask for.
const maxProfileBatch = 25

type GetProfilesRequest struct {
	// Actors are handles or DIDs.
	Actors []string

	Viewer           string
	IncludeTakedowns bool
}

type GetProfilesResponse struct {
	Profiles []views.ProfileViewDetailed `json:"profiles"`
}

// GetProfilesQuery is the batch variant of GetProfileQuery. Unresolved
// and hidden actors are dropped from the output rather than failing
// the whole batch; output order follows input order.
type GetProfilesQuery struct {
	deps   deps
	logger logger.Logger

	pipeline *pipeline.Pipeline[GetProfilesRequest, []string, hydration.State, *GetProfilesResponse]
}

type GetProfilesQueryOption func(*GetProfilesQuery)

func WithGetProfilesQueryLogger(l logger.Logger) GetProfilesQueryOption {
	return func(q *GetProfilesQuery) {
		q.logger = l
	}
}

func NewGetProfilesQuery(datastore storage.DataStore, opts ...GetProfilesQueryOption) *GetProfilesQuery {
	q := &GetProfilesQuery{
		deps:   newDeps(datastore),
		logger: logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.pipeline = pipeline.New(q.skeleton, q.hydrate, q.rules, q.present)
	return q
}

func (q *GetProfilesQuery) Execute(ctx context.Context, req GetProfilesRequest) (*GetProfilesResponse, error) {
	return q.pipeline.Run(ctx, req)
}

func (q *GetProfilesQuery) skeleton(ctx context.Context, req GetProfilesRequest) ([]string, error) {
	if len(req.Actors) == 0 {
		return nil, serverErrors.InvalidRequest("actors is required")
	}
	if len(req.Actors) > maxProfileBatch {
		return nil, serverErrors.InvalidRequest("too many actors: %d > %d", len(req.Actors), maxProfileBatch)
	}
	dids, err := q.deps.hydrator.Actor.GetDIDs(ctx, req.Actors)
	if err != nil {
		return nil, serverErrors.Classify(err)
	}
	resolved := dids[:0]
	for _, did := range dids {
		if did != "" {
			resolved = append(resolved, did)
		}
	}
	if dropped := len(req.Actors) - len(resolved); dropped > 0 {
		q.logger.Debug("dropped unresolved actors", zap.Int("count", dropped))
	}
	return resolved, nil
}

func (q *GetProfilesQuery) hydrate(ctx context.Context, req GetProfilesRequest, dids []string) (hydration.State, error) {
	hctx := hydration.Context{ViewerDID: req.Viewer}.WithIncludeTakedowns(true)
	state, err := q.deps.hydrator.HydrateProfiles(ctx, dids, hctx)
	if err != nil {
		return hydration.State{}, serverErrors.Classify(err)
	}
	return state, nil
}

func (q *GetProfilesQuery) rules(_ context.Context, req GetProfilesRequest, dids []string, state hydration.State) (hydration.State, error) {
	if req.IncludeTakedowns {
		return state, nil
	}
	for _, did := range dids {
		if actor, ok := state.Actors.Get(did); ok && actor != nil && actor.TakenDown {
			state.Actors[did] = nil
		}
	}
	return state, nil
}

func (q *GetProfilesQuery) present(_ context.Context, _ GetProfilesRequest, dids []string, state hydration.State) (*GetProfilesResponse, error) {
	resp := &GetProfilesResponse{Profiles: []views.ProfileViewDetailed{}}
	for _, did := range dids {
		if profile := views.NewProfileViewDetailed(did, state); profile != nil {
			resp.Profiles = append(resp.Profiles, *profile)
		}
	}
	return resp, nil
}
