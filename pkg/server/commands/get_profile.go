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

type GetProfileRequest struct {
	// Actor is a handle or a DID.
	Actor string

	Viewer           string
	IncludeTakedowns bool
}

type GetProfileResponse struct {
	Profile views.ProfileViewDetailed `json:"profile"`

	// RepoRev is the actor's last indexed repo revision, when known.
	RepoRev string `json:"-"`
}

// GetProfileQuery resolves a single actor to a detailed profile view.
// Hydration always loads taken-down records so that privileged callers
// can see them; redaction happens in the rules stage.
type GetProfileQuery struct {
	deps   deps
	logger logger.Logger

	pipeline *pipeline.Pipeline[GetProfileRequest, string, profileHydration, *GetProfileResponse]
}

// profileHydration carries the hydrated state plus the repo revision
// picked up in the same stage.
type profileHydration struct {
	state   hydration.State
	repoRev string
}

type GetProfileQueryOption func(*GetProfileQuery)

func WithGetProfileQueryLogger(l logger.Logger) GetProfileQueryOption {
	return func(q *GetProfileQuery) {
		q.logger = l
	}
}

func NewGetProfileQuery(datastore storage.DataStore, opts ...GetProfileQueryOption) *GetProfileQuery {
	q := &GetProfileQuery{
		deps:   newDeps(datastore),
		logger: logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.pipeline = pipeline.New(q.skeleton, q.hydrate, q.rules, q.present)
	return q
}

func (q *GetProfileQuery) Execute(ctx context.Context, req GetProfileRequest) (*GetProfileResponse, error) {
	return q.pipeline.Run(ctx, req)
}

func (q *GetProfileQuery) skeleton(ctx context.Context, req GetProfileRequest) (string, error) {
	return q.deps.resolveActorDID(ctx, req.Actor)
}

func (q *GetProfileQuery) hydrate(ctx context.Context, req GetProfileRequest, did string) (profileHydration, error) {
	hctx := hydration.Context{ViewerDID: req.Viewer}.WithIncludeTakedowns(true)
	state, err := q.deps.hydrator.HydrateProfiles(ctx, []string{did}, hctx)
	if err != nil {
		return profileHydration{}, serverErrors.Classify(err)
	}
	return profileHydration{
		state:   state,
		repoRev: q.deps.hydrator.Actor.GetRepoRevSafe(ctx, did),
	}, nil
}

func (q *GetProfileQuery) rules(_ context.Context, req GetProfileRequest, did string, hydrated profileHydration) (profileHydration, error) {
	if actor, ok := hydrated.state.Actors.Get(did); ok && actor != nil {
		if actor.TakenDown && !req.IncludeTakedowns {
			hydrated.state.Actors[did] = nil
			q.logger.Debug("redacted taken-down profile", zap.String("did", did))
		}
	}
	return hydrated, nil
}

func (q *GetProfileQuery) present(_ context.Context, req GetProfileRequest, did string, hydrated profileHydration) (*GetProfileResponse, error) {
	profile := views.NewProfileViewDetailed(did, hydrated.state)
	if profile == nil {
		return nil, serverErrors.NotFound("Profile not found: %s", req.Actor)
	}
	return &GetProfileResponse{
		Profile: *profile,
		RepoRev: hydrated.repoRev,
	}, nil
}
