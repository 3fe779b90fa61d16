// Package commands holds one query object per read endpoint. Each
// query owns its pipeline wiring and is constructed once at server
// startup.
package commands

import (
	"context"

	"github.com/skylark-social/skylark/pkg/graph"
	"github.com/skylark-social/skylark/pkg/hydration"
	"github.com/skylark-social/skylark/pkg/identity"
	serverErrors "github.com/skylark-social/skylark/pkg/server/errors"
	"github.com/skylark-social/skylark/pkg/storage"
)

// deps bundles the collaborators every query shares.
type deps struct {
	datastore storage.DataStore
	resolver  *graph.Resolver
	hydrator  *hydration.Hydrator
}

func newDeps(datastore storage.DataStore) deps {
	resolver := graph.NewResolver(datastore)
	return deps{
		datastore: datastore,
		resolver:  resolver,
		hydrator:  hydration.NewHydrator(datastore, resolver),
	}
}

// resolveActorDID turns a handle-or-DID into a DID, failing with
// NotFound when the identifier does not resolve.
func (d deps) resolveActorDID(ctx context.Context, actor string) (string, error) {
	if actor == "" {
		return "", serverErrors.InvalidRequest("actor is required")
	}
	dids, err := d.hydrator.Actor.GetDIDs(ctx, []string{actor})
	if err != nil {
		return "", serverErrors.Classify(err)
	}
	if dids[0] == "" {
		return "", serverErrors.NotFound("Profile not found: %s", actor)
	}
	return dids[0], nil
}

// requireDIDs validates that every identifier is a DID.
func requireDIDs(ids []string) error {
	for _, id := range ids {
		if !identity.IsDID(id) {
			return serverErrors.InvalidRequest("expected a DID: %s", id)
		}
	}
	return nil
}

// dropBlocked clears hydrated actors that have a block in either
// direction with the viewer, so presentation skips them. It reads only
// already-hydrated state and reports how many actors it cleared.
func dropBlocked(state hydration.State) (hydration.State, int) {
	dropped := 0
	for did := range state.Actors {
		if rel, ok := state.ViewerStates.Get(did); ok && rel != nil && rel.Blocked() {
			if state.Actors[did] != nil {
				state.Actors[did] = nil
				dropped++
			}
		}
	}
	return state, dropped
}
