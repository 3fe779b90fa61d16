package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	serverErrors "github.com/skylark-social/skylark/pkg/server/errors"
	"github.com/skylark-social/skylark/pkg/storage"
	"github.com/skylark-social/skylark/pkg/storage/memory"
)

func seedActor(t *testing.T, ds *memory.Datastore, rec storage.ActorRecord) {
	t.Helper()
	require.NoError(t, ds.PutActor(context.Background(), rec))
}

func TestGetProfileByHandleAndDID(t *testing.T) {
	ds := memory.New()
	created := time.Date(2022, 8, 1, 0, 0, 0, 0, time.UTC)
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:alice", Handle: "alice.test", CreatedAt: created})
	require.NoError(t, ds.PutActorAggregates(context.Background(), "did:plc:alice", storage.ActorAggregates{
		Followers: 3, Follows: 5, Posts: 7,
	}))

	query := NewGetProfileQuery(ds)

	for _, actor := range []string{"alice.test", "did:plc:alice"} {
		resp, err := query.Execute(context.Background(), GetProfileRequest{Actor: actor})
		require.NoError(t, err)
		require.Equal(t, "did:plc:alice", resp.Profile.DID)
		require.Equal(t, "alice.test", resp.Profile.Handle)
		require.Equal(t, int64(3), resp.Profile.FollowersCount)
		require.Equal(t, int64(5), resp.Profile.FollowsCount)
		require.Equal(t, int64(7), resp.Profile.PostsCount)
	}
}

func TestGetProfileUnknownActor(t *testing.T) {
	query := NewGetProfileQuery(memory.New())

	_, err := query.Execute(context.Background(), GetProfileRequest{Actor: "ghost.test"})
	var reqErr *serverErrors.RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, serverErrors.KindNotFound, reqErr.Kind)
}

func TestGetProfileMissingActorParam(t *testing.T) {
	query := NewGetProfileQuery(memory.New())

	_, err := query.Execute(context.Background(), GetProfileRequest{})
	var reqErr *serverErrors.RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, serverErrors.KindInvalidRequest, reqErr.Kind)
}

func TestGetProfileTakedownRedaction(t *testing.T) {
	ds := memory.New()
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:bad", Handle: "bad.test", TakedownRef: "mod-1"})

	query := NewGetProfileQuery(ds)

	// Default view: hydration sees the record, rules redact it.
	_, err := query.Execute(context.Background(), GetProfileRequest{Actor: "bad.test"})
	var reqErr *serverErrors.RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, serverErrors.KindNotFound, reqErr.Kind)

	// A takedown-privileged caller sees the profile.
	resp, err := query.Execute(context.Background(), GetProfileRequest{Actor: "bad.test", IncludeTakedowns: true})
	require.NoError(t, err)
	require.Equal(t, "did:plc:bad", resp.Profile.DID)
}

func TestGetProfileViewerState(t *testing.T) {
	ds := memory.New()
	ctx := context.Background()
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:alice", Handle: "alice.test"})
	at := time.Now().UTC()
	require.NoError(t, ds.PutEdge(ctx, storage.EdgeRecord{
		URI: "at://did:plc:v/app.skylark.graph.follow/1", CID: "f1",
		Kind: storage.EdgeFollow, Creator: "did:plc:v", Subject: "did:plc:alice",
		CreatedAt: at, IndexedAt: at,
	}))

	query := NewGetProfileQuery(ds)

	resp, err := query.Execute(ctx, GetProfileRequest{Actor: "alice.test", Viewer: "did:plc:v"})
	require.NoError(t, err)
	require.NotNil(t, resp.Profile.Viewer)
	require.NotEmpty(t, resp.Profile.Viewer.Following)

	// No viewer, no viewer state.
	resp, err = query.Execute(ctx, GetProfileRequest{Actor: "alice.test"})
	require.NoError(t, err)
	require.Nil(t, resp.Profile.Viewer)
}

func TestGetProfileRepoRev(t *testing.T) {
	ds := memory.New()
	ctx := context.Background()
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:alice", Handle: "alice.test"})
	require.NoError(t, ds.PutRepoRev(ctx, "did:plc:alice", "rev-9"))

	query := NewGetProfileQuery(ds)
	resp, err := query.Execute(ctx, GetProfileRequest{Actor: "alice.test"})
	require.NoError(t, err)
	require.Equal(t, "rev-9", resp.RepoRev)
}

func TestGetProfilesBatchDropsUnresolved(t *testing.T) {
	ds := memory.New()
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:alice", Handle: "alice.test"})
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:bob", Handle: "bob.test"})
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:bad", Handle: "bad.test", TakedownRef: "mod-1"})

	query := NewGetProfilesQuery(ds)

	resp, err := query.Execute(context.Background(), GetProfilesRequest{
		Actors: []string{"bob.test", "ghost.test", "alice.test", "bad.test"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Profiles, 2)
	// Input order is preserved for the survivors.
	require.Equal(t, "did:plc:bob", resp.Profiles[0].DID)
	require.Equal(t, "did:plc:alice", resp.Profiles[1].DID)
}

func TestGetProfilesBatchLimit(t *testing.T) {
	query := NewGetProfilesQuery(memory.New())

	actors := make([]string, maxProfileBatch+1)
	for i := range actors {
		actors[i] = "did:plc:x"
	}
	_, err := query.Execute(context.Background(), GetProfilesRequest{Actors: actors})
	var reqErr *serverErrors.RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, serverErrors.KindInvalidRequest, reqErr.Kind)
}
