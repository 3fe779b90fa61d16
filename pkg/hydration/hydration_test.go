package hydration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/skylark-social/skylark/internal/mocks"
	"github.com/skylark-social/skylark/pkg/graph"
	"github.com/skylark-social/skylark/pkg/storage"
	"github.com/skylark-social/skylark/pkg/storage/memory"
)

func newHydrator(t *testing.T) (*Hydrator, *memory.Datastore) {
	t.Helper()
	ds := memory.New()
	return NewHydrator(ds, graph.NewResolver(ds)), ds
}

func putActor(t *testing.T, ds *memory.Datastore, rec storage.ActorRecord) {
	t.Helper()
	require.NoError(t, ds.PutActor(context.Background(), rec))
}

func TestContextImmutable(t *testing.T) {
	base := Context{ViewerDID: "did:plc:v"}
	derived := base.WithIncludeTakedowns(true)

	require.False(t, base.IncludeTakedowns)
	require.True(t, derived.IncludeTakedowns)
	require.Equal(t, base.ViewerDID, derived.ViewerDID)
}

func TestMapThreeStates(t *testing.T) {
	m := Map[Actor]{
		"did:plc:visible": {DID: "did:plc:visible"},
		"did:plc:hidden":  nil,
	}

	v, ok := m.Get("did:plc:visible")
	require.True(t, ok)
	require.NotNil(t, v)
	require.True(t, m.Visible("did:plc:visible"))

	v, ok = m.Get("did:plc:hidden")
	require.True(t, ok, "hidden entities stay present in the map")
	require.Nil(t, v)
	require.False(t, m.Visible("did:plc:hidden"))

	_, ok = m.Get("did:plc:unknown")
	require.False(t, ok)
	require.False(t, m.Visible("did:plc:unknown"))
}

func TestGetDIDsMixedIdentifiers(t *testing.T) {
	h, ds := newHydrator(t)
	putActor(t, ds, storage.ActorRecord{DID: "did:plc:alice", Handle: "alice.test"})

	got, err := h.Actor.GetDIDs(context.Background(), []string{"alice.test", "did:plc:bob", "ghost.test"})
	require.NoError(t, err)
	require.Equal(t, []string{"did:plc:alice", "did:plc:bob", ""}, got)
}

func TestGetActorsSuppression(t *testing.T) {
	h, ds := newHydrator(t)
	now := time.Now().UTC()

	putActor(t, ds, storage.ActorRecord{DID: "did:plc:ok", Handle: "ok.test"})
	putActor(t, ds, storage.ActorRecord{DID: "did:plc:takendown", TakedownRef: "mod-1"})
	putActor(t, ds, storage.ActorRecord{DID: "did:plc:tombstoned", TombstonedAt: &now})

	dids := []string{"did:plc:ok", "did:plc:takendown", "did:plc:tombstoned", "did:plc:unknown"}

	got, err := h.Actor.GetActors(context.Background(), dids, Context{})
	require.NoError(t, err)

	require.True(t, got.Visible("did:plc:ok"))

	// Taken down: present but nil, the "exists but hidden" state.
	v, ok := got.Get("did:plc:takendown")
	require.True(t, ok)
	require.Nil(t, v)

	v, ok = got.Get("did:plc:tombstoned")
	require.True(t, ok)
	require.Nil(t, v)

	// Unknown: absent entirely.
	_, ok = got.Get("did:plc:unknown")
	require.False(t, ok)
}

func TestGetActorsIncludeTakedowns(t *testing.T) {
	h, ds := newHydrator(t)
	putActor(t, ds, storage.ActorRecord{DID: "did:plc:takendown", TakedownRef: "mod-1"})
	now := time.Now().UTC()
	putActor(t, ds, storage.ActorRecord{DID: "did:plc:tombstoned", TombstonedAt: &now})

	got, err := h.Actor.GetActors(context.Background(), []string{"did:plc:takendown", "did:plc:tombstoned"}, Context{IncludeTakedowns: true})
	require.NoError(t, err)

	v, ok := got.Get("did:plc:takendown")
	require.True(t, ok)
	require.NotNil(t, v)
	require.True(t, v.TakenDown)

	// Tombstoned accounts stay hidden even for takedown viewers.
	v, ok = got.Get("did:plc:tombstoned")
	require.True(t, ok)
	require.Nil(t, v)
}

func TestGetActorsProfileTakedownIndependent(t *testing.T) {
	h, ds := newHydrator(t)
	indexedAt := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)

	// The account itself is fine; only its profile record is taken
	// down. The account renders, the profile fields do not.
	putActor(t, ds, storage.ActorRecord{
		DID: "did:plc:alice", Handle: "alice.test",
		ProfileCID: "profilecid", ProfileIndexedAt: &indexedAt,
		ProfileTakedownRef: "mod-2",
	})

	got, err := h.Actor.GetActors(context.Background(), []string{"did:plc:alice"}, Context{})
	require.NoError(t, err)
	v, ok := got.Get("did:plc:alice")
	require.True(t, ok)
	require.NotNil(t, v)
	require.Empty(t, v.ProfileCID)

	got, err = h.Actor.GetActors(context.Background(), []string{"did:plc:alice"}, Context{IncludeTakedowns: true})
	require.NoError(t, err)
	v, _ = got.Get("did:plc:alice")
	require.NotNil(t, v)
	require.Equal(t, "profilecid", v.ProfileCID)
}

func TestGetProfileViewerStatesNoViewer(t *testing.T) {
	ctrl := gomock.NewController(t)
	ds := mocks.NewMockDataStore(ctrl)
	h := NewHydrator(ds, graph.NewResolver(ds))

	got, err := h.Actor.GetProfileViewerStates(context.Background(), []string{"did:plc:a"}, Context{})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestGetRepoRevSafeSwallowsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	ds := mocks.NewMockDataStore(ctrl)
	ds.EXPECT().GetRepoRev(gomock.Any(), "did:plc:a").Return("", storage.ErrUnavailable)

	h := NewHydrator(ds, graph.NewResolver(ds))
	require.Empty(t, h.Actor.GetRepoRevSafe(context.Background(), "did:plc:a"))
	require.Empty(t, h.Actor.GetRepoRevSafe(context.Background(), ""))
}

func TestHydrateProfilesJoinsAllLookups(t *testing.T) {
	h, ds := newHydrator(t)
	ctx := context.Background()

	putActor(t, ds, storage.ActorRecord{DID: "did:plc:bob", Handle: "bob.test"})
	require.NoError(t, ds.PutActorAggregates(ctx, "did:plc:bob", storage.ActorAggregates{Followers: 7}))
	require.NoError(t, ds.PutEdge(ctx, storage.EdgeRecord{
		URI: "at://did:plc:v/app.skylark.graph.follow/1", CID: "f1",
		Kind: storage.EdgeFollow, Creator: "did:plc:v", Subject: "did:plc:bob",
		CreatedAt: time.Now().UTC(), IndexedAt: time.Now().UTC(),
	}))

	state, err := h.HydrateProfiles(ctx, []string{"did:plc:bob"}, Context{ViewerDID: "did:plc:v"})
	require.NoError(t, err)

	require.True(t, state.Actors.Visible("did:plc:bob"))
	rel, ok := state.ViewerStates.Get("did:plc:bob")
	require.True(t, ok)
	require.NotEmpty(t, rel.Following)
	aggs, ok := state.Aggregates.Get("did:plc:bob")
	require.True(t, ok)
	require.Equal(t, int64(7), aggs.Followers)
}

func TestHydrateProfilesPropagatesFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	ds := mocks.NewMockDataStore(ctrl)
	ds.EXPECT().GetActors(gomock.Any(), gomock.Any()).Return(nil, storage.ErrUnavailable)
	ds.EXPECT().GetActorAggregates(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	h := NewHydrator(ds, graph.NewResolver(ds))
	_, err := h.HydrateProfiles(context.Background(), []string{"did:plc:a"}, Context{})
	require.ErrorIs(t, err, storage.ErrUnavailable)
}
