package graph

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/skylark-social/skylark/internal/mocks"
	"github.com/skylark-social/skylark/pkg/storage"
	"github.com/skylark-social/skylark/pkg/storage/memory"
)

const (
	viewer = "did:plc:viewer"
	bob    = "did:plc:bob"
	carol  = "did:plc:carol"
	dan    = "did:plc:dan"
)

func seedEdge(t *testing.T, ds *memory.Datastore, kind storage.EdgeKind, creator, subject string) string {
	t.Helper()
	at := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	uri := fmt.Sprintf("at://%s/app.skylark.graph.%s/%s-%s", creator, kind, kind, subject)
	err := ds.PutEdge(context.Background(), storage.EdgeRecord{
		URI: uri, CID: fmt.Sprintf("%s-%s-%s", kind, creator, subject),
		Kind: kind, Creator: creator, Subject: subject,
		CreatedAt: at, IndexedAt: at,
	})
	require.NoError(t, err)
	return uri
}

func seedList(t *testing.T, ds *memory.Datastore, owner string, members ...string) string {
	t.Helper()
	at := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	uri := fmt.Sprintf("at://%s/app.skylark.graph.list/%d", owner, len(members))
	err := ds.PutList(context.Background(), storage.ListRecord{
		URI: uri, CID: "listcid", Creator: owner, Name: "list",
		CreatedAt: at, IndexedAt: at,
	})
	require.NoError(t, err)
	for i, m := range members {
		err := ds.PutListItem(context.Background(), storage.ListItemRecord{
			URI: fmt.Sprintf("%s/item/%d", uri, i), CID: fmt.Sprintf("item%d-%s", i, m),
			ListURI: uri, SubjectDID: m,
			CreatedAt: at, IndexedAt: at,
		})
		require.NoError(t, err)
	}
	return uri
}

func TestGetRelationshipsOrderAndNeutralStates(t *testing.T) {
	defer goleak.VerifyNone(t)

	ds := memory.New()
	followURI := seedEdge(t, ds, storage.EdgeFollow, viewer, bob)
	// Stored self-edges must not surface.
	seedEdge(t, ds, storage.EdgeFollow, viewer, viewer)
	seedEdge(t, ds, storage.EdgeBlock, viewer, viewer)

	resolver := NewResolver(ds)
	rels, err := resolver.GetRelationships(context.Background(), viewer, []string{bob, viewer, "did:plc:unknown", bob})
	require.NoError(t, err)
	require.Len(t, rels, 4)

	require.Equal(t, bob, rels[0].DID)
	require.Equal(t, followURI, rels[0].Following)

	// Self-pair resolves neutral regardless of stored edges.
	require.Equal(t, Relationship{DID: viewer}, rels[1])

	// Unknown target resolves neutral, not an error.
	require.Equal(t, Relationship{DID: "did:plc:unknown"}, rels[2])

	// Duplicate input targets each get their own entry.
	require.Equal(t, rels[0], rels[3])
}

func TestGetRelationshipsFollowingAndListBlockBothSurface(t *testing.T) {
	ds := memory.New()

	// Viewer follows bob; bob is on a list the viewer has blocked.
	// Following and list-blocking are independent and both surface.
	followURI := seedEdge(t, ds, storage.EdgeFollow, viewer, bob)
	listURI := seedList(t, ds, carol, bob)
	require.NoError(t, ds.PutEdge(context.Background(), storage.EdgeRecord{
		URI: "at://" + viewer + "/app.skylark.graph.listblock/1", CID: "lb",
		Kind: storage.EdgeListBlock, Creator: viewer, Subject: listURI,
		CreatedAt: time.Now().UTC(), IndexedAt: time.Now().UTC(),
	}))

	resolver := NewResolver(ds)
	rels, err := resolver.GetRelationships(context.Background(), viewer, []string{bob})
	require.NoError(t, err)
	require.Equal(t, followURI, rels[0].Following)
	require.Equal(t, listURI, rels[0].BlockingByList)
	require.True(t, rels[0].Blocked())
}

func TestGetRelationshipsDirectEdges(t *testing.T) {
	ds := memory.New()

	blockURI := seedEdge(t, ds, storage.EdgeBlock, viewer, bob)
	seedEdge(t, ds, storage.EdgeBlock, carol, viewer)
	seedEdge(t, ds, storage.EdgeMute, viewer, dan)
	followedByURI := seedEdge(t, ds, storage.EdgeFollow, dan, viewer)

	resolver := NewResolver(ds)
	rels, err := resolver.GetRelationships(context.Background(), viewer, []string{bob, carol, dan})
	require.NoError(t, err)

	want := []Relationship{
		{DID: bob, Blocking: blockURI},
		{DID: carol, BlockedBy: true},
		{DID: dan, Muted: true, FollowedBy: followedByURI},
	}
	if diff := cmp.Diff(want, rels); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestGetRelationshipsMutedByList(t *testing.T) {
	ds := memory.New()

	listURI := seedList(t, ds, carol, bob)
	require.NoError(t, ds.PutEdge(context.Background(), storage.EdgeRecord{
		URI: "at://" + viewer + "/app.skylark.graph.listmute/1", CID: "lm",
		Kind: storage.EdgeListMute, Creator: viewer, Subject: listURI,
		CreatedAt: time.Now().UTC(), IndexedAt: time.Now().UTC(),
	}))

	resolver := NewResolver(ds)
	rels, err := resolver.GetRelationships(context.Background(), viewer, []string{bob})
	require.NoError(t, err)
	require.True(t, rels[0].Muted)
	require.Equal(t, listURI, rels[0].MutedByList)
}

func TestGetRelationshipsNoViewerSkipsStorage(t *testing.T) {
	ctrl := gomock.NewController(t)
	ds := mocks.NewMockDataStore(ctrl)
	// No expectations: any storage call fails the test.

	resolver := NewResolver(ds)
	rels, err := resolver.GetRelationships(context.Background(), "", []string{bob})
	require.NoError(t, err)
	require.Equal(t, []Relationship{{DID: bob}}, rels)
}

func TestGetBlockExistenceSymmetric(t *testing.T) {
	ds := memory.New()
	seedEdge(t, ds, storage.EdgeBlock, viewer, bob)

	resolver := NewResolver(ds)

	forward, err := resolver.GetBlockExistence(context.Background(), []Pair{{A: viewer, B: bob}})
	require.NoError(t, err)
	reverse, err := resolver.GetBlockExistence(context.Background(), []Pair{{A: bob, B: viewer}})
	require.NoError(t, err)

	require.Equal(t, forward, reverse)
	require.True(t, forward[0])
}

func TestGetBlockExistenceViaListEitherDirection(t *testing.T) {
	ds := memory.New()

	// bob blocked a list containing the viewer. The pair is blocked in
	// both orientations even though the viewer holds no edge.
	listURI := seedList(t, ds, carol, viewer)
	require.NoError(t, ds.PutEdge(context.Background(), storage.EdgeRecord{
		URI: "at://" + bob + "/app.skylark.graph.listblock/1", CID: "lb2",
		Kind: storage.EdgeListBlock, Creator: bob, Subject: listURI,
		CreatedAt: time.Now().UTC(), IndexedAt: time.Now().UTC(),
	}))

	resolver := NewResolver(ds)
	got, err := resolver.GetBlockExistence(context.Background(), []Pair{
		{A: viewer, B: bob},
		{A: bob, B: viewer},
		{A: viewer, B: carol},
		{A: viewer, B: viewer},
	})
	require.NoError(t, err)
	require.Equal(t, []bool{true, true, false, false}, got)
}

func TestGetBlockExistenceEmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	ds := mocks.NewMockDataStore(ctrl)

	resolver := NewResolver(ds)
	got, err := resolver.GetBlockExistence(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFollowCounts(t *testing.T) {
	ds := memory.New()
	require.NoError(t, ds.PutActorAggregates(context.Background(), bob, storage.ActorAggregates{
		Followers: 12, Follows: 34,
	}))

	resolver := NewResolver(ds)

	follows, err := resolver.GetFollowCounts(context.Background(), []string{bob, carol})
	require.NoError(t, err)
	require.Equal(t, []int64{34, 0}, follows)

	followers, err := resolver.GetFollowerCounts(context.Background(), []string{carol, bob})
	require.NoError(t, err)
	require.Equal(t, []int64{0, 12}, followers)
}

func TestCountsEmptyInputNoStorageCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	ds := mocks.NewMockDataStore(ctrl)

	resolver := NewResolver(ds)
	got, err := resolver.GetFollowCounts(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, got)
}
