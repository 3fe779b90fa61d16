package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/skylark-social/skylark/pkg/logger"
	serverErrors "github.com/skylark-social/skylark/pkg/server/errors"
	"github.com/skylark-social/skylark/pkg/storage"
	"github.com/skylark-social/skylark/pkg/storage/memory"
)

func seedFollow(t *testing.T, ds *memory.Datastore, creator, subject string, at time.Time) {
	t.Helper()
	require.NoError(t, ds.PutEdge(context.Background(), storage.EdgeRecord{
		URI: fmt.Sprintf("at://%s/app.skylark.graph.follow/%s", creator, subject),
		CID: fmt.Sprintf("cid-%s-%s", creator, subject),
		Kind: storage.EdgeFollow, Creator: creator, Subject: subject,
		CreatedAt: at, IndexedAt: at,
	}))
}

func TestListFollowersPagination(t *testing.T) {
	ds := memory.New()
	ctx := context.Background()
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:alice", Handle: "alice.test"})
	base := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		did := fmt.Sprintf("did:plc:f%d", i)
		seedActor(t, ds, storage.ActorRecord{DID: did, Handle: fmt.Sprintf("f%d.test", i)})
		seedFollow(t, ds, did, "did:plc:alice", base.Add(time.Duration(i)*time.Minute))
	}

	query := NewListFollowersQuery(ds)

	page1, err := query.Execute(ctx, ListFollowersRequest{Actor: "alice.test", Limit: 2})
	require.NoError(t, err)
	require.Equal(t, "did:plc:alice", page1.Subject.DID)
	require.Len(t, page1.Followers, 2)
	require.NotEmpty(t, page1.Cursor)
	// Newest follow first.
	require.Equal(t, "did:plc:f2", page1.Followers[0].DID)
	require.Equal(t, "did:plc:f1", page1.Followers[1].DID)

	page2, err := query.Execute(ctx, ListFollowersRequest{Actor: "alice.test", Limit: 2, Cursor: page1.Cursor})
	require.NoError(t, err)
	require.Len(t, page2.Followers, 1)
	require.Equal(t, "did:plc:f0", page2.Followers[0].DID)
	require.Empty(t, page2.Cursor)
}

func TestListFollowersBlockFiltering(t *testing.T) {
	ds := memory.New()
	ctx := context.Background()
	at := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:alice", Handle: "alice.test"})
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:bob", Handle: "bob.test"})
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:carol", Handle: "carol.test"})
	seedFollow(t, ds, "did:plc:bob", "did:plc:alice", at)
	seedFollow(t, ds, "did:plc:carol", "did:plc:alice", at.Add(time.Minute))
	// Viewer blocks carol; carol drops from the page, leaving it short.
	require.NoError(t, ds.PutEdge(ctx, storage.EdgeRecord{
		URI: "at://did:plc:v/app.skylark.graph.block/carol", CID: "b1",
		Kind: storage.EdgeBlock, Creator: "did:plc:v", Subject: "did:plc:carol",
		CreatedAt: at, IndexedAt: at,
	}))

	query := NewListFollowersQuery(ds)

	resp, err := query.Execute(ctx, ListFollowersRequest{Actor: "alice.test", Viewer: "did:plc:v"})
	require.NoError(t, err)
	require.Len(t, resp.Followers, 1)
	require.Equal(t, "did:plc:bob", resp.Followers[0].DID)

	// Without a viewer nothing is filtered.
	resp, err = query.Execute(ctx, ListFollowersRequest{Actor: "alice.test"})
	require.NoError(t, err)
	require.Len(t, resp.Followers, 2)
}

func TestListFollowersLogsBlockDrops(t *testing.T) {
	ds := memory.New()
	ctx := context.Background()
	at := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:alice", Handle: "alice.test"})
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:carol", Handle: "carol.test"})
	seedFollow(t, ds, "did:plc:carol", "did:plc:alice", at)
	require.NoError(t, ds.PutEdge(ctx, storage.EdgeRecord{
		URI: "at://did:plc:v/app.skylark.graph.block/carol", CID: "b1",
		Kind: storage.EdgeBlock, Creator: "did:plc:v", Subject: "did:plc:carol",
		CreatedAt: at, IndexedAt: at,
	}))

	core, logs := observer.New(zapcore.DebugLevel)
	query := NewListFollowersQuery(ds, WithListFollowersQueryLogger(&logger.ZapLogger{Logger: zap.New(core)}))

	_, err := query.Execute(ctx, ListFollowersRequest{Actor: "alice.test", Viewer: "did:plc:v"})
	require.NoError(t, err)

	entries := logs.FilterMessage("dropped blocked followers").All()
	require.Len(t, entries, 1)
	require.Equal(t, int64(1), entries[0].ContextMap()["count"])
}

func TestListFollowersUnknownActor(t *testing.T) {
	query := NewListFollowersQuery(memory.New())

	_, err := query.Execute(context.Background(), ListFollowersRequest{Actor: "ghost.test"})
	var reqErr *serverErrors.RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, serverErrors.KindNotFound, reqErr.Kind)
}

func TestListFollowersInvalidCursor(t *testing.T) {
	ds := memory.New()
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:alice", Handle: "alice.test"})

	query := NewListFollowersQuery(ds)

	_, err := query.Execute(context.Background(), ListFollowersRequest{Actor: "alice.test", Cursor: "not-a-cursor"})
	var reqErr *serverErrors.RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, serverErrors.KindInvalidRequest, reqErr.Kind)
}

func TestListFollowsDirection(t *testing.T) {
	ds := memory.New()
	ctx := context.Background()
	at := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:alice", Handle: "alice.test"})
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:bob", Handle: "bob.test"})
	seedActor(t, ds, storage.ActorRecord{DID: "did:plc:carol", Handle: "carol.test"})
	// alice follows bob; carol follows alice.
	seedFollow(t, ds, "did:plc:alice", "did:plc:bob", at)
	seedFollow(t, ds, "did:plc:carol", "did:plc:alice", at)

	query := NewListFollowsQuery(ds)

	resp, err := query.Execute(ctx, ListFollowsRequest{Actor: "alice.test"})
	require.NoError(t, err)
	require.Len(t, resp.Follows, 1)
	require.Equal(t, "did:plc:bob", resp.Follows[0].DID)
}
