package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skylark-social/skylark/pkg/storage"
	"github.com/skylark-social/skylark/pkg/storage/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Datastore) {
	t.Helper()
	ds := memory.New()
	ts := httptest.NewServer(New(ds).Handler())
	t.Cleanup(ts.Close)
	return ts, ds
}

func get(t *testing.T, ts *httptest.Server, path string, params url.Values, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path+"?"+params.Encode(), nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestGetProfileRoute(t *testing.T) {
	ts, ds := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, ds.PutActor(ctx, storage.ActorRecord{
		DID: "did:plc:alice", Handle: "alice.test",
		CreatedAt: time.Date(2022, 8, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, ds.PutRepoRev(ctx, "did:plc:alice", "rev-1"))

	resp := get(t, ts, "/xrpc/app.skylark.actor.getProfile", url.Values{"actor": {"alice.test"}}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "rev-1", resp.Header.Get(HeaderRepoRev))
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NotEmpty(t, resp.Header.Get(HeaderRequestID))

	var body struct {
		DID       string `json:"did"`
		Handle    string `json:"handle"`
		CreatedAt string `json:"createdAt"`
	}
	decode(t, resp, &body)
	require.Equal(t, "did:plc:alice", body.DID)
	require.Equal(t, "alice.test", body.Handle)
	require.Equal(t, "2022-08-01T00:00:00.000Z", body.CreatedAt)
}

func TestGetProfileRouteNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := get(t, ts, "/xrpc/app.skylark.actor.getProfile", url.Values{"actor": {"ghost.test"}}, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body errorBody
	decode(t, resp, &body)
	require.Equal(t, "NotFound", body.Error)
	require.Contains(t, body.Message, "ghost.test")
}

func TestGetProfileRouteMissingActor(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := get(t, ts, "/xrpc/app.skylark.actor.getProfile", url.Values{}, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetFollowersRouteInvalidInputs(t *testing.T) {
	ts, ds := newTestServer(t)
	require.NoError(t, ds.PutActor(context.Background(), storage.ActorRecord{DID: "did:plc:alice", Handle: "alice.test"}))

	tests := map[string]url.Values{
		"bad limit":  {"actor": {"alice.test"}, "limit": {"abc"}},
		"bad cursor": {"actor": {"alice.test"}, "cursor": {"%%%"}},
	}
	for name, params := range tests {
		t.Run(name, func(t *testing.T) {
			resp := get(t, ts, "/xrpc/app.skylark.graph.getFollowers", params, nil)
			defer resp.Body.Close()
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestGetFollowersRouteViewerHeader(t *testing.T) {
	ts, ds := newTestServer(t)
	ctx := context.Background()
	at := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, ds.PutActor(ctx, storage.ActorRecord{DID: "did:plc:alice", Handle: "alice.test"}))
	require.NoError(t, ds.PutActor(ctx, storage.ActorRecord{DID: "did:plc:bob", Handle: "bob.test"}))
	require.NoError(t, ds.PutEdge(ctx, storage.EdgeRecord{
		URI: "at://did:plc:bob/app.skylark.graph.follow/1", CID: "f1",
		Kind: storage.EdgeFollow, Creator: "did:plc:bob", Subject: "did:plc:alice",
		CreatedAt: at, IndexedAt: at,
	}))
	require.NoError(t, ds.PutEdge(ctx, storage.EdgeRecord{
		URI: "at://did:plc:v/app.skylark.graph.block/1", CID: "b1",
		Kind: storage.EdgeBlock, Creator: "did:plc:v", Subject: "did:plc:bob",
		CreatedAt: at, IndexedAt: at,
	}))

	var body struct {
		Followers []struct {
			DID string `json:"did"`
		} `json:"followers"`
	}

	resp := get(t, ts, "/xrpc/app.skylark.graph.getFollowers", url.Values{"actor": {"alice.test"}}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &body)
	require.Len(t, body.Followers, 1)

	resp = get(t, ts, "/xrpc/app.skylark.graph.getFollowers", url.Values{"actor": {"alice.test"}},
		map[string]string{HeaderViewer: "did:plc:v"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body.Followers = nil
	decode(t, resp, &body)
	require.Empty(t, body.Followers)
}

func TestGetBlockExistenceRoute(t *testing.T) {
	ts, ds := newTestServer(t)
	ctx := context.Background()
	at := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, ds.PutEdge(ctx, storage.EdgeRecord{
		URI: "at://did:plc:a/app.skylark.graph.block/1", CID: "b1",
		Kind: storage.EdgeBlock, Creator: "did:plc:a", Subject: "did:plc:b",
		CreatedAt: at, IndexedAt: at,
	}))

	params := url.Values{"pairs": {"did:plc:b,did:plc:a", "did:plc:a,did:plc:c"}}
	resp := get(t, ts, "/xrpc/app.skylark.graph.getBlockExistence", params, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Blocks []struct {
			A       string `json:"a"`
			B       string `json:"b"`
			Blocked bool   `json:"blocked"`
		} `json:"blocks"`
	}
	decode(t, resp, &body)
	require.Len(t, body.Blocks, 2)
	require.True(t, body.Blocks[0].Blocked)
	require.False(t, body.Blocks[1].Blocked)

	resp = get(t, ts, "/xrpc/app.skylark.graph.getBlockExistence", url.Values{"pairs": {"did:plc:a"}}, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTakedownHeader(t *testing.T) {
	ts, ds := newTestServer(t)
	require.NoError(t, ds.PutActor(context.Background(), storage.ActorRecord{
		DID: "did:plc:bad", Handle: "bad.test", TakedownRef: "mod-1",
	}))

	resp := get(t, ts, "/xrpc/app.skylark.actor.getProfile", url.Values{"actor": {"bad.test"}}, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = get(t, ts, "/xrpc/app.skylark.actor.getProfile", url.Values{"actor": {"bad.test"}},
		map[string]string{HeaderIncludeTakedowns: "true"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthRoute(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := get(t, ts, "/healthz", url.Values{}, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestIDEchoed(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := get(t, ts, "/healthz", url.Values{}, map[string]string{HeaderRequestID: "req-123"})
	defer resp.Body.Close()
	require.Equal(t, "req-123", resp.Header.Get(HeaderRequestID))
}
