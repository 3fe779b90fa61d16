// Package server exposes the read queries over JSON HTTP, one route
// per query under /xrpc. Transport stays thin: parse, execute, render.
package server

import (
	"context"
	"net/http"

	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/skylark-social/skylark/pkg/logger"
	"github.com/skylark-social/skylark/pkg/server/commands"
	"github.com/skylark-social/skylark/pkg/storage"
)

// Header names the transport reads and writes. Viewer identity arrives
// pre-verified from the fronting proxy; this service does not check
// credentials itself.
const (
	HeaderViewer           = "x-skylark-viewer"
	HeaderIncludeTakedowns = "x-skylark-include-takedowns"
	HeaderRepoRev          = "x-skylark-repo-rev"
	HeaderRequestID        = "x-request-id"
)

// Server wires the query objects to an HTTP mux.
type Server struct {
	datastore   storage.DataStore
	logger      logger.Logger
	corsOrigins []string

	getProfile        *commands.GetProfileQuery
	getProfiles       *commands.GetProfilesQuery
	listFollowers     *commands.ListFollowersQuery
	listFollows       *commands.ListFollowsQuery
	listRepostedBy    *commands.ListRepostedByQuery
	listLikedBy       *commands.ListLikedByQuery
	getRelationships  *commands.GetRelationshipsQuery
	getBlockExistence *commands.GetBlockExistenceQuery
	listListMembers   *commands.ListListMembersQuery
	getServices       *commands.GetServicesQuery
}

type ServerOption func(*Server)

func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

func WithCORSAllowedOrigins(origins []string) ServerOption {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

func New(datastore storage.DataStore, opts ...ServerOption) *Server {
	s := &Server{
		datastore:   datastore,
		logger:      logger.NewNoopLogger(),
		corsOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.getProfile = commands.NewGetProfileQuery(datastore, commands.WithGetProfileQueryLogger(s.logger))
	s.getProfiles = commands.NewGetProfilesQuery(datastore, commands.WithGetProfilesQueryLogger(s.logger))
	s.listFollowers = commands.NewListFollowersQuery(datastore, commands.WithListFollowersQueryLogger(s.logger))
	s.listFollows = commands.NewListFollowsQuery(datastore, commands.WithListFollowsQueryLogger(s.logger))
	s.listRepostedBy = commands.NewListRepostedByQuery(datastore, commands.WithListRepostedByQueryLogger(s.logger))
	s.listLikedBy = commands.NewListLikedByQuery(datastore, commands.WithListLikedByQueryLogger(s.logger))
	s.getRelationships = commands.NewGetRelationshipsQuery(datastore, commands.WithGetRelationshipsQueryLogger(s.logger))
	s.getBlockExistence = commands.NewGetBlockExistenceQuery(datastore, commands.WithGetBlockExistenceQueryLogger(s.logger))
	s.listListMembers = commands.NewListListMembersQuery(datastore, commands.WithListListMembersQueryLogger(s.logger))
	s.getServices = commands.NewGetServicesQuery(datastore, commands.WithGetServicesQueryLogger(s.logger))
	return s
}

// Handler builds the route table with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /xrpc/app.skylark.actor.getProfile", s.handleGetProfile)
	mux.HandleFunc("GET /xrpc/app.skylark.actor.getProfiles", s.handleGetProfiles)
	mux.HandleFunc("GET /xrpc/app.skylark.graph.getFollowers", s.handleListFollowers)
	mux.HandleFunc("GET /xrpc/app.skylark.graph.getFollows", s.handleListFollows)
	mux.HandleFunc("GET /xrpc/app.skylark.feed.getRepostedBy", s.handleListRepostedBy)
	mux.HandleFunc("GET /xrpc/app.skylark.feed.getLikes", s.handleListLikedBy)
	mux.HandleFunc("GET /xrpc/app.skylark.graph.getRelationships", s.handleGetRelationships)
	mux.HandleFunc("GET /xrpc/app.skylark.graph.getBlockExistence", s.handleGetBlockExistence)
	mux.HandleFunc("GET /xrpc/app.skylark.graph.getList", s.handleListListMembers)
	mux.HandleFunc("GET /xrpc/app.skylark.labeler.getServices", s.handleGetServices)

	mux.HandleFunc("GET /healthz", s.handleHealth)

	var handler http.Handler = mux
	handler = s.requestLogger(handler)
	handler = requestID(handler)
	handler = instrumentMetrics(handler)
	handler = otelhttp.NewHandler(handler, "skylark")
	handler = cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedHeaders: []string{"*"},
	}).Handler(handler)
	return handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.datastore.IsReady(r.Context()); err != nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// IsReady reports datastore readiness, used by the run command before
// accepting traffic.
func (s *Server) IsReady(ctx context.Context) error {
	return s.datastore.IsReady(ctx)
}
