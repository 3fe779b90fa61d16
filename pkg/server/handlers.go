package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/skylark-social/skylark/pkg/server/commands"
	serverErrors "github.com/skylark-social/skylark/pkg/server/errors"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	reqErr := serverErrors.Classify(err)
	if reqErr.Kind == serverErrors.KindInternal {
		s.logger.Error("request failed", zap.Error(err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reqErr.HTTPStatus())
	_ = json.NewEncoder(w).Encode(errorBody{
		Error:   string(reqErr.Kind),
		Message: reqErr.Message,
	})
}

func viewer(r *http.Request) string {
	return r.Header.Get(HeaderViewer)
}

func includeTakedowns(r *http.Request) bool {
	return r.Header.Get(HeaderIncludeTakedowns) == "true"
}

func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, serverErrors.InvalidRequest("invalid limit: %s", raw)
	}
	return limit, nil
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := s.getProfile.Execute(r.Context(), commands.GetProfileRequest{
		Actor:            r.URL.Query().Get("actor"),
		Viewer:           viewer(r),
		IncludeTakedowns: includeTakedowns(r),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if resp.RepoRev != "" {
		w.Header().Set(HeaderRepoRev, resp.RepoRev)
	}
	s.writeJSON(w, resp.Profile)
}

func (s *Server) handleGetProfiles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.getProfiles.Execute(r.Context(), commands.GetProfilesRequest{
		Actors:           r.URL.Query()["actors"],
		Viewer:           viewer(r),
		IncludeTakedowns: includeTakedowns(r),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleListFollowers(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.listFollowers.Execute(r.Context(), commands.ListFollowersRequest{
		Actor:  r.URL.Query().Get("actor"),
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
		Viewer: viewer(r),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleListFollows(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.listFollows.Execute(r.Context(), commands.ListFollowsRequest{
		Actor:  r.URL.Query().Get("actor"),
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
		Viewer: viewer(r),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleListRepostedBy(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.listRepostedBy.Execute(r.Context(), commands.ListRepostedByRequest{
		URI:    r.URL.Query().Get("uri"),
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
		Viewer: viewer(r),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleListLikedBy(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.listLikedBy.Execute(r.Context(), commands.ListLikedByRequest{
		URI:    r.URL.Query().Get("uri"),
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
		Viewer: viewer(r),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleGetRelationships(w http.ResponseWriter, r *http.Request) {
	resp, err := s.getRelationships.Execute(r.Context(), commands.GetRelationshipsRequest{
		Actor:  r.URL.Query().Get("actor"),
		Others: r.URL.Query()["others"],
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, resp)
}

// handleGetBlockExistence reads pairs as repeated "pairs=didA,didB"
// query parameters.
func (s *Server) handleGetBlockExistence(w http.ResponseWriter, r *http.Request) {
	var pairs []commands.BlockPair
	for _, raw := range r.URL.Query()["pairs"] {
		parts := strings.Split(raw, ",")
		if len(parts) != 2 {
			s.writeError(w, serverErrors.InvalidRequest("invalid pair: %s", raw))
			return
		}
		pairs = append(pairs, commands.BlockPair{A: parts[0], B: parts[1]})
	}
	resp, err := s.getBlockExistence.Execute(r.Context(), commands.GetBlockExistenceRequest{Pairs: pairs})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleListListMembers(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp, err := s.listListMembers.Execute(r.Context(), commands.ListListMembersRequest{
		List:   r.URL.Query().Get("list"),
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
		Viewer: viewer(r),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleGetServices(w http.ResponseWriter, r *http.Request) {
	resp, err := s.getServices.Execute(r.Context(), commands.GetServicesRequest{
		DIDs:     r.URL.Query()["dids"],
		Detailed: r.URL.Query().Get("detailed") == "true",
		Viewer:   viewer(r),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, resp)
}
