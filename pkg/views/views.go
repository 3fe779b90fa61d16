// Package views maps hydrated state to response shapes. Everything
// here is a pure function of its inputs.
package views

import (
	"github.com/skylark-social/skylark/pkg/graph"
	"github.com/skylark-social/skylark/pkg/hydration"
	"github.com/skylark-social/skylark/pkg/identity"
	"github.com/skylark-social/skylark/pkg/storage"
)

// InvalidHandle is served for accounts whose handle is unresolved.
const InvalidHandle = "handle.invalid"

// ViewerState is the viewer's relationship to a profile.
type ViewerState struct {
	Muted          bool   `json:"muted,omitempty"`
	MutedByList    string `json:"mutedByList,omitempty"`
	BlockedBy      bool   `json:"blockedBy,omitempty"`
	Blocking       string `json:"blocking,omitempty"`
	BlockingByList string `json:"blockingByList,omitempty"`
	Following      string `json:"following,omitempty"`
	FollowedBy     string `json:"followedBy,omitempty"`
}

// ProfileView is the basic profile shape embedded in listings.
type ProfileView struct {
	DID       string       `json:"did"`
	Handle    string       `json:"handle"`
	Kind      string       `json:"kind,omitempty"`
	CreatedAt string       `json:"createdAt,omitempty"`
	IndexedAt string       `json:"indexedAt,omitempty"`
	Viewer    *ViewerState `json:"viewer,omitempty"`
}

// ProfileViewDetailed adds aggregate counts to the basic shape.
type ProfileViewDetailed struct {
	ProfileView
	FollowersCount int64 `json:"followersCount"`
	FollowsCount   int64 `json:"followsCount"`
	PostsCount     int64 `json:"postsCount"`
	ListsCount     int64 `json:"listsCount"`
	FeedsCount     int64 `json:"feedsCount"`
}

// RelationshipView is one entry of a getRelationships response.
type RelationshipView struct {
	DID        string `json:"did"`
	Following  string `json:"following,omitempty"`
	FollowedBy string `json:"followedBy,omitempty"`
}

// ListView is a curated list header.
type ListView struct {
	URI       string `json:"uri"`
	CID       string `json:"cid"`
	Creator   string `json:"creator"`
	Name      string `json:"name"`
	Purpose   string `json:"purpose,omitempty"`
	IndexedAt string `json:"indexedAt,omitempty"`
}

// NewListView renders the list header.
func NewListView(list storage.ListRecord) ListView {
	view := ListView{
		URI:     list.URI,
		CID:     list.CID,
		Creator: list.Creator,
		Name:    list.Name,
		Purpose: list.Purpose,
	}
	if !list.IndexedAt.IsZero() {
		view.IndexedAt = storage.FormatTime(list.IndexedAt)
	}
	return view
}

// ServiceView is a labeler/service account view.
type ServiceView struct {
	DID       string       `json:"did"`
	Handle    string       `json:"handle"`
	CreatedAt string       `json:"createdAt,omitempty"`
	IndexedAt string       `json:"indexedAt,omitempty"`
	Viewer    *ViewerState `json:"viewer,omitempty"`
	LikeCount *int64       `json:"likeCount,omitempty"`
}

// NewViewerState maps the resolved relationship for one target, or nil
// when there is no viewer.
func NewViewerState(rel *graph.Relationship) *ViewerState {
	if rel == nil {
		return nil
	}
	return &ViewerState{
		Muted:          rel.Muted,
		MutedByList:    rel.MutedByList,
		BlockedBy:      rel.BlockedBy,
		Blocking:       rel.Blocking,
		BlockingByList: rel.BlockingByList,
		Following:      rel.Following,
		FollowedBy:     rel.FollowedBy,
	}
}

// NewProfileView renders the profile for one DID out of hydrated
// state, or nil when the actor is hidden or unknown.
func NewProfileView(did string, state hydration.State) *ProfileView {
	actor, ok := state.Actors.Get(did)
	if !ok || actor == nil {
		return nil
	}
	handle := actor.Handle
	if handle == "" {
		handle = InvalidHandle
	}
	view := &ProfileView{
		DID:    did,
		Handle: handle,
		Kind:   string(actor.Kind),
		Viewer: NewViewerState(state.ViewerStates[did]),
	}
	if !actor.CreatedAt.IsZero() {
		view.CreatedAt = storage.FormatTime(actor.CreatedAt)
	}
	if !actor.ProfileIndexedAt.IsZero() {
		view.IndexedAt = storage.FormatTime(actor.ProfileIndexedAt)
	}
	return view
}

// NewProfileViewDetailed renders the detailed profile, with counts
// from aggregates. Missing aggregate rows render as zero counts.
func NewProfileViewDetailed(did string, state hydration.State) *ProfileViewDetailed {
	base := NewProfileView(did, state)
	if base == nil {
		return nil
	}
	view := &ProfileViewDetailed{ProfileView: *base}
	if aggs, ok := state.Aggregates.Get(did); ok && aggs != nil {
		view.FollowersCount = aggs.Followers
		view.FollowsCount = aggs.Follows
		view.PostsCount = aggs.Posts
		view.ListsCount = aggs.Lists
		view.FeedsCount = aggs.Feeds
	}
	return view
}

// NewRelationshipView renders the pairwise relationship entry.
func NewRelationshipView(rel graph.Relationship) RelationshipView {
	return RelationshipView{
		DID:        rel.DID,
		Following:  rel.Following,
		FollowedBy: rel.FollowedBy,
	}
}

// NewServiceView renders a service account, or nil when hidden.
// likeCount is attached only for detailed requests.
func NewServiceView(did string, state hydration.State, detailed bool) *ServiceView {
	actor, ok := state.Actors.Get(did)
	if !ok || actor == nil {
		return nil
	}
	handle := actor.Handle
	if handle == "" {
		handle = InvalidHandle
	}
	view := &ServiceView{
		DID:    did,
		Handle: handle,
		Viewer: NewViewerState(state.ViewerStates[did]),
	}
	if !actor.CreatedAt.IsZero() {
		view.CreatedAt = storage.FormatTime(actor.CreatedAt)
	}
	if !actor.ProfileIndexedAt.IsZero() {
		view.IndexedAt = storage.FormatTime(actor.ProfileIndexedAt)
	}
	if detailed {
		var likes int64
		if aggs, ok := state.Aggregates.Get(did); ok && aggs != nil {
			likes = aggs.Likes
		}
		view.LikeCount = &likes
	}
	return view
}

// ProfileURI returns the at-uri of an actor's profile record.
func ProfileURI(did string) string {
	return identity.ProfileURI(did)
}
