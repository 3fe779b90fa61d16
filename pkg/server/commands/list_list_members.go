package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/skylark-social/skylark/pkg/hydration"
	"github.com/skylark-social/skylark/pkg/identity"
	"github.com/skylark-social/skylark/pkg/logger"
	"github.com/skylark-social/skylark/pkg/pipeline"
	serverErrors "github.com/skylark-social/skylark/pkg/server/errors"
	"github.com/skylark-social/skylark/pkg/storage"
	"github.com/skylark-social/skylark/pkg/views"
)

type ListListMembersRequest struct {
	// List is the at-uri of the list.
	List   string
	Limit  int
	Cursor string
	Viewer string
}

// ListMember is one entry of a list page: the membership record's uri
// plus the member's profile.
type ListMember struct {
	URI     string            `json:"uri"`
	Subject views.ProfileView `json:"subject"`
}

type ListListMembersResponse struct {
	List    views.ListView `json:"list"`
	Members []ListMember   `json:"items"`
	Cursor  string         `json:"cursor,omitempty"`
}

// listMembersSkeleton is the resolved list plus one membership page.
type listMembersSkeleton struct {
	list   storage.ListRecord
	items  []storage.ListItemRecord
	cursor string
}

// ListListMembersQuery pages through a list's membership.
type ListListMembersQuery struct {
	deps   deps
	logger logger.Logger

	pipeline *pipeline.Pipeline[ListListMembersRequest, listMembersSkeleton, hydration.State, *ListListMembersResponse]
}

type ListListMembersQueryOption func(*ListListMembersQuery)

func WithListListMembersQueryLogger(l logger.Logger) ListListMembersQueryOption {
	return func(q *ListListMembersQuery) {
		q.logger = l
	}
}

func NewListListMembersQuery(datastore storage.DataStore, opts ...ListListMembersQueryOption) *ListListMembersQuery {
	q := &ListListMembersQuery{
		deps:   newDeps(datastore),
		logger: logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.pipeline = pipeline.New(q.skeleton, q.hydrate, q.rules, q.present)
	return q
}

func (q *ListListMembersQuery) Execute(ctx context.Context, req ListListMembersRequest) (*ListListMembersResponse, error) {
	return q.pipeline.Run(ctx, req)
}

func (q *ListListMembersQuery) skeleton(ctx context.Context, req ListListMembersRequest) (listMembersSkeleton, error) {
	if !identity.IsATURI(req.List) {
		return listMembersSkeleton{}, serverErrors.InvalidRequest("expected an at-uri: %s", req.List)
	}
	lists, err := q.deps.datastore.GetLists(ctx, []string{req.List})
	if err != nil {
		return listMembersSkeleton{}, serverErrors.Classify(err)
	}
	list, ok := lists[req.List]
	if !ok {
		return listMembersSkeleton{}, serverErrors.NotFound("List not found: %s", req.List)
	}

	opts := storage.NewReadPageOptions(req.Limit, req.Cursor)
	items, cursor, err := q.deps.datastore.ListListMembers(ctx, req.List, opts)
	if err != nil {
		return listMembersSkeleton{}, serverErrors.Classify(err)
	}
	return listMembersSkeleton{list: list, items: items, cursor: cursor}, nil
}

func (q *ListListMembersQuery) hydrate(ctx context.Context, req ListListMembersRequest, skeleton listMembersSkeleton) (hydration.State, error) {
	dids := make([]string, 0, len(skeleton.items))
	for _, item := range skeleton.items {
		dids = append(dids, item.SubjectDID)
	}
	state, err := q.deps.hydrator.HydrateProfiles(ctx, dids, hydration.Context{ViewerDID: req.Viewer})
	if err != nil {
		return hydration.State{}, serverErrors.Classify(err)
	}
	return state, nil
}

func (q *ListListMembersQuery) rules(_ context.Context, _ ListListMembersRequest, _ listMembersSkeleton, state hydration.State) (hydration.State, error) {
	return state, nil
}

func (q *ListListMembersQuery) present(_ context.Context, _ ListListMembersRequest, skeleton listMembersSkeleton, state hydration.State) (*ListListMembersResponse, error) {
	resp := &ListListMembersResponse{
		List:    views.NewListView(skeleton.list),
		Members: []ListMember{},
		Cursor:  skeleton.cursor,
	}
	hidden := 0
	for _, item := range skeleton.items {
		profile := views.NewProfileView(item.SubjectDID, state)
		if profile == nil {
			hidden++
			continue
		}
		resp.Members = append(resp.Members, ListMember{URI: item.URI, Subject: *profile})
	}
	if hidden > 0 {
		q.logger.Debug("dropped hidden list members", zap.Int("count", hidden))
	}
	return resp, nil
}
