// Package storage contains the datastore interfaces and record types
// consumed by the read path, plus the keyset pagination primitive.
//
//go:generate mockgen -destination ../../internal/mocks/mock_storage.go -package mocks github.com/skylark-social/skylark/pkg/storage DataStore
package storage

import (
	"context"
	"time"
)

const (
	// DefaultPageSize is applied when a caller does not specify a limit.
	DefaultPageSize = 50

	// MaxPageSize bounds the limit a caller may request.
	MaxPageSize = 100
)

// timeLayout is the canonical wire/storage encoding for timestamps. A
// fixed-width layout keeps lexicographic and chronological order in
// agreement, which the keyset predicates rely on.
const timeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t in the canonical fixed-width UTC layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTime parses a timestamp previously rendered by FormatTime.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// EdgeKind identifies one of the directed relation tables.
type EdgeKind string

const (
	EdgeFollow    EdgeKind = "follow"
	EdgeBlock     EdgeKind = "block"
	EdgeMute      EdgeKind = "mute"
	EdgeRepost    EdgeKind = "repost"
	EdgeLike      EdgeKind = "like"
	EdgeListBlock EdgeKind = "listblock"
	EdgeListMute  EdgeKind = "listmute"
)

// EdgeRecord is a directed relation between a creator and a subject.
// Subject is a DID for actor-to-actor edges (follow, block, mute), the
// list's AT-URI for listblock/listmute, and the record's AT-URI for
// repost/like. At most one edge of a given kind exists per ordered
// (creator, subject) pair; the backends enforce this with a uniqueness
// constraint.
type EdgeRecord struct {
	URI       string
	CID       string
	Kind      EdgeKind
	Creator   string
	Subject   string
	CreatedAt time.Time
	IndexedAt time.Time

	// SortAt is min(CreatedAt, IndexedAt), computed once at write time.
	// An edge indexed late still sorts by its claimed creation time but
	// never before it was actually observed.
	SortAt time.Time
}

// ComputeSortAt returns the canonical ordering key for an edge.
func ComputeSortAt(createdAt, indexedAt time.Time) time.Time {
	if createdAt.Before(indexedAt) {
		return createdAt
	}
	return indexedAt
}

// PrimaryKey implements Keyed.
func (e EdgeRecord) PrimaryKey() time.Time { return e.SortAt }

// SecondaryKey implements Keyed.
func (e EdgeRecord) SecondaryKey() string { return e.CID }

// ActorKind tags the single account entity with its flavor. The read
// path treats both kinds through one lifecycle state machine.
type ActorKind string

const (
	ActorKindPerson  ActorKind = "person"
	ActorKindService ActorKind = "service"
)

// ActorRecord is an account row. Zero-valued optional fields mean "not
// set": an empty TakedownRef is an account that is not taken down, a
// nil DeactivatedAt is an active account.
type ActorRecord struct {
	DID       string
	Handle    string
	Kind      ActorKind
	CreatedAt time.Time

	TakedownRef   string
	DeactivatedAt *time.Time
	DeleteAfter   *time.Time
	TombstonedAt  *time.Time

	ProfileCID         string
	ProfileIndexedAt   *time.Time
	ProfileTakedownRef string
}

// Active reports whether the account is in the active lifecycle state.
func (a ActorRecord) Active() bool {
	return a.DeactivatedAt == nil && a.TombstonedAt == nil
}

// TakenDown reports whether a moderation takedown applies to the account.
func (a ActorRecord) TakenDown() bool {
	return a.TakedownRef != ""
}

// ListRecord is a curated named set owned by a creator.
type ListRecord struct {
	URI       string
	CID       string
	Creator   string
	Name      string
	Purpose   string
	CreatedAt time.Time
	IndexedAt time.Time
	SortAt    time.Time
}

// ListItemRecord is a membership edge from a list to a subject DID.
type ListItemRecord struct {
	URI        string
	CID        string
	ListURI    string
	SubjectDID string
	CreatedAt  time.Time
	IndexedAt  time.Time
	SortAt     time.Time
}

// PrimaryKey implements Keyed.
func (li ListItemRecord) PrimaryKey() time.Time { return li.SortAt }

// SecondaryKey implements Keyed.
func (li ListItemRecord) SecondaryKey() string { return li.CID }

// ListIndirectionRow is one hit from joining list membership against a
// listblock/listmute edge: Creator applied the list-level edge, and
// SubjectDID is currently a member of that list.
type ListIndirectionRow struct {
	Creator    string
	SubjectDID string
	ListURI    string
}

// ActorAggregates are the precomputed per-account counts. A missing
// aggregates row reads as all zeros, never as an error.
type ActorAggregates struct {
	Followers int64
	Follows   int64
	Posts     int64
	Lists     int64
	Feeds     int64
	Likes     int64
}

// EdgeFilter narrows an edge page query. Exactly one of Creator or
// Subject must be set: Creator lists edges fanning out from an account,
// Subject lists edges pointing at an account or record.
type EdgeFilter struct {
	Creator string
	Subject string
}

// ReadPageOptions carries the pagination inputs of a listing query.
type ReadPageOptions struct {
	Limit  int
	Cursor string

	// TryIndex has the SQL backends phrase the cursor predicate as a
	// row-value comparison on (primary, secondary), which the planner
	// satisfies with a single seek on the composite keyset index. It
	// admits exactly the rows the expanded OR form does, so output is
	// identical either way.
	TryIndex bool
}

// NewReadPageOptions clamps the caller-supplied limit into [1, MaxPageSize],
// applying DefaultPageSize when the limit is unset.
func NewReadPageOptions(limit int, cursor string) ReadPageOptions {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return ReadPageOptions{Limit: limit, Cursor: cursor}
}

// GraphReader is the batched edge-lookup surface the relationship
// resolver is built on. Implementations answer each call in a single
// round trip regardless of batch size.
type GraphReader interface {
	// ReadEdges returns every edge of the given kind whose creator is in
	// creators and whose subject is in subjects. Row order is not
	// guaranteed; callers re-key by (creator, subject).
	ReadEdges(ctx context.Context, kind EdgeKind, creators, subjects []string) ([]EdgeRecord, error)

	// ReadEdgePage returns one keyset-ordered page of edges matching the
	// filter, newest first, plus the packed cursor of the last row. An
	// empty cursor means the result set is exhausted.
	ReadEdgePage(ctx context.Context, kind EdgeKind, filter EdgeFilter, opts ReadPageOptions) ([]EdgeRecord, string, error)

	// ReadListIndirection joins current list membership against
	// listblock/listmute edges: it returns a row for each (creator in
	// creators, subject in subjects) pair connected through a list that
	// still exists. Row order is not guaranteed.
	ReadListIndirection(ctx context.Context, kind EdgeKind, creators, subjects []string) ([]ListIndirectionRow, error)
}

// ActorReader is the batched entity-lookup surface used by hydrators.
type ActorReader interface {
	// GetActors fetches account rows by DID. Absent keys in the result
	// mean the account does not exist.
	GetActors(ctx context.Context, dids []string) (map[string]ActorRecord, error)

	// GetDIDsByHandles resolves handles to DIDs. Unresolvable handles
	// are absent from the result.
	GetDIDsByHandles(ctx context.Context, handles []string) (map[string]string, error)

	// GetActorAggregates fetches precomputed counts by DID. Absent keys
	// mean no aggregates row; callers read that as zeros.
	GetActorAggregates(ctx context.Context, dids []string) (map[string]ActorAggregates, error)

	// GetLists fetches list rows by AT-URI.
	GetLists(ctx context.Context, uris []string) (map[string]ListRecord, error)

	// ListListMembers returns one keyset-ordered page of a list's
	// membership, newest first.
	ListListMembers(ctx context.Context, listURI string, opts ReadPageOptions) ([]ListItemRecord, string, error)

	// GetRepoRev returns the last indexed repo revision for an account,
	// or ErrNotFound. The field is advisory; callers treat failures as
	// "unknown" rather than failing a request.
	GetRepoRev(ctx context.Context, did string) (string, error)
}

// Writer is the indexing-side surface. The request pipeline never
// writes; this exists for the ingestion path and for tests.
type Writer interface {
	PutActor(ctx context.Context, actor ActorRecord) error

	// TakedownActor applies a moderation takedown. Takedown is
	// orthogonal to deactivation and reversible via ClearActorTakedown.
	TakedownActor(ctx context.Context, did, ref string) error
	ClearActorTakedown(ctx context.Context, did string) error

	// DeactivateActor moves an active account to the deactivated state,
	// retaining the handle and scheduling deletion at deleteAfter.
	DeactivateActor(ctx context.Context, did string, deleteAfter time.Time) error

	// ActivateActor reverses a deactivation.
	ActivateActor(ctx context.Context, did string) error

	// DeleteActor removes the account row entirely. Irreversible.
	DeleteActor(ctx context.Context, did string) error

	// PutEdge stores an edge, computing SortAt when unset. Writing a
	// second edge of the same kind for the same (creator, subject) pair
	// returns ErrCollision.
	PutEdge(ctx context.Context, edge EdgeRecord) error
	DeleteEdge(ctx context.Context, kind EdgeKind, creator, subject string) error

	PutList(ctx context.Context, list ListRecord) error
	PutListItem(ctx context.Context, item ListItemRecord) error
	DeleteListItem(ctx context.Context, listURI, subjectDID string) error

	PutActorAggregates(ctx context.Context, did string, aggs ActorAggregates) error
	PutRepoRev(ctx context.Context, did, rev string) error
}

// DataStore is the full storage collaborator contract.
type DataStore interface {
	GraphReader
	ActorReader
	Writer

	// IsReady probes the backing store, used by startup checks and the
	// health endpoint.
	IsReady(ctx context.Context) error

	Close()
}
