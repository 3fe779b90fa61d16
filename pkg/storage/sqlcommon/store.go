package sqlcommon

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"

	"github.com/skylark-social/skylark/pkg/storage"
)

var tracer = otel.Tracer("skylark/pkg/storage/sqlcommon")

var edgeColumns = []string{"uri", "cid", "kind", "creator", "subject", "created_at", "indexed_at", "sort_at"}

var actorColumns = []string{
	"did", "handle", "kind", "created_at",
	"takedown_ref", "deactivated_at", "delete_after", "tombstoned_at",
	"profile_cid", "profile_indexed_at", "profile_takedown_ref",
}

// Store implements the storage query surface shared by the SQL
// backends. Backends supply the opened handle, a statement builder with
// the right placeholder format, and a driver error handler.
type Store struct {
	db          *sql.DB
	stbl        sq.StatementBuilderType
	handleError ErrorHandler

	edgeKeyset   *storage.Keyset
	memberKeyset *storage.Keyset
}

// NewStore assembles the shared query layer.
func NewStore(db *sql.DB, stbl sq.StatementBuilderType, handleError ErrorHandler) *Store {
	return &Store{
		db:           db,
		stbl:         stbl,
		handleError:  handleError,
		edgeKeyset:   storage.NewKeyset("sort_at", "cid"),
		memberKeyset: storage.NewKeyset("sort_at", "cid"),
	}
}

// IsReady pings the backing database.
func (s *Store) IsReady(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func scanTime(raw string) (time.Time, error) {
	return storage.ParseTime(raw)
}

func scanNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := storage.ParseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanEdge(rows *sql.Rows) (storage.EdgeRecord, error) {
	var e storage.EdgeRecord
	var createdAt, indexedAt, sortAt string
	err := rows.Scan(&e.URI, &e.CID, &e.Kind, &e.Creator, &e.Subject, &createdAt, &indexedAt, &sortAt)
	if err != nil {
		return e, err
	}
	if e.CreatedAt, err = scanTime(createdAt); err != nil {
		return e, err
	}
	if e.IndexedAt, err = scanTime(indexedAt); err != nil {
		return e, err
	}
	if e.SortAt, err = scanTime(sortAt); err != nil {
		return e, err
	}
	return e, nil
}

func (s *Store) queryEdges(ctx context.Context, sb sq.SelectBuilder) ([]storage.EdgeRecord, error) {
	rows, err := sb.QueryContext(ctx)
	if err != nil {
		return nil, s.handleError(err)
	}
	defer rows.Close()

	var edges []storage.EdgeRecord
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, s.handleError(err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, s.handleError(err)
	}
	return edges, nil
}

// ReadEdges see [storage.GraphReader].ReadEdges.
func (s *Store) ReadEdges(ctx context.Context, kind storage.EdgeKind, creators, subjects []string) ([]storage.EdgeRecord, error) {
	ctx, span := tracer.Start(ctx, "sqlcommon.ReadEdges")
	defer span.End()

	if len(creators) == 0 || len(subjects) == 0 {
		return nil, nil
	}

	sb := s.stbl.
		Select(edgeColumns...).
		From("edge").
		Where(sq.Eq{"kind": kind, "creator": creators, "subject": subjects})

	return s.queryEdges(ctx, sb)
}

// ReadEdgePage see [storage.GraphReader].ReadEdgePage.
func (s *Store) ReadEdgePage(ctx context.Context, kind storage.EdgeKind, filter storage.EdgeFilter, opts storage.ReadPageOptions) ([]storage.EdgeRecord, string, error) {
	ctx, span := tracer.Start(ctx, "sqlcommon.ReadEdgePage")
	defer span.End()

	base := s.stbl.
		Select(edgeColumns...).
		From("edge").
		Where(sq.Eq{"kind": kind}).
		OrderBy(s.edgeKeyset.OrderBy(storage.DirectionOlder)...).
		Limit(uint64(opts.Limit))
	switch {
	case filter.Creator != "":
		base = base.Where(sq.Eq{"creator": filter.Creator})
	case filter.Subject != "":
		base = base.Where(sq.Eq{"subject": filter.Subject})
	}

	var cursor *storage.Cursor
	if opts.Cursor != "" {
		c, err := s.edgeKeyset.Unpack(opts.Cursor)
		if err != nil {
			return nil, "", err
		}
		cursor = &c
	}

	edges, err := s.queryKeysetPage(ctx, base, s.edgeKeyset, cursor, opts)
	if err != nil {
		return nil, "", err
	}

	token, err := storage.PackFromResult(s.edgeKeyset, edges, opts.Limit)
	if err != nil {
		return nil, "", err
	}
	return edges, token, nil
}

// queryKeysetPage applies the cursor to the base query. TryIndex picks
// the row-value form of the predicate, which admits the same rows as
// the expanded OR form, so the two shapes return identical pages.
func (s *Store) queryKeysetPage(ctx context.Context, base sq.SelectBuilder, ks *storage.Keyset, cursor *storage.Cursor, opts storage.ReadPageOptions) ([]storage.EdgeRecord, error) {
	if cursor == nil {
		return s.queryEdges(ctx, base)
	}

	pred := ks.Filter(*cursor, storage.DirectionOlder)
	if opts.TryIndex {
		pred = ks.IndexFilter(*cursor, storage.DirectionOlder)
	}
	return s.queryEdges(ctx, base.Where(pred))
}

// ReadListIndirection see [storage.GraphReader].ReadListIndirection.
// The join goes through the list table so that membership in a deleted
// or repurposed list no longer carries the block or mute.
func (s *Store) ReadListIndirection(ctx context.Context, kind storage.EdgeKind, creators, subjects []string) ([]storage.ListIndirectionRow, error) {
	ctx, span := tracer.Start(ctx, "sqlcommon.ReadListIndirection")
	defer span.End()

	if len(creators) == 0 || len(subjects) == 0 {
		return nil, nil
	}

	sb := s.stbl.
		Select("e.creator", "li.subject_did", "li.list_uri").
		From("edge e").
		Join("list l ON l.uri = e.subject").
		Join("list_item li ON li.list_uri = l.uri").
		Where(sq.Eq{"e.kind": kind}).
		Where(sq.Eq{"e.creator": creators}).
		Where(sq.Eq{"li.subject_did": subjects})

	rows, err := sb.QueryContext(ctx)
	if err != nil {
		return nil, s.handleError(err)
	}
	defer rows.Close()

	var out []storage.ListIndirectionRow
	for rows.Next() {
		var r storage.ListIndirectionRow
		if err := rows.Scan(&r.Creator, &r.SubjectDID, &r.ListURI); err != nil {
			return nil, s.handleError(err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, s.handleError(err)
	}
	return out, nil
}

// GetActors see [storage.ActorReader].GetActors.
func (s *Store) GetActors(ctx context.Context, dids []string) (map[string]storage.ActorRecord, error) {
	ctx, span := tracer.Start(ctx, "sqlcommon.GetActors")
	defer span.End()

	if len(dids) == 0 {
		return map[string]storage.ActorRecord{}, nil
	}

	sb := s.stbl.
		Select(actorColumns...).
		From("actor").
		Where(sq.Eq{"did": dids})

	rows, err := sb.QueryContext(ctx)
	if err != nil {
		return nil, s.handleError(err)
	}
	defer rows.Close()

	out := make(map[string]storage.ActorRecord, len(dids))
	for rows.Next() {
		var a storage.ActorRecord
		var handle, takedownRef, profileCID, profileTakedownRef sql.NullString
		var deactivatedAt, deleteAfter, tombstonedAt, profileIndexedAt sql.NullString
		var createdAt string
		err := rows.Scan(
			&a.DID, &handle, &a.Kind, &createdAt,
			&takedownRef, &deactivatedAt, &deleteAfter, &tombstonedAt,
			&profileCID, &profileIndexedAt, &profileTakedownRef,
		)
		if err != nil {
			return nil, s.handleError(err)
		}
		a.Handle = handle.String
		a.TakedownRef = takedownRef.String
		a.ProfileCID = profileCID.String
		a.ProfileTakedownRef = profileTakedownRef.String
		if a.CreatedAt, err = scanTime(createdAt); err != nil {
			return nil, err
		}
		if a.DeactivatedAt, err = scanNullTime(deactivatedAt); err != nil {
			return nil, err
		}
		if a.DeleteAfter, err = scanNullTime(deleteAfter); err != nil {
			return nil, err
		}
		if a.TombstonedAt, err = scanNullTime(tombstonedAt); err != nil {
			return nil, err
		}
		if a.ProfileIndexedAt, err = scanNullTime(profileIndexedAt); err != nil {
			return nil, err
		}
		out[a.DID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, s.handleError(err)
	}
	return out, nil
}

// GetDIDsByHandles see [storage.ActorReader].GetDIDsByHandles.
func (s *Store) GetDIDsByHandles(ctx context.Context, handles []string) (map[string]string, error) {
	ctx, span := tracer.Start(ctx, "sqlcommon.GetDIDsByHandles")
	defer span.End()

	if len(handles) == 0 {
		return map[string]string{}, nil
	}

	rows, err := s.stbl.
		Select("did", "handle").
		From("actor").
		Where(sq.Eq{"handle": handles}).
		QueryContext(ctx)
	if err != nil {
		return nil, s.handleError(err)
	}
	defer rows.Close()

	out := make(map[string]string, len(handles))
	for rows.Next() {
		var did, handle string
		if err := rows.Scan(&did, &handle); err != nil {
			return nil, s.handleError(err)
		}
		out[handle] = did
	}
	if err := rows.Err(); err != nil {
		return nil, s.handleError(err)
	}
	return out, nil
}

// GetActorAggregates see [storage.ActorReader].GetActorAggregates.
func (s *Store) GetActorAggregates(ctx context.Context, dids []string) (map[string]storage.ActorAggregates, error) {
	ctx, span := tracer.Start(ctx, "sqlcommon.GetActorAggregates")
	defer span.End()

	if len(dids) == 0 {
		return map[string]storage.ActorAggregates{}, nil
	}

	rows, err := s.stbl.
		Select("did", "followers", "follows", "posts", "lists", "feeds", "likes").
		From("actor_agg").
		Where(sq.Eq{"did": dids}).
		QueryContext(ctx)
	if err != nil {
		return nil, s.handleError(err)
	}
	defer rows.Close()

	out := make(map[string]storage.ActorAggregates, len(dids))
	for rows.Next() {
		var did string
		var aggs storage.ActorAggregates
		if err := rows.Scan(&did, &aggs.Followers, &aggs.Follows, &aggs.Posts, &aggs.Lists, &aggs.Feeds, &aggs.Likes); err != nil {
			return nil, s.handleError(err)
		}
		out[did] = aggs
	}
	if err := rows.Err(); err != nil {
		return nil, s.handleError(err)
	}
	return out, nil
}

// GetLists see [storage.ActorReader].GetLists.
func (s *Store) GetLists(ctx context.Context, uris []string) (map[string]storage.ListRecord, error) {
	ctx, span := tracer.Start(ctx, "sqlcommon.GetLists")
	defer span.End()

	if len(uris) == 0 {
		return map[string]storage.ListRecord{}, nil
	}

	rows, err := s.stbl.
		Select("uri", "cid", "creator", "name", "purpose", "created_at", "indexed_at", "sort_at").
		From("list").
		Where(sq.Eq{"uri": uris}).
		QueryContext(ctx)
	if err != nil {
		return nil, s.handleError(err)
	}
	defer rows.Close()

	out := make(map[string]storage.ListRecord, len(uris))
	for rows.Next() {
		var l storage.ListRecord
		var createdAt, indexedAt, sortAt string
		if err := rows.Scan(&l.URI, &l.CID, &l.Creator, &l.Name, &l.Purpose, &createdAt, &indexedAt, &sortAt); err != nil {
			return nil, s.handleError(err)
		}
		if l.CreatedAt, err = scanTime(createdAt); err != nil {
			return nil, err
		}
		if l.IndexedAt, err = scanTime(indexedAt); err != nil {
			return nil, err
		}
		if l.SortAt, err = scanTime(sortAt); err != nil {
			return nil, err
		}
		out[l.URI] = l
	}
	if err := rows.Err(); err != nil {
		return nil, s.handleError(err)
	}
	return out, nil
}

// ListListMembers see [storage.ActorReader].ListListMembers.
func (s *Store) ListListMembers(ctx context.Context, listURI string, opts storage.ReadPageOptions) ([]storage.ListItemRecord, string, error) {
	ctx, span := tracer.Start(ctx, "sqlcommon.ListListMembers")
	defer span.End()

	sb := s.stbl.
		Select("uri", "cid", "list_uri", "subject_did", "created_at", "indexed_at", "sort_at").
		From("list_item").
		Where(sq.Eq{"list_uri": listURI}).
		OrderBy(s.memberKeyset.OrderBy(storage.DirectionOlder)...).
		Limit(uint64(opts.Limit))

	if opts.Cursor != "" {
		c, err := s.memberKeyset.Unpack(opts.Cursor)
		if err != nil {
			return nil, "", err
		}
		sb = sb.Where(s.memberKeyset.Filter(c, storage.DirectionOlder))
	}

	rows, err := sb.QueryContext(ctx)
	if err != nil {
		return nil, "", s.handleError(err)
	}
	defer rows.Close()

	var items []storage.ListItemRecord
	for rows.Next() {
		var li storage.ListItemRecord
		var createdAt, indexedAt, sortAt string
		if err := rows.Scan(&li.URI, &li.CID, &li.ListURI, &li.SubjectDID, &createdAt, &indexedAt, &sortAt); err != nil {
			return nil, "", s.handleError(err)
		}
		if li.CreatedAt, err = scanTime(createdAt); err != nil {
			return nil, "", err
		}
		if li.IndexedAt, err = scanTime(indexedAt); err != nil {
			return nil, "", err
		}
		if li.SortAt, err = scanTime(sortAt); err != nil {
			return nil, "", err
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, "", s.handleError(err)
	}

	token, err := storage.PackFromResult(s.memberKeyset, items, opts.Limit)
	if err != nil {
		return nil, "", err
	}
	return items, token, nil
}

// GetRepoRev see [storage.ActorReader].GetRepoRev.
func (s *Store) GetRepoRev(ctx context.Context, did string) (string, error) {
	ctx, span := tracer.Start(ctx, "sqlcommon.GetRepoRev")
	defer span.End()

	var rev string
	err := s.stbl.
		Select("rev").
		From("actor_sync").
		Where(sq.Eq{"did": did}).
		QueryRowContext(ctx).
		Scan(&rev)
	if err != nil {
		return "", s.handleError(err)
	}
	return rev, nil
}

// PutActor see [storage.Writer].PutActor.
func (s *Store) PutActor(ctx context.Context, actor storage.ActorRecord) error {
	ctx, span := tracer.Start(ctx, "sqlcommon.PutActor")
	defer span.End()

	if actor.Kind == "" {
		actor.Kind = storage.ActorKindPerson
	}
	_, err := s.stbl.
		Insert("actor").
		Columns(actorColumns...).
		Values(
			actor.DID, nullString(actor.Handle), actor.Kind, storage.FormatTime(actor.CreatedAt),
			nullString(actor.TakedownRef), nullTime(actor.DeactivatedAt), nullTime(actor.DeleteAfter), nullTime(actor.TombstonedAt),
			nullString(actor.ProfileCID), nullTime(actor.ProfileIndexedAt), nullString(actor.ProfileTakedownRef),
		).
		Suffix("ON CONFLICT (did) DO UPDATE SET " +
			"handle = excluded.handle, kind = excluded.kind, " +
			"takedown_ref = excluded.takedown_ref, deactivated_at = excluded.deactivated_at, " +
			"delete_after = excluded.delete_after, tombstoned_at = excluded.tombstoned_at, " +
			"profile_cid = excluded.profile_cid, profile_indexed_at = excluded.profile_indexed_at, " +
			"profile_takedown_ref = excluded.profile_takedown_ref").
		ExecContext(ctx)
	if err != nil {
		return s.handleError(err)
	}
	return nil
}

func (s *Store) updateActor(ctx context.Context, did string, set map[string]interface{}) error {
	res, err := s.stbl.
		Update("actor").
		SetMap(set).
		Where(sq.Eq{"did": did}).
		ExecContext(ctx)
	if err != nil {
		return s.handleError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.handleError(err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// TakedownActor see [storage.Writer].TakedownActor.
func (s *Store) TakedownActor(ctx context.Context, did, ref string) error {
	ctx, span := tracer.Start(ctx, "sqlcommon.TakedownActor")
	defer span.End()
	return s.updateActor(ctx, did, map[string]interface{}{"takedown_ref": ref})
}

// ClearActorTakedown see [storage.Writer].ClearActorTakedown.
func (s *Store) ClearActorTakedown(ctx context.Context, did string) error {
	ctx, span := tracer.Start(ctx, "sqlcommon.ClearActorTakedown")
	defer span.End()
	return s.updateActor(ctx, did, map[string]interface{}{"takedown_ref": nil})
}

// DeactivateActor see [storage.Writer].DeactivateActor.
func (s *Store) DeactivateActor(ctx context.Context, did string, deleteAfter time.Time) error {
	ctx, span := tracer.Start(ctx, "sqlcommon.DeactivateActor")
	defer span.End()
	return s.updateActor(ctx, did, map[string]interface{}{
		"deactivated_at": storage.FormatTime(time.Now()),
		"delete_after":   storage.FormatTime(deleteAfter),
	})
}

// ActivateActor see [storage.Writer].ActivateActor.
func (s *Store) ActivateActor(ctx context.Context, did string) error {
	ctx, span := tracer.Start(ctx, "sqlcommon.ActivateActor")
	defer span.End()
	return s.updateActor(ctx, did, map[string]interface{}{
		"deactivated_at": nil,
		"delete_after":   nil,
	})
}

// DeleteActor see [storage.Writer].DeleteActor.
func (s *Store) DeleteActor(ctx context.Context, did string) error {
	ctx, span := tracer.Start(ctx, "sqlcommon.DeleteActor")
	defer span.End()

	res, err := s.stbl.Delete("actor").Where(sq.Eq{"did": did}).ExecContext(ctx)
	if err != nil {
		return s.handleError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.handleError(err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// PutEdge see [storage.Writer].PutEdge.
func (s *Store) PutEdge(ctx context.Context, edge storage.EdgeRecord) error {
	ctx, span := tracer.Start(ctx, "sqlcommon.PutEdge")
	defer span.End()

	if edge.SortAt.IsZero() {
		edge.SortAt = storage.ComputeSortAt(edge.CreatedAt, edge.IndexedAt)
	}
	if edge.CID == "" {
		edge.CID = ulid.Make().String()
	}
	_, err := s.stbl.
		Insert("edge").
		Columns(edgeColumns...).
		Values(
			edge.URI, edge.CID, edge.Kind, edge.Creator, edge.Subject,
			storage.FormatTime(edge.CreatedAt), storage.FormatTime(edge.IndexedAt), storage.FormatTime(edge.SortAt),
		).
		ExecContext(ctx)
	if err != nil {
		return s.handleError(err)
	}
	return nil
}

// DeleteEdge see [storage.Writer].DeleteEdge.
func (s *Store) DeleteEdge(ctx context.Context, kind storage.EdgeKind, creator, subject string) error {
	ctx, span := tracer.Start(ctx, "sqlcommon.DeleteEdge")
	defer span.End()

	res, err := s.stbl.
		Delete("edge").
		Where(sq.Eq{"kind": kind, "creator": creator, "subject": subject}).
		ExecContext(ctx)
	if err != nil {
		return s.handleError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.handleError(err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// PutList see [storage.Writer].PutList.
func (s *Store) PutList(ctx context.Context, list storage.ListRecord) error {
	ctx, span := tracer.Start(ctx, "sqlcommon.PutList")
	defer span.End()

	if list.SortAt.IsZero() {
		list.SortAt = storage.ComputeSortAt(list.CreatedAt, list.IndexedAt)
	}
	_, err := s.stbl.
		Insert("list").
		Columns("uri", "cid", "creator", "name", "purpose", "created_at", "indexed_at", "sort_at").
		Values(
			list.URI, list.CID, list.Creator, list.Name, list.Purpose,
			storage.FormatTime(list.CreatedAt), storage.FormatTime(list.IndexedAt), storage.FormatTime(list.SortAt),
		).
		Suffix("ON CONFLICT (uri) DO UPDATE SET " +
			"cid = excluded.cid, name = excluded.name, purpose = excluded.purpose, " +
			"indexed_at = excluded.indexed_at, sort_at = excluded.sort_at").
		ExecContext(ctx)
	if err != nil {
		return s.handleError(err)
	}
	return nil
}

// PutListItem see [storage.Writer].PutListItem.
func (s *Store) PutListItem(ctx context.Context, item storage.ListItemRecord) error {
	ctx, span := tracer.Start(ctx, "sqlcommon.PutListItem")
	defer span.End()

	if item.SortAt.IsZero() {
		item.SortAt = storage.ComputeSortAt(item.CreatedAt, item.IndexedAt)
	}
	if item.CID == "" {
		item.CID = ulid.Make().String()
	}
	_, err := s.stbl.
		Insert("list_item").
		Columns("uri", "cid", "list_uri", "subject_did", "created_at", "indexed_at", "sort_at").
		Values(
			item.URI, item.CID, item.ListURI, item.SubjectDID,
			storage.FormatTime(item.CreatedAt), storage.FormatTime(item.IndexedAt), storage.FormatTime(item.SortAt),
		).
		ExecContext(ctx)
	if err != nil {
		return s.handleError(err)
	}
	return nil
}

// DeleteListItem see [storage.Writer].DeleteListItem.
func (s *Store) DeleteListItem(ctx context.Context, listURI, subjectDID string) error {
	ctx, span := tracer.Start(ctx, "sqlcommon.DeleteListItem")
	defer span.End()

	res, err := s.stbl.
		Delete("list_item").
		Where(sq.Eq{"list_uri": listURI, "subject_did": subjectDID}).
		ExecContext(ctx)
	if err != nil {
		return s.handleError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.handleError(err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// PutActorAggregates see [storage.Writer].PutActorAggregates.
func (s *Store) PutActorAggregates(ctx context.Context, did string, aggs storage.ActorAggregates) error {
	ctx, span := tracer.Start(ctx, "sqlcommon.PutActorAggregates")
	defer span.End()

	_, err := s.stbl.
		Insert("actor_agg").
		Columns("did", "followers", "follows", "posts", "lists", "feeds", "likes").
		Values(did, aggs.Followers, aggs.Follows, aggs.Posts, aggs.Lists, aggs.Feeds, aggs.Likes).
		Suffix("ON CONFLICT (did) DO UPDATE SET " +
			"followers = excluded.followers, follows = excluded.follows, " +
			"posts = excluded.posts, lists = excluded.lists, " +
			"feeds = excluded.feeds, likes = excluded.likes").
		ExecContext(ctx)
	if err != nil {
		return s.handleError(err)
	}
	return nil
}

// PutRepoRev see [storage.Writer].PutRepoRev.
func (s *Store) PutRepoRev(ctx context.Context, did, rev string) error {
	ctx, span := tracer.Start(ctx, "sqlcommon.PutRepoRev")
	defer span.End()

	_, err := s.stbl.
		Insert("actor_sync").
		Columns("did", "rev").
		Values(did, rev).
		Suffix("ON CONFLICT (did) DO UPDATE SET rev = excluded.rev").
		ExecContext(ctx)
	if err != nil {
		return s.handleError(err)
	}
	return nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return storage.FormatTime(*t)
}
