// Package memory provides an in-memory implementation of
// [storage.DataStore], used in tests and for local development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/skylark-social/skylark/pkg/storage"
)

type edgeKey struct {
	kind    storage.EdgeKind
	creator string
	subject string
}

// Datastore is a mutex-guarded in-memory [storage.DataStore]. Iteration
// order is made deterministic by sorting on the keyset columns, the
// same ordering the SQL backends produce.
type Datastore struct {
	mu sync.RWMutex

	actors    map[string]storage.ActorRecord
	edges     map[edgeKey]storage.EdgeRecord
	lists     map[string]storage.ListRecord
	listItems map[string]map[string]storage.ListItemRecord
	aggs      map[string]storage.ActorAggregates
	revs      map[string]string

	edgeKeyset   *storage.Keyset
	memberKeyset *storage.Keyset
}

var _ storage.DataStore = (*Datastore)(nil)

// New creates an empty in-memory datastore.
func New() *Datastore {
	return &Datastore{
		actors:       make(map[string]storage.ActorRecord),
		edges:        make(map[edgeKey]storage.EdgeRecord),
		lists:        make(map[string]storage.ListRecord),
		listItems:    make(map[string]map[string]storage.ListItemRecord),
		aggs:         make(map[string]storage.ActorAggregates),
		revs:         make(map[string]string),
		edgeKeyset:   storage.NewKeyset("sort_at", "cid"),
		memberKeyset: storage.NewKeyset("sort_at", "cid"),
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// sortKey renders the composite key in the canonical encoding so that
// in-memory ordering agrees with what the SQL backends produce,
// including the cursor's millisecond truncation.
func sortKey(primary time.Time, secondary string) string {
	return storage.FormatTime(primary) + "\x00" + secondary
}

// ReadEdges see [storage.GraphReader].ReadEdges.
func (d *Datastore) ReadEdges(ctx context.Context, kind storage.EdgeKind, creators, subjects []string) ([]storage.EdgeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(creators) == 0 || len(subjects) == 0 {
		return nil, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []storage.EdgeRecord
	for k, e := range d.edges {
		if k.kind == kind && contains(creators, k.creator) && contains(subjects, k.subject) {
			out = append(out, e)
		}
	}
	sortEdges(out)
	return out, nil
}

func sortEdges(edges []storage.EdgeRecord) {
	sort.Slice(edges, func(i, j int) bool {
		return sortKey(edges[i].SortAt, edges[i].CID) > sortKey(edges[j].SortAt, edges[j].CID)
	})
}

// ReadEdgePage see [storage.GraphReader].ReadEdgePage. TryIndex is a
// planner hint for the SQL backends; the in-memory cut below is the
// tuple comparison already, so the flag changes nothing here.
func (d *Datastore) ReadEdgePage(ctx context.Context, kind storage.EdgeKind, filter storage.EdgeFilter, opts storage.ReadPageOptions) ([]storage.EdgeRecord, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	var cursor *storage.Cursor
	if opts.Cursor != "" {
		c, err := d.edgeKeyset.Unpack(opts.Cursor)
		if err != nil {
			return nil, "", err
		}
		cursor = &c
	}

	d.mu.RLock()
	var matched []storage.EdgeRecord
	for k, e := range d.edges {
		if k.kind != kind {
			continue
		}
		if filter.Creator != "" && k.creator != filter.Creator {
			continue
		}
		if filter.Subject != "" && k.subject != filter.Subject {
			continue
		}
		matched = append(matched, e)
	}
	d.mu.RUnlock()

	sortEdges(matched)

	if cursor != nil {
		bound := sortKey(cursor.Primary, cursor.Secondary)
		kept := matched[:0]
		for _, e := range matched {
			if sortKey(e.SortAt, e.CID) < bound {
				kept = append(kept, e)
			}
		}
		matched = kept
	}

	if len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	token, err := storage.PackFromResult(d.edgeKeyset, matched, opts.Limit)
	if err != nil {
		return nil, "", err
	}
	return matched, token, nil
}

// ReadListIndirection see [storage.GraphReader].ReadListIndirection.
func (d *Datastore) ReadListIndirection(ctx context.Context, kind storage.EdgeKind, creators, subjects []string) ([]storage.ListIndirectionRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(creators) == 0 || len(subjects) == 0 {
		return nil, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []storage.ListIndirectionRow
	for k, e := range d.edges {
		if k.kind != kind || !contains(creators, k.creator) {
			continue
		}
		if _, ok := d.lists[e.Subject]; !ok {
			continue
		}
		for subjectDID := range d.listItems[e.Subject] {
			if contains(subjects, subjectDID) {
				out = append(out, storage.ListIndirectionRow{
					Creator:    k.creator,
					SubjectDID: subjectDID,
					ListURI:    e.Subject,
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Creator != b.Creator {
			return a.Creator < b.Creator
		}
		if a.SubjectDID != b.SubjectDID {
			return a.SubjectDID < b.SubjectDID
		}
		return a.ListURI < b.ListURI
	})
	return out, nil
}

// GetActors see [storage.ActorReader].GetActors.
func (d *Datastore) GetActors(ctx context.Context, dids []string) (map[string]storage.ActorRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]storage.ActorRecord, len(dids))
	for _, did := range dids {
		if a, ok := d.actors[did]; ok {
			out[did] = a
		}
	}
	return out, nil
}

// GetDIDsByHandles see [storage.ActorReader].GetDIDsByHandles.
func (d *Datastore) GetDIDsByHandles(ctx context.Context, handles []string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]string, len(handles))
	for _, a := range d.actors {
		if a.Handle != "" && contains(handles, a.Handle) {
			out[a.Handle] = a.DID
		}
	}
	return out, nil
}

// GetActorAggregates see [storage.ActorReader].GetActorAggregates.
func (d *Datastore) GetActorAggregates(ctx context.Context, dids []string) (map[string]storage.ActorAggregates, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]storage.ActorAggregates, len(dids))
	for _, did := range dids {
		if aggs, ok := d.aggs[did]; ok {
			out[did] = aggs
		}
	}
	return out, nil
}

// GetLists see [storage.ActorReader].GetLists.
func (d *Datastore) GetLists(ctx context.Context, uris []string) (map[string]storage.ListRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]storage.ListRecord, len(uris))
	for _, uri := range uris {
		if l, ok := d.lists[uri]; ok {
			out[uri] = l
		}
	}
	return out, nil
}

// ListListMembers see [storage.ActorReader].ListListMembers.
func (d *Datastore) ListListMembers(ctx context.Context, listURI string, opts storage.ReadPageOptions) ([]storage.ListItemRecord, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	var cursor *storage.Cursor
	if opts.Cursor != "" {
		c, err := d.memberKeyset.Unpack(opts.Cursor)
		if err != nil {
			return nil, "", err
		}
		cursor = &c
	}

	d.mu.RLock()
	var items []storage.ListItemRecord
	for _, li := range d.listItems[listURI] {
		items = append(items, li)
	}
	d.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		return sortKey(items[i].SortAt, items[i].CID) > sortKey(items[j].SortAt, items[j].CID)
	})

	if cursor != nil {
		bound := sortKey(cursor.Primary, cursor.Secondary)
		kept := items[:0]
		for _, li := range items {
			if sortKey(li.SortAt, li.CID) < bound {
				kept = append(kept, li)
			}
		}
		items = kept
	}

	if len(items) > opts.Limit {
		items = items[:opts.Limit]
	}

	token, err := storage.PackFromResult(d.memberKeyset, items, opts.Limit)
	if err != nil {
		return nil, "", err
	}
	return items, token, nil
}

// GetRepoRev see [storage.ActorReader].GetRepoRev.
func (d *Datastore) GetRepoRev(ctx context.Context, did string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	rev, ok := d.revs[did]
	if !ok {
		return "", storage.ErrNotFound
	}
	return rev, nil
}

// PutActor see [storage.Writer].PutActor.
func (d *Datastore) PutActor(ctx context.Context, actor storage.ActorRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if actor.Kind == "" {
		actor.Kind = storage.ActorKindPerson
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.actors[actor.DID] = actor
	return nil
}

func (d *Datastore) updateActor(did string, update func(*storage.ActorRecord)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	a, ok := d.actors[did]
	if !ok {
		return storage.ErrNotFound
	}
	update(&a)
	d.actors[did] = a
	return nil
}

// TakedownActor see [storage.Writer].TakedownActor.
func (d *Datastore) TakedownActor(ctx context.Context, did, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.updateActor(did, func(a *storage.ActorRecord) {
		a.TakedownRef = ref
	})
}

// ClearActorTakedown see [storage.Writer].ClearActorTakedown.
func (d *Datastore) ClearActorTakedown(ctx context.Context, did string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.updateActor(did, func(a *storage.ActorRecord) {
		a.TakedownRef = ""
	})
}

// DeactivateActor see [storage.Writer].DeactivateActor.
func (d *Datastore) DeactivateActor(ctx context.Context, did string, deleteAfter time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	return d.updateActor(did, func(a *storage.ActorRecord) {
		a.DeactivatedAt = &now
		a.DeleteAfter = &deleteAfter
	})
}

// ActivateActor see [storage.Writer].ActivateActor.
func (d *Datastore) ActivateActor(ctx context.Context, did string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.updateActor(did, func(a *storage.ActorRecord) {
		a.DeactivatedAt = nil
		a.DeleteAfter = nil
	})
}

// DeleteActor see [storage.Writer].DeleteActor.
func (d *Datastore) DeleteActor(ctx context.Context, did string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.actors[did]; !ok {
		return storage.ErrNotFound
	}
	delete(d.actors, did)
	return nil
}

// PutEdge see [storage.Writer].PutEdge.
func (d *Datastore) PutEdge(ctx context.Context, edge storage.EdgeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if edge.SortAt.IsZero() {
		edge.SortAt = storage.ComputeSortAt(edge.CreatedAt, edge.IndexedAt)
	}
	if edge.CID == "" {
		edge.CID = ulid.Make().String()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := edgeKey{kind: edge.Kind, creator: edge.Creator, subject: edge.Subject}
	if _, ok := d.edges[key]; ok {
		return storage.ErrCollision
	}
	d.edges[key] = edge
	return nil
}

// DeleteEdge see [storage.Writer].DeleteEdge.
func (d *Datastore) DeleteEdge(ctx context.Context, kind storage.EdgeKind, creator, subject string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := edgeKey{kind: kind, creator: creator, subject: subject}
	if _, ok := d.edges[key]; !ok {
		return storage.ErrNotFound
	}
	delete(d.edges, key)
	return nil
}

// PutList see [storage.Writer].PutList.
func (d *Datastore) PutList(ctx context.Context, list storage.ListRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if list.SortAt.IsZero() {
		list.SortAt = storage.ComputeSortAt(list.CreatedAt, list.IndexedAt)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.lists[list.URI] = list
	return nil
}

// PutListItem see [storage.Writer].PutListItem.
func (d *Datastore) PutListItem(ctx context.Context, item storage.ListItemRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if item.SortAt.IsZero() {
		item.SortAt = storage.ComputeSortAt(item.CreatedAt, item.IndexedAt)
	}
	if item.CID == "" {
		item.CID = ulid.Make().String()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	members, ok := d.listItems[item.ListURI]
	if !ok {
		members = make(map[string]storage.ListItemRecord)
		d.listItems[item.ListURI] = members
	}
	if _, ok := members[item.SubjectDID]; ok {
		return storage.ErrCollision
	}
	members[item.SubjectDID] = item
	return nil
}

// DeleteListItem see [storage.Writer].DeleteListItem.
func (d *Datastore) DeleteListItem(ctx context.Context, listURI, subjectDID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	members := d.listItems[listURI]
	if _, ok := members[subjectDID]; !ok {
		return storage.ErrNotFound
	}
	delete(members, subjectDID)
	return nil
}

// PutActorAggregates see [storage.Writer].PutActorAggregates.
func (d *Datastore) PutActorAggregates(ctx context.Context, did string, aggs storage.ActorAggregates) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.aggs[did] = aggs
	return nil
}

// PutRepoRev see [storage.Writer].PutRepoRev.
func (d *Datastore) PutRepoRev(ctx context.Context, did, rev string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.revs[did] = rev
	return nil
}

// IsReady see [storage.DataStore].IsReady.
func (d *Datastore) IsReady(ctx context.Context) error {
	return ctx.Err()
}

// Close see [storage.DataStore].Close.
func (d *Datastore) Close() {}
