package storage

import (
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/skylark-social/skylark/pkg/encoder"
)

// Direction selects which side of the cursor a page is taken from.
type Direction int

const (
	// DirectionOlder pages from newest to oldest: rows strictly less
	// than the cursor position. This is the default listing order.
	DirectionOlder Direction = iota

	// DirectionNewer pages from oldest to newest.
	DirectionNewer
)

// Cursor is the decoded position of the last row of a page under the
// composite (primary timestamp, tie-break id) ordering.
type Cursor struct {
	Primary   time.Time
	Secondary string
}

// Keyed is implemented by rows that participate in keyset pagination.
type Keyed interface {
	PrimaryKey() time.Time
	SecondaryKey() string
}

// packedCursor is the serialized cursor layout. Kept to two short
// fields so tokens stay compact after base64.
type packedCursor struct {
	Primary   string `json:"pri"`
	Secondary string `json:"sec"`
}

// Keyset names the two sort columns of a paginated query and packs or
// decodes opaque cursors over them. Ties on the primary column are
// broken deterministically by the secondary column, which must be a
// unique monotonic identifier, never a wall-clock value.
type Keyset struct {
	PrimaryCol   string
	SecondaryCol string

	enc encoder.Encoder
}

// KeysetOption configures a Keyset.
type KeysetOption func(*Keyset)

// WithCursorEncoder overrides the byte encoding of packed cursors.
func WithCursorEncoder(enc encoder.Encoder) KeysetOption {
	return func(k *Keyset) {
		k.enc = enc
	}
}

// NewKeyset builds a Keyset over the given columns. Cursors are
// base64url-encoded unless overridden.
func NewKeyset(primaryCol, secondaryCol string, opts ...KeysetOption) *Keyset {
	k := &Keyset{
		PrimaryCol:   primaryCol,
		SecondaryCol: secondaryCol,
		enc:          encoder.NewBase64Encoder(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Pack produces the opaque cursor for a row position. Deterministic and
// round-trip safe: Unpack(Pack(c)) == c at millisecond precision.
func (k *Keyset) Pack(c Cursor) (string, error) {
	raw, err := json.Marshal(packedCursor{
		Primary:   FormatTime(c.Primary),
		Secondary: c.Secondary,
	})
	if err != nil {
		return "", err
	}
	return k.enc.Encode(raw)
}

// Unpack decodes an opaque cursor, returning ErrInvalidCursor on any
// malformed input.
func (k *Keyset) Unpack(cursor string) (Cursor, error) {
	raw, err := k.enc.Decode(cursor)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	var pc packedCursor
	if err := json.Unmarshal(raw, &pc); err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	primary, err := ParseTime(pc.Primary)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: bad primary key", ErrInvalidCursor)
	}
	if pc.Secondary == "" {
		return Cursor{}, fmt.Errorf("%w: missing secondary key", ErrInvalidCursor)
	}
	return Cursor{Primary: primary, Secondary: pc.Secondary}, nil
}

// Filter builds the tuple comparison predicate for rows strictly past
// the cursor: (primary, secondary) < (c.Primary, c.Secondary) for
// DirectionOlder, the symmetric > form for DirectionNewer. The tuple is
// expanded into portable OR/AND form so every backend can use it.
func (k *Keyset) Filter(c Cursor, dir Direction) sq.Sqlizer {
	primary := FormatTime(c.Primary)
	if dir == DirectionNewer {
		return sq.Or{
			sq.Gt{k.PrimaryCol: primary},
			sq.And{
				sq.Eq{k.PrimaryCol: primary},
				sq.Gt{k.SecondaryCol: c.Secondary},
			},
		}
	}
	return sq.Or{
		sq.Lt{k.PrimaryCol: primary},
		sq.And{
			sq.Eq{k.PrimaryCol: primary},
			sq.Lt{k.SecondaryCol: c.Secondary},
		},
	}
}

// IndexFilter builds the row-value form of the cursor predicate,
// (primary, secondary) < (?, ?). It admits exactly the same rows as
// Filter; the row-value shape is one the planner can satisfy with a
// single seek on the composite keyset index instead of expanding the
// OR.
func (k *Keyset) IndexFilter(c Cursor, dir Direction) sq.Sqlizer {
	op := "<"
	if dir == DirectionNewer {
		op = ">"
	}
	return sq.Expr(
		"("+k.PrimaryCol+", "+k.SecondaryCol+") "+op+" (?, ?)",
		FormatTime(c.Primary), c.Secondary,
	)
}

// OrderBy returns the ORDER BY terms matching the paging direction.
func (k *Keyset) OrderBy(dir Direction) []string {
	if dir == DirectionNewer {
		return []string{k.PrimaryCol + " ASC", k.SecondaryCol + " ASC"}
	}
	return []string{k.PrimaryCol + " DESC", k.SecondaryCol + " DESC"}
}

// PackFromResult packs the cursor of the last row of a full page. A
// page shorter than the limit is the final page and yields an empty
// token to signal "no more pages".
func PackFromResult[T Keyed](k *Keyset, rows []T, limit int) (string, error) {
	if len(rows) == 0 || len(rows) < limit {
		return "", nil
	}
	last := rows[len(rows)-1]
	return k.Pack(Cursor{Primary: last.PrimaryKey(), Secondary: last.SecondaryKey()})
}
