package storage

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/require"

	"github.com/skylark-social/skylark/pkg/encoder"
)

func TestKeysetPackUnpackRoundTrip(t *testing.T) {
	ks := NewKeyset("sort_at", "cid")

	primary := time.Date(2023, 5, 17, 11, 22, 33, 444000000, time.UTC)
	token, err := ks.Pack(Cursor{Primary: primary, Secondary: "cid-123"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := ks.Unpack(token)
	require.NoError(t, err)
	require.Equal(t, "cid-123", got.Secondary)
	require.True(t, got.Primary.Equal(primary))
}

func TestKeysetRoundTripTruncatesToMilliseconds(t *testing.T) {
	ks := NewKeyset("sort_at", "cid")

	primary := time.Date(2023, 5, 17, 11, 22, 33, 444999999, time.UTC)
	token, err := ks.Pack(Cursor{Primary: primary, Secondary: "x"})
	require.NoError(t, err)

	got, err := ks.Unpack(token)
	require.NoError(t, err)
	require.Equal(t, 444000000, got.Primary.Nanosecond())
}

func TestKeysetUnpackMalformed(t *testing.T) {
	ks := NewKeyset("sort_at", "cid")

	for name, token := range map[string]string{
		"garbage":          "not-a-cursor",
		"not_json":         "bm90LWpzb24",
		"empty_secondary":  mustPack(t, ks, time.Now(), ""),
		"truncated_base64": "eyJwcmkiOiIyMDIzLTA1",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ks.Unpack(token)
			require.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestKeysetUnpackTamperedToken(t *testing.T) {
	ks := NewKeyset("sort_at", "cid")

	token, err := ks.Pack(Cursor{Primary: time.Now(), Secondary: "cid-1"})
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "!!"
	_, err = ks.Unpack(tampered)
	require.ErrorIs(t, err, ErrInvalidCursor)
}

func mustPack(t *testing.T, ks *Keyset, primary time.Time, secondary string) string {
	t.Helper()
	token, err := ks.Pack(Cursor{Primary: primary, Secondary: secondary})
	require.NoError(t, err)
	return token
}

func TestKeysetFilterExpandedTuplePredicate(t *testing.T) {
	ks := NewKeyset("sort_at", "cid")
	c := Cursor{
		Primary:   time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC),
		Secondary: "cid-9",
	}

	sql, args, err := sq.Select("*").From("edge").Where(ks.Filter(c, DirectionOlder)).ToSql()
	require.NoError(t, err)
	require.Contains(t, sql, "sort_at < ? OR (sort_at = ? AND cid < ?)")
	require.Equal(t, []any{
		"2023-01-02T03:04:05.000Z",
		"2023-01-02T03:04:05.000Z",
		"cid-9",
	}, args)
}

func TestKeysetIndexFilterRowValuePredicate(t *testing.T) {
	ks := NewKeyset("sort_at", "cid")
	c := Cursor{
		Primary:   time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC),
		Secondary: "cid-9",
	}

	sql, args, err := sq.Select("*").From("edge").Where(ks.IndexFilter(c, DirectionOlder)).ToSql()
	require.NoError(t, err)
	require.Contains(t, sql, "(sort_at, cid) < (?, ?)")
	require.Equal(t, []any{
		"2023-01-02T03:04:05.000Z",
		"cid-9",
	}, args)

	sql, args, err = sq.Select("*").From("edge").Where(ks.IndexFilter(c, DirectionNewer)).ToSql()
	require.NoError(t, err)
	require.Contains(t, sql, "(sort_at, cid) > (?, ?)")
	require.Equal(t, []any{
		"2023-01-02T03:04:05.000Z",
		"cid-9",
	}, args)
}

func TestKeysetOrderBy(t *testing.T) {
	ks := NewKeyset("sort_at", "cid")
	require.Equal(t, []string{"sort_at DESC", "cid DESC"}, ks.OrderBy(DirectionOlder))
	require.Equal(t, []string{"sort_at ASC", "cid ASC"}, ks.OrderBy(DirectionNewer))
}

func TestPackFromResultEmptyPage(t *testing.T) {
	ks := NewKeyset("sort_at", "cid")
	token, err := PackFromResult(ks, []EdgeRecord{}, 10)
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestPackFromResultShortPage(t *testing.T) {
	ks := NewKeyset("sort_at", "cid")
	rows := []EdgeRecord{
		{CID: "a", SortAt: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)},
	}
	token, err := PackFromResult(ks, rows, 10)
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestPackFromResultUsesLastRow(t *testing.T) {
	ks := NewKeyset("sort_at", "cid")
	rows := []EdgeRecord{
		{CID: "a", SortAt: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)},
		{CID: "b", SortAt: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	token, err := PackFromResult(ks, rows, 2)
	require.NoError(t, err)

	c, err := ks.Unpack(token)
	require.NoError(t, err)
	require.Equal(t, "b", c.Secondary)
	require.True(t, c.Primary.Equal(rows[1].SortAt))
}

func TestKeysetCustomEncoder(t *testing.T) {
	ks := NewKeyset("sort_at", "cid", WithCursorEncoder(encoder.NewNoopEncoder()))
	token, err := ks.Pack(Cursor{Primary: time.Unix(0, 0), Secondary: "s"})
	require.NoError(t, err)
	require.Contains(t, token, `"sec":"s"`)
}
