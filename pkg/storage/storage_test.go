package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatTimeFixedWidth(t *testing.T) {
	// Lexicographic comparison of rendered timestamps must agree with
	// chronological order, which requires every rendering to have the
	// same width. Trailing-zero fractions are the classic failure.
	times := []time.Time{
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 1, 0, 0, 0, 5000000, time.UTC),
		time.Date(2023, 1, 1, 0, 0, 0, 100000000, time.UTC),
		time.Date(2023, 1, 1, 0, 0, 1, 0, time.UTC),
		time.Date(2023, 12, 31, 23, 59, 59, 999000000, time.UTC),
	}
	var prev string
	for i, tm := range times {
		s := FormatTime(tm)
		require.Len(t, s, len("2006-01-02T15:04:05.000Z"))
		if i > 0 {
			require.Greater(t, s, prev, "rendered order must match chronological order")
		}
		prev = s
	}
}

func TestFormatTimeParseTimeRoundTrip(t *testing.T) {
	tm := time.Date(2023, 6, 15, 10, 20, 30, 400000000, time.UTC)
	got, err := ParseTime(FormatTime(tm))
	require.NoError(t, err)
	require.True(t, got.Equal(tm))
}

func TestComputeSortAt(t *testing.T) {
	early := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	// A record indexed after it claims to have been created sorts by
	// the claimed creation time.
	require.True(t, ComputeSortAt(early, late).Equal(early))

	// A record claiming a future creation time sorts by when it was
	// actually observed.
	require.True(t, ComputeSortAt(late, early).Equal(early))
}

func TestNewReadPageOptionsClamping(t *testing.T) {
	tests := map[string]struct {
		limit int
		want  int
	}{
		"unset_gets_default": {limit: 0, want: DefaultPageSize},
		"negative":           {limit: -5, want: DefaultPageSize},
		"in_range":           {limit: 25, want: 25},
		"at_max":             {limit: MaxPageSize, want: MaxPageSize},
		"above_max":          {limit: MaxPageSize + 1, want: MaxPageSize},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			opts := NewReadPageOptions(tc.limit, "cur")
			require.Equal(t, tc.want, opts.Limit)
			require.Equal(t, "cur", opts.Cursor)
		})
	}
}

func TestActorRecordLifecycleAccessors(t *testing.T) {
	now := time.Now().UTC()

	active := ActorRecord{DID: "did:plc:a"}
	require.True(t, active.Active())
	require.False(t, active.TakenDown())

	deactivated := ActorRecord{DID: "did:plc:b", DeactivatedAt: &now}
	require.False(t, deactivated.Active())

	tombstoned := ActorRecord{DID: "did:plc:c", TombstonedAt: &now}
	require.False(t, tombstoned.Active())

	takendown := ActorRecord{DID: "did:plc:d", TakedownRef: "mod-1"}
	require.True(t, takendown.TakenDown())
	require.True(t, takendown.Active(), "takedown is independent of lifecycle state")
}
