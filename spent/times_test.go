package spent_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TsubasaBE/go-timesheet/spent"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(date time.Time, title, typ string, minutes int, comments ...string) spent.Entry {
	return spent.Entry{Date: date, Title: title, Type: typ, DurationMinutes: minutes, Comments: comments}
}

func TestRoundingRound(t *testing.T) {
	tests := []struct {
		name     string
		rounding spent.Rounding
		in, want int
	}{
		{"unit 1 keeps value", spent.Rounding1, 7, 7},
		{"below half rounds down", spent.Rounding15, 7, 0},
		{"half rounds up at 15", spent.Rounding15, 8, 15},
		{"tie at 10 rounds up from 5", spent.Rounding10, 5, 10},
		{"tie at 10 rounds up from 25 (not to even)", spent.Rounding10, 25, 30},
		{"tie at 30 rounds up", spent.Rounding30, 15, 30},
		{"already rounded", spent.Rounding15, 360, 360},
		{"zero", spent.Rounding5, 0, 0},
		{"just below tie", spent.Rounding10, 4, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.rounding.Round(tc.in))
		})
	}
}

func TestRoundingIdempotent(t *testing.T) {
	for _, r := range spent.Roundings {
		for m := 0; m < 3*spent.MinutesPerDay; m += 7 {
			once := r.Round(m)
			assert.Equal(t, once, r.Round(once), "rounding %d of %d", r, m)
			assert.Zero(t, once%int(r))
		}
	}
}

func TestParseRounding(t *testing.T) {
	r, err := spent.ParseRounding(15)
	require.NoError(t, err)
	assert.Equal(t, spent.Rounding15, r)

	_, err = spent.ParseRounding(7)
	assert.Error(t, err)
}

func TestNewMergesByKey(t *testing.T) {
	d := day(2019, 1, 2)
	times := spent.New(slices.Values([]spent.Entry{
		entry(d, "FB-42", "", 120, "first"),
		entry(d, "FB-42", "", 60, "first", "second"),
		entry(d, "FB-42", "Review", 30),
		entry(day(2019, 1, 3), "FB-42", "", 15),
	}), spent.Rounding15)

	got := times.Entries()
	require.Len(t, got, 3)

	assert.Equal(t, "", got[0].Type)
	assert.Equal(t, 180, got[0].DurationMinutes)
	assert.Equal(t, []string{"first", "second"}, got[0].Comments)

	assert.Equal(t, "Review", got[1].Type)
	assert.Equal(t, 30, got[1].DurationMinutes)

	assert.Equal(t, day(2019, 1, 3), got[2].Date)
}

func TestNewRoundsAfterMerge(t *testing.T) {
	d := day(2019, 1, 2)
	// 7 + 7 = 14 rounds to 15; rounding each part first would give 0.
	times := spent.New(slices.Values([]spent.Entry{
		entry(d, "FB-1", "", 7),
		entry(d, "FB-1", "", 7),
	}), spent.Rounding15)

	got := times.Entries()
	require.Len(t, got, 1)
	assert.Equal(t, 15, got[0].DurationMinutes)
}

func TestUniqueTitles(t *testing.T) {
	times := spent.New(slices.Values([]spent.Entry{
		entry(day(2019, 1, 2), "FB-2", "", 60),
		entry(day(2019, 1, 2), "FB-1", "", 60),
		entry(day(2019, 1, 3), "FB-2", "Review", 60),
	}), spent.Rounding1)

	assert.Equal(t, []string{"FB-2", "FB-1"}, times.UniqueTitles())
}

func TestSubtractRoundTrip(t *testing.T) {
	d := day(2019, 1, 2)
	times := spent.New(slices.Values([]spent.Entry{
		entry(d, "FB-42", "", 90),
		entry(d, "FB-42", "", 45),
	}), spent.Rounding15)

	stats, err := times.Subtract(slices.Values([]spent.Entry{entry(d, "FB-42", "", 90)}))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Matched)
	assert.Zero(t, stats.Removed)

	got := times.Entries()
	require.Len(t, got, 1)
	assert.Equal(t, 45, got[0].DurationMinutes)
}

func TestSubtractRemovesEntryAtZero(t *testing.T) {
	d := day(2019, 1, 2)
	times := spent.New(slices.Values([]spent.Entry{
		entry(d, "FB-42", "", 240),
		entry(d, "FB-42", "", 120),
	}), spent.Rounding15)

	stats, err := times.Subtract(slices.Values([]spent.Entry{entry(d, "FB-42", "", 360)}))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Removed)
	assert.Empty(t, times.Entries())
	assert.Empty(t, times.UniqueTitles())
}

func TestSubtractRoundsRemote(t *testing.T) {
	d := day(2019, 1, 2)
	times := spent.New(slices.Values([]spent.Entry{entry(d, "FB-42", "", 60)}), spent.Rounding15)

	// 53 minutes on the server round to 60 and consume the whole entry.
	_, err := times.Subtract(slices.Values([]spent.Entry{entry(d, "FB-42", "", 53)}))
	require.NoError(t, err)
	assert.Zero(t, times.Len())
}

func TestSubtractFailures(t *testing.T) {
	d := day(2019, 1, 2)
	tests := []struct {
		name   string
		remote spent.Entry
		local  int
	}{
		{"more than recorded", entry(d, "FB-42", "", 75), 60},
		{"different type", entry(d, "FB-42", "Review", 15), 0},
		{"unknown title", entry(d, "FB-7", "", 15), 0},
		{"later day", entry(day(2019, 1, 5), "FB-42", "", 15), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			times := spent.New(slices.Values([]spent.Entry{entry(d, "FB-42", "", 60)}), spent.Rounding15)

			_, err := times.Subtract(slices.Values([]spent.Entry{tc.remote}))
			require.Error(t, err)
			assert.True(t, errors.Is(err, spent.ErrUnmatchedSpentTime))

			var unmatched *spent.UnmatchedError
			require.ErrorAs(t, err, &unmatched)
			assert.Equal(t, tc.remote.Title, unmatched.Title)
			assert.Equal(t, tc.local, unmatched.Local)
			assert.Contains(t, err.Error(), tc.remote.Title)
			assert.Contains(t, err.Error(), tc.remote.Date.Format(time.DateOnly))
		})
	}
}

func TestSubtractNeverClampsToZero(t *testing.T) {
	d := day(2019, 1, 2)
	times := spent.New(slices.Values([]spent.Entry{entry(d, "FB-42", "", 30)}), spent.Rounding15)

	_, err := times.Subtract(slices.Values([]spent.Entry{
		entry(d, "FB-42", "", 15),
		entry(d, "FB-42", "", 30),
	}))
	require.ErrorIs(t, err, spent.ErrUnmatchedSpentTime)

	got := times.Entries()
	require.Len(t, got, 1)
	assert.Equal(t, 15, got[0].DurationMinutes)
}

func TestSubtractWindow(t *testing.T) {
	local := []spent.Entry{entry(day(2019, 1, 2), "FB-42", "", 60)}
	remote := []spent.Entry{
		entry(day(2018, 12, 28), "FB-42", "", 120),
		entry(day(2019, 1, 2), "FB-42", "", 60),
	}

	t.Run("default skips older remote entries", func(t *testing.T) {
		times := spent.New(slices.Values(local), spent.Rounding15)
		stats, err := times.Subtract(slices.Values(remote))
		require.NoError(t, err)
		assert.Equal(t, spent.SubtractStats{Matched: 1, OutsideWindow: 1, Removed: 1}, stats)
	})

	t.Run("without window every entry counts", func(t *testing.T) {
		times := spent.New(slices.Values(local), spent.Rounding15, spent.WithoutWindow())
		_, err := times.Subtract(slices.Values(remote))
		require.ErrorIs(t, err, spent.ErrUnmatchedSpentTime)
	})
}

func TestEntriesOrder(t *testing.T) {
	d1, d2 := day(2019, 1, 2), day(2019, 1, 3)
	times := spent.New(slices.Values([]spent.Entry{
		entry(d2, "FB-1", "", 15),
		entry(d1, "FB-2", "Review", 15),
		entry(d1, "FB-2", "", 15),
		entry(d1, "FB-10", "", 15),
		entry(d1, "FB-2", "Analysis", 15),
	}), spent.Rounding15)

	got := times.Entries()
	want := []spent.Key{
		{Date: d1.UnixMilli(), Title: "FB-10"},
		{Date: d1.UnixMilli(), Title: "FB-2"},
		{Date: d1.UnixMilli(), Title: "FB-2", Type: "Analysis"},
		{Date: d1.UnixMilli(), Title: "FB-2", Type: "Review"},
		{Date: d2.UnixMilli(), Title: "FB-1"},
	}
	require.Len(t, got, len(want))
	for i := range got {
		assert.Equal(t, want[i], got[i].Key())
		if i > 0 {
			assert.Negative(t, spent.Compare(got[i-1], got[i]))
		}
	}
}

func TestEntriesReturnsCopies(t *testing.T) {
	d := day(2019, 1, 2)
	times := spent.New(slices.Values([]spent.Entry{entry(d, "FB-42", "", 60, "x")}), spent.Rounding15)

	got := times.Entries()
	got[0].DurationMinutes = 0
	got[0].Comments[0] = "changed"

	again := times.Entries()
	assert.Equal(t, 60, again[0].DurationMinutes)
	assert.Equal(t, []string{"x"}, again[0].Comments)
}

func TestSplitComments(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, spent.SplitComments(" a \n\nb\r\n a"))
	assert.Nil(t, spent.SplitComments(""))
}

func TestTotalsAndEarliest(t *testing.T) {
	times := spent.New(slices.Values([]spent.Entry{
		entry(day(2019, 1, 3), "FB-1", "", 30),
		entry(day(2019, 1, 2), "FB-2", "", 45),
	}), spent.Rounding15)

	assert.Equal(t, 75, times.TotalMinutes())
	earliest, ok := times.EarliestDate()
	require.True(t, ok)
	assert.Equal(t, day(2019, 1, 2), earliest)

	_, ok = spent.New(slices.Values([]spent.Entry{}), spent.Rounding15).EarliestDate()
	assert.False(t, ok)
}
