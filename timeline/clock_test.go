package timeline

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/arloliu/vibra/errs"
	"github.com/stretchr/testify/require"
)

func seoulClock(t *testing.T) Clock {
	t.Helper()

	c, err := NewClock(DefaultZone)
	require.NoError(t, err)

	return c
}

func TestNewClock_InvalidZone(t *testing.T) {
	_, err := NewClock("Mars/Olympus_Mons")
	require.ErrorIs(t, err, errs.ErrInvalidZone)
}

func TestClock_Parse(t *testing.T) {
	c := seoulClock(t)
	loc := c.Location()

	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"bare local", "2024-05-01T09:30:00", time.Date(2024, 5, 1, 9, 30, 0, 0, loc)},
		{"bare local with fraction", "2024-05-01T09:30:00.250", time.Date(2024, 5, 1, 9, 30, 0, 250_000_000, loc)},
		{"bare local without seconds", "2024-05-01T09:30", time.Date(2024, 5, 1, 9, 30, 0, 0, loc)},
		{"utc instant", "2024-05-01T00:30:00Z", time.Date(2024, 5, 1, 9, 30, 0, 0, loc)},
		{"lowercase z", "2024-05-01T00:30:00z", time.Date(2024, 5, 1, 9, 30, 0, 0, loc)},
		{"positive offset", "2024-05-01T10:30:00+10:00", time.Date(2024, 5, 1, 9, 30, 0, 0, loc)},
		{"negative offset", "2024-04-30T19:30:00-05:00", time.Date(2024, 5, 1, 9, 30, 0, 0, loc)},
		{"surrounding spaces", "  2024-05-01T09:30:00 ", time.Date(2024, 5, 1, 9, 30, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := c.Parse(tt.in)
			require.NoError(t, err)
			require.True(t, ok)
			require.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			require.Equal(t, loc, got.Location())
		})
	}
}

func TestClock_ParseBlank(t *testing.T) {
	c := seoulClock(t)

	for _, in := range []string{"", "   "} {
		got, ok, err := c.Parse(in)
		require.NoError(t, err)
		require.False(t, ok)
		require.True(t, got.IsZero())
	}
}

func TestClock_ParseInvalid(t *testing.T) {
	c := seoulClock(t)

	for _, in := range []string{"yesterday", "2024-13-01T00:00:00", "2024-05-01 09:30:00", "2024-05-01T25:00:00Z", "Z"} {
		_, _, err := c.Parse(in)
		require.ErrorIs(t, err, errs.ErrInvalidTimestamp, "input %q", in)
	}
}

func TestClock_Format(t *testing.T) {
	c := seoulClock(t)
	ts := time.Date(2024, 5, 1, 0, 30, 0, 0, time.UTC)

	require.Equal(t, "2024-05-01T09:30:00", c.Format(ts, LayoutLocal))
	require.Equal(t, "2024-05-01T00:30:00Z", c.Format(ts, LayoutUTC))

	frac := ts.Add(123 * time.Millisecond)
	require.Equal(t, "2024-05-01T09:30:00.123", c.Format(frac, LayoutLocal))
	require.Equal(t, "2024-05-01T00:30:00.123Z", c.Format(frac, LayoutUTC))
}

func TestClock_RoundTrip(t *testing.T) {
	c := seoulClock(t)

	for _, layout := range []Layout{LayoutLocal, LayoutUTC} {
		ts := time.Date(2024, 5, 1, 9, 30, 15, 500_000_000, c.Location())
		got := c.MustParse(c.Format(ts, layout))
		require.True(t, ts.Equal(got), "layout %s", layout)
	}
}

func TestClock_ZeroValueIsUTC(t *testing.T) {
	var c Clock
	require.Equal(t, time.UTC, c.Location())
	require.Equal(t, "2024-05-01T00:30:00", c.Format(time.Date(2024, 5, 1, 0, 30, 0, 0, time.UTC), LayoutLocal))
}

func TestParseLayout(t *testing.T) {
	require.Equal(t, LayoutUTC, ParseLayout("utc"))
	require.Equal(t, LayoutUTC, ParseLayout(" UTC "))
	require.Equal(t, LayoutLocal, ParseLayout("local"))
	require.Equal(t, LayoutLocal, ParseLayout(""))
	require.Equal(t, LayoutLocal, ParseLayout("iso"))

	require.Equal(t, "utc", LayoutUTC.String())
	require.Equal(t, "local", LayoutLocal.String())
}
