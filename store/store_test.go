package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/vibra/errs"
	"github.com/arloliu/vibra/telemetry"
	"github.com/arloliu/vibra/timeline"
)

// rowStore is the surface shared by Memory and Badger.
type rowStore interface {
	timeline.Store[telemetry.SpectrumRow]
	Writer[telemetry.SpectrumRow]
	Latest(ctx context.Context, channel int, limit int) ([]telemetry.SpectrumRow, error)
	Close() error
}

var t0 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func ms(n int) time.Time {
	return t0.Add(time.Duration(n) * time.Millisecond)
}

func row(ch int, ts time.Time) telemetry.SpectrumRow {
	return telemetry.SpectrumRow{Channel: ch, Ts: ts, Freq: "freq", Amplitude: "amp"}
}

func timestampsOf(rows []telemetry.SpectrumRow) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.Ts.UnixMilli()
	}

	return out
}

func millisOf(ts []time.Time) []int64 {
	out := make([]int64, len(ts))
	for i, t := range ts {
		out[i] = t.UnixMilli()
	}

	return out
}

func channelsOfRows(rows []telemetry.SpectrumRow) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Channel
	}

	return out
}

func seed(t *testing.T, s rowStore) {
	t.Helper()

	require.NoError(t, s.Insert(context.Background(),
		row(2, ms(3000)),
		row(1, ms(1000)),
		row(1, ms(3000)),
		row(1, ms(2000)),
		row(2, ms(3200)),
		row(3, ms(5000)),
		row(1, ms(2600)),
	))
}

func runStoreSuite(t *testing.T, newStore func(t *testing.T) rowStore) {
	ctx := context.Background()

	t.Run("RecentTimestamps", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		got, err := s.RecentTimestamps(ctx, 1, 3)
		require.NoError(t, err)
		require.Equal(t, []int64{3000, 2600, 2000}, millisOf(got))

		got, err = s.RecentTimestamps(ctx, 1, 10)
		require.NoError(t, err)
		require.Equal(t, []int64{3000, 2600, 2000, 1000}, millisOf(got))

		got, err = s.RecentTimestamps(ctx, 9, 10)
		require.NoError(t, err)
		require.Empty(t, got)

		got, err = s.RecentTimestamps(ctx, 1, 0)
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("MaxTimestamp", func(t *testing.T) {
		s := newStore(t)

		_, ok, err := s.MaxTimestamp(ctx)
		require.NoError(t, err)
		require.False(t, ok)

		seed(t, s)
		got, ok, err := s.MaxTimestamp(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.True(t, ms(5000).Equal(got))
	})

	t.Run("FindExact", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		got, err := s.FindExact(ctx, ms(3000), []int{3, 2, 1})
		require.NoError(t, err)
		require.Equal(t, []int{1, 2}, channelsOfRows(got))
		require.Equal(t, []int64{3000, 3000}, timestampsOf(got))

		got, err = s.FindExact(ctx, ms(3001), []int{1, 2})
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("FindNear", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		got, err := s.FindNear(ctx, ms(3000), 500*time.Millisecond, []int{2, 1})
		require.NoError(t, err)
		require.Equal(t, []int{1, 1, 2, 2}, channelsOfRows(got))
		require.Equal(t, []int64{2600, 3000, 3000, 3200}, timestampsOf(got))

		// strictly less than the tolerance
		got, err = s.FindNear(ctx, ms(2500), 500*time.Millisecond, []int{1})
		require.NoError(t, err)
		require.Equal(t, []int64{2600}, timestampsOf(got))

		got, err = s.FindNear(ctx, ms(2500), 0, []int{1})
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("Latest", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		got, err := s.Latest(ctx, 1, 2)
		require.NoError(t, err)
		require.Equal(t, []int64{3000, 2600}, timestampsOf(got))
		require.Equal(t, "freq", got[0].Freq)

		got, err = s.Latest(ctx, 2, 100)
		require.NoError(t, err)
		require.Equal(t, []int64{3200, 3000}, timestampsOf(got))
	})

	t.Run("Closed", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)
		require.NoError(t, s.Close())

		_, err := s.RecentTimestamps(ctx, 1, 1)
		require.ErrorIs(t, err, errs.ErrStoreClosed)
		_, _, err = s.MaxTimestamp(ctx)
		require.ErrorIs(t, err, errs.ErrStoreClosed)
		_, err = s.FindExact(ctx, ms(3000), []int{1})
		require.ErrorIs(t, err, errs.ErrStoreClosed)
		_, err = s.FindNear(ctx, ms(3000), time.Second, []int{1})
		require.ErrorIs(t, err, errs.ErrStoreClosed)
		_, err = s.Latest(ctx, 1, 1)
		require.ErrorIs(t, err, errs.ErrStoreClosed)
		require.ErrorIs(t, s.Insert(ctx, row(1, ms(0))), errs.ErrStoreClosed)
	})

	t.Run("WithResolver", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		r := timeline.NewResolver[telemetry.SpectrumRow](s, timeline.ClockIn(time.UTC))

		got, err := r.ByCommon(ctx, []int{1, 2}, 0)
		require.NoError(t, err)
		require.Equal(t, []int{1, 1, 2, 2}, channelsOfRows(got))

		got, err = r.ByRank(ctx, []int{1, 2, 3}, 1)
		require.NoError(t, err)
		require.Equal(t, []int{1, 2}, channelsOfRows(got))
		require.Equal(t, []int64{2600, 3000}, timestampsOf(got))

		got, err = r.LatestPerChannel(ctx, []int{1, 2, 3})
		require.NoError(t, err)
		require.Equal(t, []int64{3000, 3200, 5000}, timestampsOf(got))
	})
}
