package timeline

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"
)

// ApproxTolerance is the window used when a resolved timestamp is looked up
// again to fetch rows. It absorbs sub-millisecond jitter between the timestamp
// listing and the row fetch.
const ApproxTolerance = 500 * time.Millisecond

// MinCommonWindow is the smallest per-channel timestamp window fetched for a
// common-timestamp query.
const MinCommonWindow = 50

// CommonWindow returns how many recent timestamps per channel a common-timestamp
// query at offset inspects: max(50, offset+10).
func CommonWindow(offset int) int {
	return max(MinCommonWindow, offset+10)
}

// Resolver answers "which rows represent this moment" across channels.
//
// It keeps no state between calls: every query re-reads the timestamps it
// needs from the Store. A Resolver is safe for concurrent use when its Store is.
type Resolver[R Row] struct {
	store Store[R]
	clock Clock
}

// NewResolver creates a Resolver over store, parsing and formatting timestamps
// with clock.
func NewResolver[R Row](store Store[R], clock Clock) *Resolver[R] {
	return &Resolver[R]{store: store, clock: clock}
}

// Clock returns the clock used for timestamp arguments.
func (r *Resolver[R]) Clock() Clock {
	return r.clock
}

// Timestamps lists up to limit recent timestamps of channel, newest first,
// rendered with layout. A non-positive limit yields an empty listing.
func (r *Resolver[R]) Timestamps(ctx context.Context, channel int, limit int, layout Layout) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	ts, err := r.store.RecentTimestamps(ctx, channel, limit)
	if err != nil {
		return nil, fmt.Errorf("list timestamps of channel %d: %w", channel, err)
	}

	return r.clock.FormatAll(ts, layout), nil
}

// AtOrLatest returns the rows of channels recorded exactly at ts.
//
// A blank ts selects the newest timestamp across the whole store, regardless of
// channels. No tolerance is applied: channels without a row at exactly that
// instant are absent from the result.
//
// Parameters:
//   - ctx: Context for the store queries
//   - ts: Timestamp argument, see Clock.Parse; blank for the latest
//   - channels: Channels to fetch
//
// Returns:
//   - []R: Matching rows ordered by channel
//   - error: errs.ErrInvalidTimestamp if ts cannot be parsed, or a store error
func (r *Resolver[R]) AtOrLatest(ctx context.Context, ts string, channels []int) ([]R, error) {
	target, ok, err := r.clock.Parse(ts)
	if err != nil {
		return nil, err
	}

	channels = uniqueChannels(channels)
	if len(channels) == 0 {
		return nil, nil
	}

	if !ok {
		target, ok, err = r.store.MaxTimestamp(ctx)
		if err != nil {
			return nil, fmt.Errorf("find latest timestamp: %w", err)
		}
		if !ok {
			return nil, nil
		}
	}

	rows, err := r.store.FindExact(ctx, target, channels)
	if err != nil {
		return nil, fmt.Errorf("find rows at %s: %w", r.clock.Format(target, LayoutLocal), err)
	}

	return rows, nil
}

// LatestPerChannel returns the newest row of each channel, ordered by channel.
//
// Unlike AtOrLatest with a blank timestamp, each channel is resolved against its
// own newest timestamp, so the rows need not share an instant. Channels without
// data are skipped.
func (r *Resolver[R]) LatestPerChannel(ctx context.Context, channels []int) ([]R, error) {
	channels = uniqueChannels(channels)

	out := make([]R, 0, len(channels))
	for _, ch := range channels {
		recent, err := r.store.RecentTimestamps(ctx, ch, 1)
		if err != nil {
			return nil, fmt.Errorf("list timestamps of channel %d: %w", ch, err)
		}
		if len(recent) == 0 {
			continue
		}

		rows, err := r.store.FindExact(ctx, recent[0], []int{ch})
		if err != nil {
			return nil, fmt.Errorf("find latest rows of channel %d: %w", ch, err)
		}
		out = append(out, rows...)
	}

	slices.SortStableFunc(out, func(a, b R) int { return cmp.Compare(a.ChannelID(), b.ChannelID()) })

	return out, nil
}

// ByRank returns, for each channel independently, the row at its rank-th most
// recent timestamp (0 is the newest).
//
// The row is fetched with an ApproxTolerance lookup around that timestamp and the
// closest match is kept. Channels with fewer than rank+1 timestamps are skipped.
// A negative rank or an empty channel set yields an empty result.
//
// Returns:
//   - []R: At most one row per channel, ordered by channel
//   - error: A store error
func (r *Resolver[R]) ByRank(ctx context.Context, channels []int, rank int) ([]R, error) {
	channels = uniqueChannels(channels)
	if rank < 0 || len(channels) == 0 {
		return nil, nil
	}

	out := make([]R, 0, len(channels))
	for _, ch := range channels {
		recent, err := r.store.RecentTimestamps(ctx, ch, rank+1)
		if err != nil {
			return nil, fmt.Errorf("list timestamps of channel %d: %w", ch, err)
		}
		if len(recent) <= rank {
			continue
		}

		target := recent[rank]
		rows, err := r.store.FindNear(ctx, target, ApproxTolerance, []int{ch})
		if err != nil {
			return nil, fmt.Errorf("find rows of channel %d near %s: %w", ch, r.clock.Format(target, LayoutLocal), err)
		}
		if row, ok := closest(rows, ch, target); ok {
			out = append(out, row)
		}
	}

	slices.SortStableFunc(out, func(a, b R) int { return cmp.Compare(a.ChannelID(), b.ChannelID()) })

	return out, nil
}

// ByCommon returns the rows of channels at their offset-th most recent common
// timestamp (0 is the newest).
//
// A common timestamp is one present, exactly, in the CommonWindow(offset) most
// recent timestamps of every requested channel. The rows are then fetched with an
// ApproxTolerance lookup, so a channel may contribute more than one row when
// several of its samples fall inside the window.
//
// A negative offset, an empty channel set or fewer than offset+1 common
// timestamps yields an empty result.
func (r *Resolver[R]) ByCommon(ctx context.Context, channels []int, offset int) ([]R, error) {
	target, ok, err := r.CommonAt(ctx, channels, offset)
	if err != nil || !ok {
		return nil, err
	}

	rows, err := r.store.FindNear(ctx, target, ApproxTolerance, uniqueChannels(channels))
	if err != nil {
		return nil, fmt.Errorf("find rows near %s: %w", r.clock.Format(target, LayoutLocal), err)
	}

	return rows, nil
}

// CommonAt returns the offset-th most recent timestamp shared by every channel,
// or false when there is none.
func (r *Resolver[R]) CommonAt(ctx context.Context, channels []int, offset int) (time.Time, bool, error) {
	channels = uniqueChannels(channels)
	if offset < 0 || len(channels) == 0 {
		return time.Time{}, false, nil
	}

	window := CommonWindow(offset)
	sets := make([][]time.Time, 0, len(channels))
	for _, ch := range channels {
		recent, err := r.store.RecentTimestamps(ctx, ch, window)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("list timestamps of channel %d: %w", ch, err)
		}
		sets = append(sets, recent)
	}

	common := CommonTimestamps(sets)
	if offset >= len(common) {
		return time.Time{}, false, nil
	}

	return common[offset], true, nil
}

// CommonTimestamps returns the instants present in every set, newest first.
//
// Membership is exact instant equality; duplicates within a set are ignored. No
// sets, or any empty set, yields an empty result.
func CommonTimestamps(sets [][]time.Time) []time.Time {
	if len(sets) == 0 {
		return nil
	}

	counts := make(map[instant]int, len(sets[0]))
	for _, t := range sets[0] {
		counts[instantOf(t)] = 1
	}

	for i, set := range sets[1:] {
		round := i + 2
		for _, t := range set {
			key := instantOf(t)
			if counts[key] == round-1 {
				counts[key] = round
			}
		}
	}

	out := make([]time.Time, 0, len(counts))
	seen := make(map[instant]struct{}, len(counts))
	for _, t := range sets[0] {
		key := instantOf(t)
		if counts[key] != len(sets) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}

	slices.SortFunc(out, func(a, b time.Time) int { return b.Compare(a) })

	return out
}

// instant identifies a point in time independent of its location, over the
// full time.Time range.
type instant struct {
	sec  int64
	nsec int
}

func instantOf(t time.Time) instant {
	return instant{sec: t.Unix(), nsec: t.Nanosecond()}
}

// closest returns the row of channel whose timestamp is nearest to target.
// The earlier row wins a tie.
func closest[R Row](rows []R, channel int, target time.Time) (R, bool) {
	var (
		best  R
		found bool
		delta time.Duration
	)
	for _, row := range rows {
		if row.ChannelID() != channel {
			continue
		}
		d := row.Timestamp().Sub(target).Abs()
		if !found || d < delta {
			best, delta, found = row, d, true
		}
	}

	return best, found
}

// uniqueChannels drops duplicate channels, keeping the first occurrence.
func uniqueChannels(channels []int) []int {
	if len(channels) < 2 {
		return channels
	}

	seen := make(map[int]struct{}, len(channels))
	out := make([]int, 0, len(channels))
	for _, ch := range channels {
		if _, ok := seen[ch]; ok {
			continue
		}
		seen[ch] = struct{}{}
		out = append(out, ch)
	}

	return out
}
