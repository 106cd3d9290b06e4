package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/arloliu/vibra/errs"
	"github.com/arloliu/vibra/timeline"
)

// Record is a row that can be kept in a store.
type Record = timeline.Row

// Writer accepts rows.
type Writer[R Record] interface {
	Insert(ctx context.Context, rows ...R) error
}

// Memory is an in-memory row store, keyed by channel and ordered by time.
//
// Memory implements timeline.Store and is safe for concurrent use. It serves
// tests, the CLI, and deployments that load a snapshot at startup.
type Memory[R Record] struct {
	mu       sync.RWMutex
	channels map[int][]R // ascending by timestamp
	count    int
	closed   bool
}

var _ timeline.Store[timeline.Row] = (*Memory[timeline.Row])(nil)

// NewMemory creates an empty Memory store.
func NewMemory[R Record]() *Memory[R] {
	return &Memory[R]{channels: make(map[int][]R)}
}

// Insert adds rows. Rows with equal channel and timestamp are all kept, in
// insertion order.
func (m *Memory[R]) Insert(_ context.Context, rows ...R) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errs.ErrStoreClosed
	}

	for _, row := range rows {
		ch := row.ChannelID()
		list := m.channels[ch]
		// insert after every row at or before this timestamp
		i, _ := slices.BinarySearchFunc(list, row.Timestamp(), func(r R, t time.Time) int {
			if r.Timestamp().After(t) {
				return 1
			}
			return -1
		})
		m.channels[ch] = slices.Insert(list, i, row)
	}
	m.count += len(rows)

	return nil
}

// Len returns the number of stored rows.
func (m *Memory[R]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.count
}

// Close releases the stored rows. Later calls return errs.ErrStoreClosed.
func (m *Memory[R]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.channels = nil
	m.count = 0

	return nil
}

// RecentTimestamps returns up to limit distinct timestamps of channel, newest first.
func (m *Memory[R]) RecentTimestamps(_ context.Context, channel int, limit int) ([]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, errs.ErrStoreClosed
	}
	if limit <= 0 {
		return nil, nil
	}

	list := m.channels[channel]
	out := make([]time.Time, 0, min(limit, len(list)))
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		ts := list[i].Timestamp()
		if n := len(out); n > 0 && out[n-1].Equal(ts) {
			continue
		}
		out = append(out, ts)
	}

	return out, nil
}

// MaxTimestamp returns the newest timestamp across all channels.
func (m *Memory[R]) MaxTimestamp(_ context.Context) (time.Time, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return time.Time{}, false, errs.ErrStoreClosed
	}

	var (
		latest time.Time
		found  bool
	)
	for _, list := range m.channels {
		if len(list) == 0 {
			continue
		}
		if ts := list[len(list)-1].Timestamp(); !found || ts.After(latest) {
			latest, found = ts, true
		}
	}

	return latest, found, nil
}

// FindExact returns the rows of channels at exactly ts, ordered by channel.
func (m *Memory[R]) FindExact(_ context.Context, ts time.Time, channels []int) ([]R, error) {
	return m.collect(channels, func(list []R) []R {
		lo, hi := bounds(list, ts, ts)
		return list[lo:hi]
	})
}

// FindNear returns the rows of channels within strictly less than tolerance of
// ts, ordered by channel and then timestamp.
func (m *Memory[R]) FindNear(_ context.Context, ts time.Time, tolerance time.Duration, channels []int) ([]R, error) {
	if tolerance <= 0 {
		return nil, nil
	}

	// |Δ| < tolerance as an inclusive range at nanosecond resolution
	from, to := ts.Add(-tolerance+1), ts.Add(tolerance-1)

	return m.collect(channels, func(list []R) []R {
		lo, hi := bounds(list, from, to)
		return list[lo:hi]
	})
}

// Latest returns up to limit rows of channel, newest first.
func (m *Memory[R]) Latest(_ context.Context, channel int, limit int) ([]R, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, errs.ErrStoreClosed
	}
	if limit <= 0 {
		return nil, nil
	}

	list := m.channels[channel]
	n := min(limit, len(list))
	out := make([]R, 0, n)
	for i := len(list) - 1; i >= len(list)-n; i-- {
		out = append(out, list[i])
	}

	return out, nil
}

func (m *Memory[R]) collect(channels []int, pick func([]R) []R) ([]R, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, errs.ErrStoreClosed
	}

	var out []R
	for _, ch := range sortedChannels(channels) {
		out = append(out, pick(m.channels[ch])...)
	}

	return out, nil
}

// bounds returns the half-open index range of rows with from <= ts <= to.
func bounds[R Record](list []R, from, to time.Time) (int, int) {
	lo, _ := slices.BinarySearchFunc(list, from, func(r R, t time.Time) int {
		if r.Timestamp().Before(t) {
			return -1
		}
		return 1
	})
	hi, _ := slices.BinarySearchFunc(list, to, func(r R, t time.Time) int {
		if r.Timestamp().After(t) {
			return 1
		}
		return -1
	})
	if hi < lo {
		hi = lo
	}

	return lo, hi
}

// sortedChannels returns the distinct channels in ascending order.
func sortedChannels(channels []int) []int {
	out := slices.Clone(channels)
	slices.SortFunc(out, cmp.Compare[int])

	return slices.Compact(out)
}
