package timeline

import (
	"context"
	"time"
)

// Row is a stored sample that belongs to one channel at one instant.
type Row interface {
	ChannelID() int
	Timestamp() time.Time
}

// Store is the query surface the Resolver needs from a row store.
//
// Implementations must return complete result sets; the Resolver performs no
// paging. Timestamps are compared as instants, so implementations must not
// truncate them below the precision at which rows are written.
type Store[R Row] interface {
	// RecentTimestamps returns up to limit distinct timestamps of channel, newest first.
	RecentTimestamps(ctx context.Context, channel int, limit int) ([]time.Time, error)

	// MaxTimestamp returns the newest timestamp across all channels, or false if
	// the store is empty.
	MaxTimestamp(ctx context.Context) (time.Time, bool, error)

	// FindExact returns the rows of channels whose timestamp equals ts, ordered by channel.
	FindExact(ctx context.Context, ts time.Time, channels []int) ([]R, error)

	// FindNear returns the rows of channels whose timestamp differs from ts by
	// strictly less than tolerance, ordered by channel and then timestamp.
	FindNear(ctx context.Context, ts time.Time, tolerance time.Duration, channels []int) ([]R, error)
}
