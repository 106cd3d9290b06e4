package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	badger "github.com/dgraph-io/badger/v3"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/arloliu/vibra/endian"
	"github.com/arloliu/vibra/errs"
	"github.com/arloliu/vibra/timeline"
)

const (
	rowSpace   byte = 0x00
	indexSpace byte = 0x01

	channelKeySize = 4
	tsKeySize      = 8
)

// Badger is a persistent row store on a shared badger database.
//
// Rows of one table live under a common key prefix:
//
//	table | 0x00 | channel (uint32 BE) | time (uint64 BE, newest first)   -> msgpack row
//	table | 0x01 | time (uint64 BE, newest first) | channel (uint32 BE) -> empty
//
// so a prefix scan lists a channel newest first and the first index key is the
// newest timestamp of the table. Timestamps are keyed at microsecond resolution;
// a row written at the same channel and microsecond as an existing row replaces it.
//
// Badger implements timeline.Store and is safe for concurrent use. It does not
// own the database; Close only detaches the store.
type Badger[R Record] struct {
	db     *badger.DB
	table  []byte
	engine endian.EndianEngine
	closed atomic.Bool
}

var _ timeline.Store[timeline.Row] = (*Badger[timeline.Row])(nil)

// OpenBadger creates a store for table on db. The table name must not be empty.
func OpenBadger[R Record](db *badger.DB, table string) (*Badger[R], error) {
	if db == nil {
		return nil, errors.New("badger store requires a database")
	}
	if table == "" {
		return nil, errors.New("badger store requires a table name")
	}

	return &Badger[R]{
		db:     db,
		table:  []byte(table),
		engine: endian.GetBigEndianEngine(),
	}, nil
}

// OpenBadgerDB opens a badger database at path, or an in-memory one when
// inMemory is true, logging through logger.
//
// Parameters:
//   - path: Database directory (ignored when inMemory is true)
//   - inMemory: Keep all data in memory
//   - logger: Logger for badger's internal messages; nil disables them
//
// Returns:
//   - *badger.DB: The opened database, to be closed by the caller
//   - error: Any error from badger.Open
func OpenBadgerDB(path string, inMemory bool, logger *zap.Logger) (*badger.DB, error) {
	if inMemory {
		path = ""
	}

	opts := badger.DefaultOptions(path).
		WithInMemory(inMemory).
		WithSyncWrites(false).
		WithLogger(newBadgerLogger(logger))

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}

	return db, nil
}

// Close detaches the store. The database stays open.
func (b *Badger[R]) Close() error {
	b.closed.Store(true)
	return nil
}

// Insert writes rows in a single batch.
func (b *Badger[R]) Insert(_ context.Context, rows ...R) error {
	if b.closed.Load() {
		return errs.ErrStoreClosed
	}

	wb := b.db.NewWriteBatch()
	defer wb.Cancel()

	for _, row := range rows {
		value, err := msgpack.Marshal(row)
		if err != nil {
			return fmt.Errorf("encode row of channel %d: %w", row.ChannelID(), err)
		}

		ch, ts := row.ChannelID(), row.Timestamp()
		if err := wb.Set(b.rowKey(ch, ts), value); err != nil {
			return err
		}
		if err := wb.Set(b.indexKey(ts, ch), nil); err != nil {
			return err
		}
	}

	return wb.Flush()
}

// RecentTimestamps returns up to limit distinct timestamps of channel, newest first.
func (b *Badger[R]) RecentTimestamps(_ context.Context, channel int, limit int) ([]time.Time, error) {
	if b.closed.Load() {
		return nil, errs.ErrStoreClosed
	}
	if limit <= 0 {
		return nil, nil
	}

	var out []time.Time
	err := b.db.View(func(txn *badger.Txn) error {
		prefix := b.channelPrefix(channel)
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()

		for it.Rewind(); it.Valid() && len(out) < limit; it.Next() {
			out = append(out, b.decodeTs(it.Item().Key()[len(prefix):]))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// MaxTimestamp returns the newest timestamp of the table.
func (b *Badger[R]) MaxTimestamp(_ context.Context) (time.Time, bool, error) {
	if b.closed.Load() {
		return time.Time{}, false, errs.ErrStoreClosed
	}

	var (
		latest time.Time
		found  bool
	)
	err := b.db.View(func(txn *badger.Txn) error {
		prefix := b.spacePrefix(indexSpace)
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()

		it.Rewind()
		if it.Valid() {
			latest, found = b.decodeTs(it.Item().Key()[len(prefix):]), true
		}

		return nil
	})
	if err != nil {
		return time.Time{}, false, err
	}

	return latest, found, nil
}

// FindExact returns the rows of channels at exactly ts, ordered by channel.
// Equality is checked at microsecond resolution, so a sub-microsecond ts matches
// the row stored in the same microsecond.
func (b *Badger[R]) FindExact(_ context.Context, ts time.Time, channels []int) ([]R, error) {
	if b.closed.Load() {
		return nil, errs.ErrStoreClosed
	}

	var out []R
	err := b.db.View(func(txn *badger.Txn) error {
		for _, ch := range sortedChannels(channels) {
			item, err := txn.Get(b.rowKey(ch, ts))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			row, err := b.decodeRow(item)
			if err != nil {
				return err
			}
			out = append(out, row)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// FindNear returns the rows of channels within strictly less than tolerance of
// ts, ordered by channel and then timestamp.
func (b *Badger[R]) FindNear(_ context.Context, ts time.Time, tolerance time.Duration, channels []int) ([]R, error) {
	if b.closed.Load() {
		return nil, errs.ErrStoreClosed
	}
	if tolerance <= 0 {
		return nil, nil
	}

	target := ts.UnixMicro()
	tol := tolerance.Microseconds()
	if tolerance%time.Microsecond != 0 {
		tol++
	}

	var out []R
	err := b.db.View(func(txn *badger.Txn) error {
		for _, ch := range sortedChannels(channels) {
			prefix := b.channelPrefix(ch)
			it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})

			var rows []R
			// keys are newest first: seek to the newest admissible time and walk back
			for it.Seek(b.rowKey(ch, time.UnixMicro(target+tol-1))); it.Valid(); it.Next() {
				us := b.decodeMicros(it.Item().Key()[len(prefix):])
				if us <= target-tol {
					break
				}
				if time.UnixMicro(us).Sub(ts).Abs() >= tolerance {
					continue
				}

				row, err := b.decodeRow(it.Item())
				if err != nil {
					it.Close()
					return err
				}
				rows = append(rows, row)
			}
			it.Close()

			slices.Reverse(rows)
			out = append(out, rows...)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Latest returns up to limit rows of channel, newest first.
func (b *Badger[R]) Latest(_ context.Context, channel int, limit int) ([]R, error) {
	if b.closed.Load() {
		return nil, errs.ErrStoreClosed
	}
	if limit <= 0 {
		return nil, nil
	}

	var out []R
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = b.channelPrefix(channel)
		opts.PrefetchSize = min(limit, opts.PrefetchSize)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid() && len(out) < limit; it.Next() {
			row, err := b.decodeRow(it.Item())
			if err != nil {
				return err
			}
			out = append(out, row)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (b *Badger[R]) decodeRow(item *badger.Item) (R, error) {
	var row R
	err := item.Value(func(val []byte) error {
		return msgpack.Unmarshal(val, &row)
	})
	if err != nil {
		return row, fmt.Errorf("decode row %x: %w", item.Key(), err)
	}

	return row, nil
}

func (b *Badger[R]) spacePrefix(space byte) []byte {
	key := make([]byte, 0, len(b.table)+1+channelKeySize+tsKeySize)
	key = append(key, b.table...)

	return append(key, space)
}

func (b *Badger[R]) channelPrefix(channel int) []byte {
	return b.engine.AppendUint32(b.spacePrefix(rowSpace), uint32(channel)) //nolint:gosec
}

func (b *Badger[R]) rowKey(channel int, ts time.Time) []byte {
	return b.engine.AppendUint64(b.channelPrefix(channel), descendingMicros(ts.UnixMicro()))
}

func (b *Badger[R]) indexKey(ts time.Time, channel int) []byte {
	key := b.engine.AppendUint64(b.spacePrefix(indexSpace), descendingMicros(ts.UnixMicro()))

	return b.engine.AppendUint32(key, uint32(channel)) //nolint:gosec
}

func (b *Badger[R]) decodeMicros(key []byte) int64 {
	return int64(^b.engine.Uint64(key[:tsKeySize]) ^ (1 << 63)) //nolint:gosec
}

func (b *Badger[R]) decodeTs(key []byte) time.Time {
	return time.UnixMicro(b.decodeMicros(key))
}

// descendingMicros maps microseconds to a key that sorts newest first.
func descendingMicros(us int64) uint64 {
	return ^(uint64(us) ^ (1 << 63)) //nolint:gosec
}

type badgerLogger struct {
	sugar *zap.SugaredLogger
}

func newBadgerLogger(logger *zap.Logger) badger.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	return badgerLogger{sugar: logger.Sugar().With("component", "badger")}
}

func (l badgerLogger) Errorf(format string, args ...any)   { l.sugar.Errorf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...any) { l.sugar.Warnf(format, args...) }
func (l badgerLogger) Infof(format string, args ...any)    { l.sugar.Infof(format, args...) }
func (l badgerLogger) Debugf(format string, args ...any)   { l.sugar.Debugf(format, args...) }
