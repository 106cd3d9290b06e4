package service

import (
	"cmp"
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/arloliu/vibra/encoding"
	"github.com/arloliu/vibra/telemetry"
)

// VelocitySource returns a channel's newest velocity rows, newest first.
type VelocitySource interface {
	Latest(ctx context.Context, channel int, limit int) ([]telemetry.VelocityRow, error)
}

// Velocity lists and decodes velocity waveforms.
type Velocity struct {
	source VelocitySource
	cfg    *config
	log    *zap.SugaredLogger
}

// NewVelocity creates a Velocity service over source.
func NewVelocity(source VelocitySource, opts ...Option) (*Velocity, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &Velocity{
		source: source,
		cfg:    cfg,
		log:    cfg.logger.Sugar().With("component", "velocity"),
	}, nil
}

// MaxLimit returns the upper bound applied to query limits.
func (v *Velocity) MaxLimit() int {
	return v.cfg.maxLimit
}

// Latest returns up to limit of the channel's newest waveforms in ascending
// time order. limit is clamped to [1, MaxLimit].
func (v *Velocity) Latest(ctx context.Context, channel int, limit int) ([]telemetry.VelocityRecord, error) {
	limit = min(max(limit, 1), v.cfg.maxLimit)

	rows, err := v.source.Latest(ctx, channel, limit)
	if err != nil {
		v.log.Errorw("velocity query failed", "channel", channel, "limit", limit, "error", err)
		return nil, err
	}
	v.cfg.metrics.query(ModeVelocityLatest, len(rows))

	records := make([]telemetry.VelocityRecord, len(rows))
	for i, row := range rows {
		records[i] = v.Decode(row)
	}
	slices.SortStableFunc(records, func(a, b telemetry.VelocityRecord) int {
		return cmp.Compare(a.Ts.UnixNano(), b.Ts.UnixNano())
	})

	v.log.Debugw("velocity query resolved", "channel", channel, "limit", limit, "rows", len(rows))

	return records, nil
}

// Decode decodes a single stored row.
func (v *Velocity) Decode(row telemetry.VelocityRow) telemetry.VelocityRecord {
	rec := telemetry.VelocityRecord{Channel: row.Channel, Ts: row.Ts}

	data, ok := encoding.DecodeBase64(row.Values)
	if !ok {
		v.cfg.metrics.velocityDecoded(undecodableLabel)
		v.log.Warnw("velocity blob is not base64", "channel", row.Channel, "ts", row.Ts)

		return rec
	}

	v.cfg.metrics.velocityDecoded(v.cfg.flexible.Classify(data).String())
	rec.Values = v.cfg.flexible.DecodeBytes(data)

	return rec
}
