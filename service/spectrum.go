package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/arloliu/vibra/telemetry"
	"github.com/arloliu/vibra/timeline"
)

// Spectrum resolves spectrum rows by timestamp and decodes their arrays.
type Spectrum struct {
	resolver *timeline.Resolver[telemetry.SpectrumRow]
	cfg      *config
	log      *zap.SugaredLogger
}

// NewSpectrum creates a Spectrum service over store, interpreting zone-less
// timestamps with clock.
func NewSpectrum(store timeline.Store[telemetry.SpectrumRow], clock timeline.Clock, opts ...Option) (*Spectrum, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &Spectrum{
		resolver: timeline.NewResolver(store, clock),
		cfg:      cfg,
		log:      cfg.logger.Sugar().With("component", "spectrum"),
	}, nil
}

// Clock returns the storage clock.
func (s *Spectrum) Clock() timeline.Clock {
	return s.resolver.Clock()
}

// Timestamps returns the newest limit timestamps of channel, newest first,
// formatted with layout.
func (s *Spectrum) Timestamps(ctx context.Context, channel int, limit int, layout timeline.Layout) ([]string, error) {
	ts, err := s.resolver.Timestamps(ctx, channel, limit, layout)
	if err != nil {
		s.log.Errorw("list timestamps failed", "channel", channel, "error", err)
		return nil, err
	}
	s.cfg.metrics.query(ModeTimestamps, len(ts))

	return ts, nil
}

// AtOrLatest returns the channels' spectra at ts, or at the newest stored
// timestamp when ts is blank.
func (s *Spectrum) AtOrLatest(ctx context.Context, ts string, channels []int) ([]telemetry.SpectrumRecord, error) {
	rows, err := s.resolver.AtOrLatest(ctx, ts, channels)

	return s.finish(ModeAt, channels, rows, err, "ts", ts)
}

// LatestPerChannel returns each channel's newest spectrum.
func (s *Spectrum) LatestPerChannel(ctx context.Context, channels []int) ([]telemetry.SpectrumRecord, error) {
	rows, err := s.resolver.LatestPerChannel(ctx, channels)

	return s.finish(ModeLatestPerChannel, channels, rows, err)
}

// ByRank returns, per channel, the spectrum closest to that channel's
// rank-th newest timestamp.
func (s *Spectrum) ByRank(ctx context.Context, channels []int, rank int) ([]telemetry.SpectrumRecord, error) {
	rows, err := s.resolver.ByRank(ctx, channels, rank)

	return s.finish(ModeRank, channels, rows, err, "rank", rank)
}

// ByCommon returns the spectra near the offset-th newest timestamp shared by
// all channels.
func (s *Spectrum) ByCommon(ctx context.Context, channels []int, offset int) ([]telemetry.SpectrumRecord, error) {
	rows, err := s.resolver.ByCommon(ctx, channels, offset)

	return s.finish(ModeCommon, channels, rows, err, "offset", offset)
}

// Decode decodes a single stored row.
func (s *Spectrum) Decode(row telemetry.SpectrumRow) telemetry.SpectrumRecord {
	spec := s.cfg.disambiguator.ResolveSpectrum(row.Freq, row.Amplitude)

	rec := telemetry.SpectrumRecord{
		Channel:   row.Channel,
		Ts:        row.Ts,
		Freq:      spec.Freq,
		Amplitude: spec.Amplitude,
	}
	if !spec.OK() {
		s.cfg.metrics.spectrumDecoded(undecodableLabel)
		s.log.Warnw("spectrum undecodable", "channel", row.Channel, "ts", row.Ts)

		return rec
	}

	rec.Encoding = spec.Encoding
	s.cfg.metrics.spectrumDecoded(spec.Encoding.String())

	return rec
}

func (s *Spectrum) finish(mode string, channels []int, rows []telemetry.SpectrumRow, err error, kv ...any) ([]telemetry.SpectrumRecord, error) {
	if err != nil {
		s.log.Errorw("spectrum query failed", append([]any{"mode", mode, "channels", channels, "error", err}, kv...)...)
		return nil, err
	}
	s.cfg.metrics.query(mode, len(rows))

	records := make([]telemetry.SpectrumRecord, len(rows))
	for i, row := range rows {
		records[i] = s.Decode(row)
	}

	s.log.Debugw("spectrum query resolved", append([]any{"mode", mode, "channels", channels, "rows", len(rows)}, kv...)...)

	return records, nil
}
