package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/arloliu/vibra/telemetry"
	"github.com/arloliu/vibra/timeline"
)

func newSpectrumCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spectrum",
		Short: "Resolve and decode stored spectra",
	}
	cmd.AddCommand(
		newSpectrumTimestampsCmd(a),
		newSpectrumAtCmd(a),
		newSpectrumLatestCmd(a),
		newSpectrumRankCmd(a),
		newSpectrumCommonCmd(a),
	)

	return cmd
}

func newSpectrumTimestampsCmd(a *app) *cobra.Command {
	var channel, limit int
	var layout string

	cmd := &cobra.Command{
		Use:   "timestamps",
		Short: "List a channel's newest timestamps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.spectrumService(cmd)
			if err != nil {
				return err
			}

			ts, err := svc.Timestamps(cmd.Context(), channel, limit, timeline.ParseLayout(layout))
			if err != nil {
				return err
			}
			if ts == nil {
				ts = []string{}
			}

			return writeJSON(cmd.OutOrStdout(), ts)
		},
	}
	cmd.Flags().IntVar(&channel, "channel", 0, "channel id")
	cmd.Flags().IntVar(&limit, "limit", 10, "number of timestamps")
	cmd.Flags().StringVar(&layout, "format", timeline.LayoutLocal.String(), "timestamp format (local, utc)")
	_ = cmd.MarkFlagRequired("channel")

	return cmd
}

func newSpectrumAtCmd(a *app) *cobra.Command {
	var ts string
	var channels []int

	cmd := &cobra.Command{
		Use:   "at",
		Short: "Spectra at an exact timestamp, or at the newest one when --ts is omitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.querySpectra(cmd, channels, func(svc spectrumQuerier) ([]telemetry.SpectrumRecord, error) {
				return svc.AtOrLatest(cmd.Context(), ts, channels)
			})
		},
	}
	cmd.Flags().StringVar(&ts, "ts", "", "timestamp, zone-less values are in the configured zone")
	cmd.Flags().IntSliceVar(&channels, "channels", nil, "channel ids")

	return cmd
}

func newSpectrumLatestCmd(a *app) *cobra.Command {
	var channels []int

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Each channel's newest spectrum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.querySpectra(cmd, channels, func(svc spectrumQuerier) ([]telemetry.SpectrumRecord, error) {
				return svc.LatestPerChannel(cmd.Context(), channels)
			})
		},
	}
	cmd.Flags().IntSliceVar(&channels, "channels", nil, "channel ids")

	return cmd
}

func newSpectrumRankCmd(a *app) *cobra.Command {
	var channels []int
	var rank int

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Per channel, the spectrum at its rank-th newest timestamp (0 is newest)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rank < 0 {
				return errors.New("rank must not be negative")
			}

			return a.querySpectra(cmd, channels, func(svc spectrumQuerier) ([]telemetry.SpectrumRecord, error) {
				return svc.ByRank(cmd.Context(), channels, rank)
			})
		},
	}
	cmd.Flags().IntSliceVar(&channels, "channels", nil, "channel ids")
	cmd.Flags().IntVar(&rank, "rank", 0, "timestamp rank, 0 is newest")

	return cmd
}

func newSpectrumCommonCmd(a *app) *cobra.Command {
	var channels []int
	var offset int

	cmd := &cobra.Command{
		Use:   "common",
		Short: "Spectra near the offset-th newest timestamp shared by all channels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if offset < 0 {
				return errors.New("offset must not be negative")
			}

			return a.querySpectra(cmd, channels, func(svc spectrumQuerier) ([]telemetry.SpectrumRecord, error) {
				return svc.ByCommon(cmd.Context(), channels, offset)
			})
		},
	}
	cmd.Flags().IntSliceVar(&channels, "channels", nil, "channel ids")
	cmd.Flags().IntVar(&offset, "offset", 0, "common timestamp offset, 0 is newest")

	return cmd
}

type spectrumQuerier interface {
	AtOrLatest(ctx context.Context, ts string, channels []int) ([]telemetry.SpectrumRecord, error)
	LatestPerChannel(ctx context.Context, channels []int) ([]telemetry.SpectrumRecord, error)
	ByRank(ctx context.Context, channels []int, rank int) ([]telemetry.SpectrumRecord, error)
	ByCommon(ctx context.Context, channels []int, offset int) ([]telemetry.SpectrumRecord, error)
}

func (a *app) querySpectra(cmd *cobra.Command, channels []int, query func(spectrumQuerier) ([]telemetry.SpectrumRecord, error)) error {
	if len(channels) == 0 {
		return errors.New("--channels is required")
	}

	svc, err := a.spectrumService(cmd)
	if err != nil {
		return err
	}

	records, err := query(svc)
	if err != nil {
		return err
	}
	if records == nil {
		records = []telemetry.SpectrumRecord{}
	}

	return writeJSON(cmd.OutOrStdout(), records)
}
