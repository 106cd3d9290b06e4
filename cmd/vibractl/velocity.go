package main

import (
	"github.com/spf13/cobra"

	"github.com/arloliu/vibra/telemetry"
)

func newVelocityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "velocity",
		Short: "List decoded velocity waveforms",
	}

	var channel, limit int
	latest := &cobra.Command{
		Use:   "latest",
		Short: "A channel's newest waveforms in ascending time order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.velocityService(cmd)
			if err != nil {
				return err
			}

			records, err := svc.Latest(cmd.Context(), channel, limit)
			if err != nil {
				return err
			}
			if records == nil {
				records = []telemetry.VelocityRecord{}
			}

			return writeJSON(cmd.OutOrStdout(), records)
		},
	}
	latest.Flags().IntVar(&channel, "channel", 0, "channel id")
	latest.Flags().IntVar(&limit, "limit", 10, "number of waveforms, clamped to velocity.max_limit")
	_ = latest.MarkFlagRequired("channel")

	cmd.AddCommand(latest)

	return cmd
}
