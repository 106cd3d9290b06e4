package main

import (
	"errors"
	"math"

	"github.com/spf13/cobra"

	"github.com/arloliu/vibra/codec"
	"github.com/arloliu/vibra/encoding"
	"github.com/arloliu/vibra/format"
	"github.com/arloliu/vibra/telemetry"
)

type candidateView struct {
	Encoding format.ElementEncoding `json:"encoding"`
	Count    int                    `json:"count"`
	Score    *float64               `json:"score,omitempty"`
}

type spectrumView struct {
	Encoding   format.ElementEncoding `json:"encoding,omitempty"`
	Score      *float64               `json:"score,omitempty"`
	Freq       telemetry.Series       `json:"freq"`
	Amplitude  telemetry.Series       `json:"amplitude"`
	Candidates []candidateView        `json:"candidates,omitempty"`
}

type signalView struct {
	Encoding   format.ElementEncoding `json:"encoding,omitempty"`
	Score      *float64               `json:"score,omitempty"`
	Values     telemetry.Series       `json:"values"`
	Candidates []candidateView        `json:"candidates,omitempty"`
}

type velocityView struct {
	Kind   string           `json:"kind"`
	Ratio  float64          `json:"textRatio"`
	Values telemetry.Series `json:"values"`
}

// finite returns nil for scores that JSON cannot represent.
func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	return &f
}

func candidateViews(cands []codec.Candidate) []candidateView {
	views := make([]candidateView, len(cands))
	for i, c := range cands {
		views[i] = candidateView{Encoding: c.Encoding, Count: len(c.Values), Score: finite(c.Score)}
	}

	return views
}

func newDecodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode base64 arrays",
	}
	cmd.AddCommand(newDecodeSpectrumCmd(a), newDecodeSignalCmd(a), newDecodeVelocityCmd(a))

	return cmd
}

func newDecodeSpectrumCmd(a *app) *cobra.Command {
	var freq, amp string
	var explain bool

	cmd := &cobra.Command{
		Use:   "spectrum",
		Short: "Decode a frequency/amplitude pair under a shared encoding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.disambiguator()
			if err != nil {
				return err
			}

			spec := d.ResolveSpectrum(freq, amp)
			view := spectrumView{Freq: spec.Freq, Amplitude: spec.Amplitude}
			if spec.OK() {
				view.Encoding = spec.Encoding
				view.Score = finite(spec.Score)
			}
			if explain {
				if data, ok := encoding.DecodeBase64(freq); ok {
					view.Candidates = candidateViews(d.Candidates(data, codec.PolicyFrequency))
				}
			}

			return writeJSON(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVar(&freq, "freq", "", "base64 frequency axis")
	cmd.Flags().StringVar(&amp, "amp", "", "base64 amplitude array")
	cmd.Flags().BoolVar(&explain, "explain", false, "include every candidate encoding with its score")
	_ = cmd.MarkFlagRequired("freq")

	return cmd
}

func newDecodeSignalCmd(a *app) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "signal <base64>",
		Short: "Decode a standalone array by signal plausibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.disambiguator()
			if err != nil {
				return err
			}

			best := d.DecodeBest(args[0])
			view := signalView{Values: best.Values}
			if best.OK() {
				view.Encoding = best.Encoding
				view.Score = finite(best.Score)
			}
			if explain {
				if data, ok := encoding.DecodeBase64(args[0]); ok {
					view.Candidates = candidateViews(d.Candidates(data, codec.PolicySignal))
				}
			}

			return writeJSON(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "include every candidate encoding with its score")

	return cmd
}

func newDecodeVelocityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "velocity <base64>",
		Short: "Decode a velocity waveform stored as text or packed floats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.flexibleDecoder()
			if err != nil {
				return err
			}

			data, ok := encoding.DecodeBase64(args[0])
			if !ok {
				return errors.New("argument is not base64")
			}

			return writeJSON(cmd.OutOrStdout(), velocityView{
				Kind:   f.Classify(data).String(),
				Ratio:  codec.TextRatio(data),
				Values: f.DecodeBytes(data),
			})
		},
	}
}
