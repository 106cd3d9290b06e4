package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type scoringConfig struct {
	threshold float64
	label     string
	calls     []string
}

var errOutOfRange = errors.New("threshold out of range")

func withThreshold(v float64) Option[*scoringConfig] {
	return New(func(c *scoringConfig) error {
		if v <= 0 || v > 1 {
			return errOutOfRange
		}
		c.threshold = v
		c.calls = append(c.calls, "threshold")

		return nil
	})
}

func withLabel(label string) Option[*scoringConfig] {
	return NoError(func(c *scoringConfig) {
		c.label = label
		c.calls = append(c.calls, "label")
	})
}

func TestApply_InOrder(t *testing.T) {
	cfg := &scoringConfig{}

	err := Apply(cfg, withLabel("a"), withThreshold(0.5), withLabel("b"))
	require.NoError(t, err)
	require.Equal(t, 0.5, cfg.threshold)
	require.Equal(t, "b", cfg.label)
	require.Equal(t, []string{"label", "threshold", "label"}, cfg.calls)
}

func TestApply_StopsAtFirstError(t *testing.T) {
	cfg := &scoringConfig{}

	err := Apply(cfg, withLabel("a"), withThreshold(2), withLabel("b"))
	require.ErrorIs(t, err, errOutOfRange)
	require.Equal(t, "a", cfg.label)
	require.Equal(t, []string{"label"}, cfg.calls)
}

func TestApply_SkipsNilOptions(t *testing.T) {
	cfg := &scoringConfig{}

	err := Apply(cfg, nil, withLabel("x"))
	require.NoError(t, err)
	require.Equal(t, "x", cfg.label)
}

func TestApply_NoOptions(t *testing.T) {
	cfg := &scoringConfig{threshold: 0.3}

	require.NoError(t, Apply[*scoringConfig](cfg))
	require.Equal(t, 0.3, cfg.threshold)
}
