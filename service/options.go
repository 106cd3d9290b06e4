package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/vibra/codec"
	"github.com/arloliu/vibra/internal/options"
)

// DefaultMaxLimit is the largest number of velocity rows returned by one query.
const DefaultMaxLimit = 500

// config holds the settings shared by the Spectrum and Velocity services.
type config struct {
	logger        *zap.Logger
	metrics       *Metrics
	disambiguator *codec.Disambiguator
	flexible      *codec.FlexibleDecoder
	maxLimit      int
}

// Option configures a Spectrum or Velocity service.
type Option = options.Option[*config]

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithMetrics enables decode and query counters.
func WithMetrics(m *Metrics) Option {
	return options.NoError(func(c *config) {
		c.metrics = m
	})
}

// WithDisambiguator replaces the default spectrum disambiguator.
func WithDisambiguator(d *codec.Disambiguator) Option {
	return options.NoError(func(c *config) {
		if d != nil {
			c.disambiguator = d
		}
	})
}

// WithFlexibleDecoder replaces the default velocity decoder.
func WithFlexibleDecoder(f *codec.FlexibleDecoder) Option {
	return options.NoError(func(c *config) {
		if f != nil {
			c.flexible = f
		}
	})
}

// WithMaxLimit sets the upper bound applied to velocity query limits.
func WithMaxLimit(n int) Option {
	return options.New(func(c *config) error {
		if n < 1 {
			return fmt.Errorf("max limit must be positive: %d", n)
		}
		c.maxLimit = n

		return nil
	})
}

func newConfig(opts []Option) (*config, error) {
	c := &config{
		logger:   zap.NewNop(),
		maxLimit: DefaultMaxLimit,
	}
	if err := options.Apply(c, opts...); err != nil {
		return nil, err
	}

	if c.disambiguator == nil {
		d, err := codec.NewDisambiguator()
		if err != nil {
			return nil, err
		}
		c.disambiguator = d
	}
	if c.flexible == nil {
		f, err := codec.NewFlexibleDecoder()
		if err != nil {
			return nil, err
		}
		c.flexible = f
	}

	return c, nil
}
