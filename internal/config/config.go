// Package config loads vibractl settings from a YAML file, VIBRA_ environment
// variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/vibra/codec"
	"github.com/arloliu/vibra/service"
	"github.com/arloliu/vibra/timeline"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "VIBRA"

// Store backends.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Setting keys.
const (
	KeyZone              = "zone"
	KeyLogLevel          = "log.level"
	KeyStoreBackend      = "store.backend"
	KeyStorePath         = "store.path"
	KeyStoreSnapshot     = "store.snapshot"
	KeyWeightsAscending  = "codec.weights.ascending"
	KeyWeightsUniformity = "codec.weights.uniformity"
	KeyWeightsSpan       = "codec.weights.span"
	KeyTextThreshold     = "codec.text_threshold"
	KeyVelocityMaxLimit  = "velocity.max_limit"
)

type Config struct {
	Zone     string         `mapstructure:"zone" yaml:"zone"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Codec    CodecConfig    `mapstructure:"codec" yaml:"codec"`
	Velocity VelocityConfig `mapstructure:"velocity" yaml:"velocity"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// StoreConfig selects where rows are read from.
//
// The memory backend is filled from Snapshot when set; the badger backend opens
// the database directory at Path.
type StoreConfig struct {
	Backend  string `mapstructure:"backend" yaml:"backend"`
	Path     string `mapstructure:"path" yaml:"path"`
	Snapshot string `mapstructure:"snapshot" yaml:"snapshot"`
}

type CodecConfig struct {
	Weights       codec.Weights `mapstructure:"weights" yaml:"weights"`
	TextThreshold float64       `mapstructure:"text_threshold" yaml:"text_threshold"`
}

type VelocityConfig struct {
	MaxLimit int `mapstructure:"max_limit" yaml:"max_limit"`
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()

	w := codec.DefaultWeights()
	v.SetDefault(KeyZone, timeline.DefaultZone)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyStoreBackend, BackendMemory)
	v.SetDefault(KeyStorePath, "")
	v.SetDefault(KeyStoreSnapshot, "")
	v.SetDefault(KeyWeightsAscending, w.Ascending)
	v.SetDefault(KeyWeightsUniformity, w.Uniformity)
	v.SetDefault(KeyWeightsSpan, w.Span)
	v.SetDefault(KeyTextThreshold, codec.DefaultTextThreshold)
	v.SetDefault(KeyVelocityMaxLimit, service.DefaultMaxLimit)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional file at path into v and decodes the result.
//
// Parameters:
//   - v: Settings source, usually from New with flags bound
//   - path: YAML file to merge; empty skips file loading
//
// Returns:
//   - *Config: Validated settings
//   - error: File, decode or validation error
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	var errList []error

	if _, err := timeline.NewClock(c.Zone); err != nil {
		errList = append(errList, err)
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendBadger:
		if c.Store.Path == "" {
			errList = append(errList, errors.New("store.path is required for the badger backend"))
		}
	default:
		errList = append(errList, fmt.Errorf("unknown store.backend %q", c.Store.Backend))
	}

	weights := []struct {
		key   string
		value float64
	}{
		{KeyWeightsAscending, c.Codec.Weights.Ascending},
		{KeyWeightsUniformity, c.Codec.Weights.Uniformity},
		{KeyWeightsSpan, c.Codec.Weights.Span},
	}
	for _, w := range weights {
		if math.IsNaN(w.value) || math.IsInf(w.value, 0) {
			errList = append(errList, fmt.Errorf("%s must be finite", w.key))
		}
	}

	if !(c.Codec.TextThreshold > 0 && c.Codec.TextThreshold <= 1) {
		errList = append(errList, fmt.Errorf("%s must be in (0, 1]: %v", KeyTextThreshold, c.Codec.TextThreshold))
	}
	if c.Velocity.MaxLimit < 1 {
		errList = append(errList, fmt.Errorf("%s must be positive: %d", KeyVelocityMaxLimit, c.Velocity.MaxLimit))
	}

	return errors.Join(errList...)
}

// Clock returns the storage clock for Zone.
func (c *Config) Clock() (timeline.Clock, error) {
	return timeline.NewClock(c.Zone)
}

// YAML renders the effective settings.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
