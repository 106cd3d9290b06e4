package config

import (
	"os"
	"path/filepath"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/vibra/codec"
	"github.com/arloliu/vibra/service"
	"github.com/arloliu/vibra/timeline"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	require.Equal(t, timeline.DefaultZone, cfg.Zone)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, BackendMemory, cfg.Store.Backend)
	require.Equal(t, codec.DefaultWeights(), cfg.Codec.Weights)
	require.InDelta(t, codec.DefaultTextThreshold, cfg.Codec.TextThreshold, 0)
	require.Equal(t, service.DefaultMaxLimit, cfg.Velocity.MaxLimit)
}

func TestLoad_File(t *testing.T) {
	rawConfig := `---
zone: UTC
log:
  level: debug
store:
  backend: badger
  path: /var/lib/vibra
codec:
  weights:
    ascending: 80
  text_threshold: 0.9
velocity:
  max_limit: 100
`
	path := filepath.Join(t.TempDir(), "vibra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(rawConfig), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	require.Equal(t, "UTC", cfg.Zone)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, BackendBadger, cfg.Store.Backend)
	require.Equal(t, "/var/lib/vibra", cfg.Store.Path)
	require.InDelta(t, 80, cfg.Codec.Weights.Ascending, 0)
	require.InDelta(t, 50, cfg.Codec.Weights.Uniformity, 0)
	require.InDelta(t, 0.9, cfg.Codec.TextThreshold, 0)
	require.Equal(t, 100, cfg.Velocity.MaxLimit)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("VIBRA_ZONE", "Europe/Berlin")
	t.Setenv("VIBRA_VELOCITY_MAX_LIMIT", "42")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	require.Equal(t, "Europe/Berlin", cfg.Zone)
	require.Equal(t, 42, cfg.Velocity.MaxLimit)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg, err := Load(New(), "")
		require.NoError(t, err)

		return *cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown zone", func(c *Config) { c.Zone = "Mars/Olympus" }},
		{"unknown backend", func(c *Config) { c.Store.Backend = "sqlite" }},
		{"badger without path", func(c *Config) { c.Store.Backend = BackendBadger }},
		{"zero text threshold", func(c *Config) { c.Codec.TextThreshold = 0 }},
		{"text threshold above one", func(c *Config) { c.Codec.TextThreshold = 1.5 }},
		{"zero max limit", func(c *Config) { c.Velocity.MaxLimit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_YAML(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	out, err := cfg.YAML()
	require.NoError(t, err)

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	require.Equal(t, *cfg, back)
	require.Contains(t, string(out), "text_threshold: 0.85")
}

func TestConfig_Clock(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	clock, err := cfg.Clock()
	require.NoError(t, err)
	require.Equal(t, timeline.DefaultZone, clock.Location().String())
}
