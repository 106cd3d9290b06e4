package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/arloliu/vibra/codec"
	"github.com/arloliu/vibra/internal/config"
	"github.com/arloliu/vibra/internal/logging"
	"github.com/arloliu/vibra/service"
	"github.com/arloliu/vibra/store"
	"github.com/arloliu/vibra/telemetry"
	"github.com/arloliu/vibra/timeline"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	v           *viper.Viper
	configFile  string
	dumpMetrics bool

	cfg      *config.Config
	clock    timeline.Clock
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *service.Metrics
	closers  []io.Closer
}

// run executes vibractl with args and releases every opened store afterwards.
func run(args []string, stdout, stderr io.Writer) error {
	root, a := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()

	return errors.Join(err, a.teardown(stderr))
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{v: config.New(), registry: prometheus.NewRegistry()}

	root := &cobra.Command{
		Use:           "vibractl",
		Short:         "Decode vibration telemetry and resolve spectrum queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "YAML config file")
	flags.BoolVar(&a.dumpMetrics, "metrics", false, "write collected metrics to stderr on exit")
	flags.String("zone", timeline.DefaultZone, "IANA zone of stored zone-less timestamps")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("store", config.BackendMemory, "store backend (memory, badger)")
	flags.String("store-path", "", "badger database directory")
	flags.String("snapshot", "", "snapshot file loaded into the memory store")

	for key, flag := range map[string]string{
		config.KeyZone:          "zone",
		config.KeyLogLevel:      "log-level",
		config.KeyStoreBackend:  "store",
		config.KeyStorePath:     "store-path",
		config.KeyStoreSnapshot: "snapshot",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newDecodeCmd(a),
		newEncodeCmd(a),
		newImportCmd(a),
		newSpectrumCmd(a),
		newVelocityCmd(a),
		newConfigCmd(a),
	)

	return root, a
}

func (a *app) setup() error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.clock, err = cfg.Clock(); err != nil {
		return err
	}
	if a.logger, err = logging.New(cfg.Log.Level); err != nil {
		return err
	}
	if a.metrics, err = service.NewMetrics(a.registry); err != nil {
		return err
	}

	return nil
}

func (a *app) teardown(stderr io.Writer) error {
	var errList []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errList = append(errList, a.closers[i].Close())
	}
	a.closers = nil

	if a.dumpMetrics {
		errList = append(errList, writeMetrics(stderr, a.registry))
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}

	return errors.Join(errList...)
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}

	return nil
}

func (a *app) disambiguator() (*codec.Disambiguator, error) {
	return codec.NewDisambiguator(codec.WithWeights(a.cfg.Codec.Weights))
}

func (a *app) flexibleDecoder() (*codec.FlexibleDecoder, error) {
	return codec.NewFlexibleDecoder(codec.WithTextThreshold(a.cfg.Codec.TextThreshold))
}

func (a *app) serviceOptions() ([]service.Option, error) {
	d, err := a.disambiguator()
	if err != nil {
		return nil, err
	}
	f, err := a.flexibleDecoder()
	if err != nil {
		return nil, err
	}

	return []service.Option{
		service.WithLogger(a.logger),
		service.WithMetrics(a.metrics),
		service.WithDisambiguator(d),
		service.WithFlexibleDecoder(f),
		service.WithMaxLimit(a.cfg.Velocity.MaxLimit),
	}, nil
}

type spectrumStore interface {
	timeline.Store[telemetry.SpectrumRow]
	store.Writer[telemetry.SpectrumRow]
}

type velocityStore interface {
	service.VelocitySource
	store.Writer[telemetry.VelocityRow]
}

// openStores opens the configured backend. Stores are closed on teardown.
func (a *app) openStores(cmd *cobra.Command) (spectrumStore, velocityStore, error) {
	switch a.cfg.Store.Backend {
	case config.BackendBadger:
		db, err := store.OpenBadgerDB(a.cfg.Store.Path, false, a.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger at %s: %w", a.cfg.Store.Path, err)
		}
		a.closers = append(a.closers, db)

		spectra, err := store.OpenBadger[telemetry.SpectrumRow](db, "spectrum")
		if err != nil {
			return nil, nil, err
		}
		velocities, err := store.OpenBadger[telemetry.VelocityRow](db, "velocity")
		if err != nil {
			return nil, nil, err
		}

		return spectra, velocities, nil
	default:
		spectra := store.NewMemory[telemetry.SpectrumRow]()
		velocities := store.NewMemory[telemetry.VelocityRow]()

		if path := a.cfg.Store.Snapshot; path != "" {
			f, err := os.Open(path)
			if err != nil {
				return nil, nil, fmt.Errorf("open snapshot: %w", err)
			}
			defer f.Close()

			ds, err := store.ReadSnapshot(f)
			if err != nil {
				return nil, nil, fmt.Errorf("read snapshot %s: %w", path, err)
			}
			if err := ds.Load(cmd.Context(), spectra, velocities); err != nil {
				return nil, nil, err
			}
			a.logger.Debug("snapshot loaded", zap.String("path", path), zap.Int("rows", ds.Len()))
		}

		return spectra, velocities, nil
	}
}

func (a *app) spectrumService(cmd *cobra.Command) (*service.Spectrum, error) {
	spectra, _, err := a.openStores(cmd)
	if err != nil {
		return nil, err
	}
	opts, err := a.serviceOptions()
	if err != nil {
		return nil, err
	}

	return service.NewSpectrum(spectra, a.clock, opts...)
}

func (a *app) velocityService(cmd *cobra.Command) (*service.Velocity, error) {
	_, velocities, err := a.openStores(cmd)
	if err != nil {
		return nil, err
	}
	opts, err := a.serviceOptions()
	if err != nil {
		return nil, err
	}

	return service.NewVelocity(velocities, opts...)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
