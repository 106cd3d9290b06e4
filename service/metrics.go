package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Query modes used as the mode label of resolver metrics.
const (
	ModeTimestamps       = "timestamps"
	ModeAt               = "at"
	ModeLatestPerChannel = "latest_per_channel"
	ModeRank             = "rank"
	ModeCommon           = "common"
	ModeVelocityLatest   = "velocity_latest"
)

// undecodableLabel is the encoding label of a spectrum without a plausible encoding.
const undecodableLabel = "none"

// Metrics counts decode outcomes and resolver queries.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	spectrumDecodes *prometheus.CounterVec
	velocityDecodes *prometheus.CounterVec
	queries         *prometheus.CounterVec
	emptyResults    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
//
// Registering a second Metrics on the same registry reuses the collectors that
// are already registered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		spectrumDecodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vibra",
			Subsystem: "codec",
			Name:      "spectrum_decodes_total",
			Help:      "Spectra decoded, by selected element encoding.",
		}, []string{"encoding"}),
		velocityDecodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vibra",
			Subsystem: "codec",
			Name:      "velocity_decodes_total",
			Help:      "Velocity waveforms decoded, by blob kind.",
		}, []string{"kind"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vibra",
			Subsystem: "resolver",
			Name:      "queries_total",
			Help:      "Timestamp resolution queries, by mode.",
		}, []string{"mode"}),
		emptyResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vibra",
			Subsystem: "resolver",
			Name:      "empty_results_total",
			Help:      "Queries that resolved to no rows, by mode.",
		}, []string{"mode"}),
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []**prometheus.CounterVec{&m.spectrumDecodes, &m.velocityDecodes, &m.queries, &m.emptyResults} {
		if err := reg.Register(*c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return nil, err
			}
			existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, err
			}
			*c = existing
		}
	}

	return m, nil
}

func (m *Metrics) spectrumDecoded(encoding string) {
	if m != nil {
		m.spectrumDecodes.WithLabelValues(encoding).Inc()
	}
}

func (m *Metrics) velocityDecoded(kind string) {
	if m != nil {
		m.velocityDecodes.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) query(mode string, results int) {
	if m == nil {
		return
	}

	m.queries.WithLabelValues(mode).Inc()
	if results == 0 {
		m.emptyResults.WithLabelValues(mode).Inc()
	}
}
