package server

import (
	"time"

	"github.com/huangsam/locscore/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	reloadResultOK       = "ok"
	reloadResultDegraded = "degraded"
	reloadResultError    = "error"
)

// Metrics holds the reload and dataset instruments exposed on /metrics.
type Metrics struct {
	reloads             *prometheus.CounterVec
	reloadDuration      prometheus.Histogram
	locations           prometheus.Gauge
	degraded            prometheus.Gauge
	generationTimestamp prometheus.Gauge
}

// NewMetrics creates the instruments and registers them with registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "locscore_reloads_total",
			Help: "Dataset reloads by result.",
		}, []string{"result"}),
		reloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "locscore_reload_duration_seconds",
			Help:    "Time spent fetching and scoring one dataset generation.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		locations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "locscore_dataset_locations",
			Help: "Locations in the current dataset generation.",
		}),
		degraded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "locscore_dataset_degraded",
			Help: "1 when the current generation was built from sample data after a failed fetch.",
		}),
		generationTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "locscore_dataset_generation_timestamp_seconds",
			Help: "Build time of the current dataset generation.",
		}),
	}

	registerer.MustRegister(m.reloads, m.reloadDuration, m.locations, m.degraded, m.generationTimestamp)
	return m
}

// newRegistry returns a registry with the process and Go runtime collectors.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ObserveReload records one reload attempt. Dataset gauges are updated only
// when ds is the generation now being served.
func (m *Metrics) ObserveReload(ds *core.Dataset, current bool, err error, elapsed time.Duration) {
	m.reloadDuration.Observe(elapsed.Seconds())
	switch {
	case err != nil:
		m.reloads.WithLabelValues(reloadResultError).Inc()
		return
	case ds.Degraded:
		m.reloads.WithLabelValues(reloadResultDegraded).Inc()
	default:
		m.reloads.WithLabelValues(reloadResultOK).Inc()
	}

	if !current {
		return
	}
	m.locations.Set(float64(len(ds.Index.Locations())))
	if ds.Degraded {
		m.degraded.Set(1)
	} else {
		m.degraded.Set(0)
	}
	m.generationTimestamp.Set(float64(ds.BuiltAt.Unix()))
}
