package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics covers the ingestion pipeline end to end: bundles in, entries
// dispatched, records written out, failures published.
type Metrics struct {
	registry *prometheus.Registry

	BundlesReceived prometheus.Counter
	BundlesRejected prometheus.Counter

	EntriesDispatched *prometheus.CounterVec
	EntryFailures     *prometheus.CounterVec

	RecordsSynced   *prometheus.CounterVec
	ReconcileErrors *prometheus.CounterVec

	PipelineDuration prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		BundlesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fhirsync",
			Subsystem: "bundles",
			Name:      "received_total",
			Help:      "Total number of bundles received for ingestion",
		}),

		BundlesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fhirsync",
			Subsystem: "bundles",
			Name:      "rejected_total",
			Help:      "Total number of bundles rejected before dispatch",
		}),

		EntriesDispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fhirsync",
				Subsystem: "entries",
				Name:      "dispatched_total",
				Help:      "Total number of bundle entries routed to a sync target",
			},
			[]string{"type"},
		),

		EntryFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fhirsync",
				Subsystem: "entries",
				Name:      "failed_total",
				Help:      "Total number of bundle entries that could not be mapped",
			},
			[]string{"type"},
		),

		RecordsSynced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fhirsync",
				Subsystem: "records",
				Name:      "synced_total",
				Help:      "Total number of records written to registries",
			},
			[]string{"type", "outcome"},
		),

		ReconcileErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fhirsync",
				Subsystem: "records",
				Name:      "reconcile_errors_total",
				Help:      "Total number of per-type reconciliation failures",
			},
			[]string{"type"},
		),

		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fhirsync",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "End to end bundle processing duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.BundlesReceived,
		m.BundlesRejected,
		m.EntriesDispatched,
		m.EntryFailures,
		m.RecordsSynced,
		m.ReconcileErrors,
		m.PipelineDuration,
	)

	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
