// Package metrics exports stats engine and participation tracker events as
// Prometheus metrics.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/travelstats/internal/observe"
)

// Observer implements observe.Observer by updating Prometheus collectors.
type Observer struct {
	registry *prometheus.Registry

	computations  prometheus.Counter
	computeTime   prometheus.Histogram
	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
}

// New creates an Observer registered on a fresh registry together with the
// Go runtime and process collectors.
func New() *Observer {
	reg := prometheus.NewRegistry()
	o := &Observer{
		registry: reg,
		computations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "travelstats",
			Name:      "stats_computations_total",
			Help:      "Number of dashboard statistics computations.",
		}),
		computeTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "travelstats",
			Name:      "stats_computation_seconds",
			Help:      "Time spent computing dashboard statistics.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travelstats",
			Name:      "participation_fetches_total",
			Help:      "Participation fetches by outcome (applied, failed, stale).",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "travelstats",
			Name:      "participation_fetch_seconds",
			Help:      "Latency of participation fetches that resolved.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		o.computations,
		o.computeTime,
		o.fetches,
		o.fetchDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return o
}

// Observe implements observe.Observer.
func (o *Observer) Observe(_ context.Context, ev observe.Event) {
	switch ev.Kind {
	case observe.KindStatsComputed:
		o.computations.Inc()
		o.computeTime.Observe(ev.Duration.Seconds())
	case observe.KindFetchApplied:
		o.fetches.WithLabelValues("applied").Inc()
		o.fetchDuration.Observe(ev.Duration.Seconds())
	case observe.KindFetchFailed:
		o.fetches.WithLabelValues("failed").Inc()
		o.fetchDuration.Observe(ev.Duration.Seconds())
	case observe.KindStaleDiscarded:
		o.fetches.WithLabelValues("stale").Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (o *Observer) Registry() *prometheus.Registry {
	return o.registry
}
