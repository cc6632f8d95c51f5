// Package metrics exports the catalog service's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "catalog"

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	RecommendationsServed *prometheus.CounterVec

	TrackingEnqueued *prometheus.CounterVec
	TrackingDropped  prometheus.Counter
	TrackingFlushed  prometheus.Counter
	TrackingFailed   prometheus.Counter
	TrackingBuffered prometheus.Gauge

	Classifications *prometheus.CounterVec

	OverrideReloads *prometheus.CounterVec
	OverridesLoaded prometheus.Gauge
}

// New registers the collectors on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,

		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),

		RecommendationsServed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_served_total",
			Help:      "Recommendation responses by cache outcome",
		}, []string{"cache"}),

		TrackingEnqueued: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_events_enqueued_total",
			Help:      "Tracking events accepted into the buffer",
		}, []string{"action"}),
		TrackingDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_events_dropped_total",
			Help:      "Tracking events dropped because the buffer was full",
		}),
		TrackingFlushed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_events_flushed_total",
			Help:      "Tracking events written to the database",
		}),
		TrackingFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_events_failed_total",
			Help:      "Tracking events lost to failed batch inserts",
		}),
		TrackingBuffered: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracking_buffer_depth",
			Help:      "Tracking events waiting to be flushed",
		}),

		Classifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Automatic classifications by strategy and label",
		}, []string{"strategy", "label"}),

		OverrideReloads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_override_reloads_total",
			Help:      "Price override file reloads by result",
		}, []string{"result"}),
		OverridesLoaded: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "price_overrides_loaded",
			Help:      "Entries in the active price override table",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) RecommendationServed(cacheHit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	m.RecommendationsServed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TrackingAccepted(action string) {
	if m == nil {
		return
	}
	m.TrackingEnqueued.WithLabelValues(action).Inc()
}

func (m *Metrics) TrackingDrop() {
	if m == nil {
		return
	}
	m.TrackingDropped.Inc()
}

// TrackingFlush records one batch insert of n events.
func (m *Metrics) TrackingFlush(n int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.TrackingFailed.Add(float64(n))
		return
	}
	m.TrackingFlushed.Add(float64(n))
}

func (m *Metrics) TrackingDepth(n int) {
	if m == nil {
		return
	}
	m.TrackingBuffered.Set(float64(n))
}

func (m *Metrics) Classified(strategy, label string) {
	if m == nil {
		return
	}
	m.Classifications.WithLabelValues(strategy, label).Inc()
}

// OverrideReload records a reload of the price override file.
func (m *Metrics) OverrideReload(count int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.OverrideReloads.WithLabelValues("error").Inc()
		return
	}
	m.OverrideReloads.WithLabelValues("ok").Inc()
	m.OverridesLoaded.Set(float64(count))
}
