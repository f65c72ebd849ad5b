package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"nsxd/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncPushes(reason string)
	IncFinishes(cause string)
	ObserveProcessingDuration(duration time.Duration)
	IncPresenceMessages(kind string)
	IncStoreChanges(kind string)
}

type MetricsProvider struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	pushesTotal        *prometheus.CounterVec
	finishesTotal      *prometheus.CounterVec
	processingDuration prometheus.Histogram
	presenceMessages   *prometheus.CounterVec
	storeChanges       *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncPushes(reason string) {
	m.pushesTotal.WithLabelValues(reason).Inc()
}

func (m *MetricsProvider) IncFinishes(cause string) {
	m.finishesTotal.WithLabelValues(cause).Inc()
}

func (m *MetricsProvider) ObserveProcessingDuration(duration time.Duration) {
	m.processingDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncPresenceMessages(kind string) {
	m.presenceMessages.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) IncStoreChanges(kind string) {
	m.storeChanges.WithLabelValues(kind).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nsxd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nsxd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nsxd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nsxd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		pushesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nsxd_pushes_total",
			Help: "Total number of processed push notifications by reason",
		}, []string{"reason"}),

		finishesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nsxd_finishes_total",
			Help: "Total number of lifecycle completions by cause",
		}, []string{"cause"}),

		processingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "nsxd_processing_duration_seconds",
			Help:    "Time from push receipt to completion callback",
			Buckets: []float64{.5, 1, 2.5, 5, 7.5, 10, 15, 20, 30},
		}),

		presenceMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nsxd_presence_messages_total",
			Help: "Total number of presence messages received by kind",
		}, []string{"kind"}),

		storeChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nsxd_store_changes_total",
			Help: "Total number of payment store change notifications by kind",
		}, []string{"kind"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncPushes(_ string)                               {}
func (n *noopMetrics) IncFinishes(_ string)                             {}
func (n *noopMetrics) ObserveProcessingDuration(_ time.Duration)        {}
func (n *noopMetrics) IncPresenceMessages(_ string)                     {}
func (n *noopMetrics) IncStoreChanges(_ string)                         {}
