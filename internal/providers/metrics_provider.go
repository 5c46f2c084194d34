package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"goodsync/internal/structures"
	"time"
)

const (
	CycleResultOk    = "ok"
	CycleResultFatal = "fatal"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(key string)
	IncCacheMisses(key string)
	IncCyclesTotal(result string)
	ObserveCycleDuration(duration time.Duration)
	ObservePersistenceDuration(duration time.Duration)
	SetEntitiesTotal(kind string, count int)
	IncSkippedTotal(kind string)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	cyclesTotal         *prometheus.CounterVec
	cycleDuration       prometheus.Histogram
	persistenceDuration prometheus.Histogram
	entitiesTotal       *prometheus.GaugeVec
	skippedTotal        *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(key string) {
	m.cacheHits.WithLabelValues(key).Inc()
}

func (m *MetricsProvider) IncCacheMisses(key string) {
	m.cacheMisses.WithLabelValues(key).Inc()
}

func (m *MetricsProvider) IncCyclesTotal(result string) {
	m.cyclesTotal.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) ObserveCycleDuration(duration time.Duration) {
	m.cycleDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetEntitiesTotal(kind string, count int) {
	m.entitiesTotal.WithLabelValues(kind).Set(float64(count))
}

func (m *MetricsProvider) IncSkippedTotal(kind string) {
	m.skippedTotal.WithLabelValues(kind).Inc()
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
			Name: "goodsync_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "goodsync_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "goodsync_cache_hits_total",
			Help: "Total number of cache hits per published key",
		}, []string{"key"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "goodsync_cache_misses_total",
			Help: "Total number of cache misses per published key",
		}, []string{"key"}),

		cyclesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "goodsync_cycles_total",
			Help: "Total number of sync cycles by result",
		}, []string{"result"}),

		cycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "goodsync_cycle_duration_seconds",
			Help:    "Duration of a fetch-translate-merge-persist cycle in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "goodsync_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		entitiesTotal: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "goodsync_entities_total",
			Help: "Number of entities in the persisted collection per kind",
		}, []string{"kind"}),

		skippedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "goodsync_skipped_total",
			Help: "Total number of items skipped because of unknown names",
		}, []string{"kind"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits(_ string)                            {}
func (n *noopMetrics) IncCacheMisses(_ string)                          {}
func (n *noopMetrics) IncCyclesTotal(_ string)                          {}
func (n *noopMetrics) ObserveCycleDuration(_ time.Duration)             {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) SetEntitiesTotal(_ string, _ int)                 {}
func (n *noopMetrics) IncSkippedTotal(_ string)                         {}
