package census

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the request pipeline.
// It is safe for concurrent use; a nil collector disables collection.
type MetricsCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	retriesTotal  *prometheus.CounterVec
	chunkedTotal  *prometheus.CounterVec
	typeCacheHits *prometheus.CounterVec
	typeCacheMiss *prometheus.CounterVec
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied
// registerer; useful for tests and multi-client processes.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "census_api_requests_total",
				Help: "Total number of data API requests made",
			},
			[]string{"dataset", "status_code"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "census_api_request_duration_seconds",
				Help:    "Duration of data API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"dataset"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "census_api_retries_total",
				Help: "Total number of transient-error retries",
			},
			[]string{"dataset"},
		),
		chunkedTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "census_api_chunked_fetches_total",
				Help: "Total number of fetches split across multiple requests",
			},
			[]string{"dataset"},
		),
		typeCacheHits: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "census_field_type_cache_hits_total",
				Help: "Field type lookups served from the per-client cache",
			},
			[]string{"dataset"},
		),
		typeCacheMiss: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "census_field_type_cache_misses_total",
				Help: "Field type lookups requiring a metadata request",
			},
			[]string{"dataset"},
		),
	}
}

// RecordRequest records one completed data API request.
func (m *MetricsCollector) RecordRequest(dataset string, statusCode int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(dataset, strconv.Itoa(statusCode)).Inc()
	m.requestDuration.WithLabelValues(dataset).Observe(duration.Seconds())
}

// RecordRetry records one transient-error retry.
func (m *MetricsCollector) RecordRetry(dataset string) {
	m.retriesTotal.WithLabelValues(dataset).Inc()
}

// RecordChunkedFetch records a fetch that needed more than one request.
func (m *MetricsCollector) RecordChunkedFetch(dataset string) {
	m.chunkedTotal.WithLabelValues(dataset).Inc()
}

// RecordTypeCacheHit records a field type lookup served from cache.
func (m *MetricsCollector) RecordTypeCacheHit(dataset string) {
	m.typeCacheHits.WithLabelValues(dataset).Inc()
}

// RecordTypeCacheMiss records a field type lookup that missed the cache.
func (m *MetricsCollector) RecordTypeCacheMiss(dataset string) {
	m.typeCacheMiss.WithLabelValues(dataset).Inc()
}
