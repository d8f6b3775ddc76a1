package prometheus

import (
	"time"

	"catalog-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Catalog entity operation metrics
	ComponentOperationsCounter prometheus.CounterVec
	VariantOperationsCounter   prometheus.CounterVec
	SupplierOperationsCounter  prometheus.CounterVec
	PictureOperationsCounter   prometheus.CounterVec

	// Keyword search metrics
	KeywordSearchCounter prometheus.Counter

	// Analytics cache metrics
	CacheHitsCounter   prometheus.CounterVec
	CacheMissesCounter prometheus.CounterVec

	// Shopify API metrics
	ShopifyRequestDuration prometheus.HistogramVec
	ShopifyErrorsCounter   prometheus.Counter
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	// Use metric prefix from configuration
	prefix := cfg.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Component metrics
	ComponentOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_component_operations_total",
			Help: "Total number of component operations",
		},
		[]string{"operation"},
	)

	// Variant metrics
	VariantOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_variant_operations_total",
			Help: "Total number of variant operations",
		},
		[]string{"operation"},
	)

	// Supplier metrics
	SupplierOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_supplier_operations_total",
			Help: "Total number of supplier operations",
		},
		[]string{"operation"},
	)

	// Picture metrics
	PictureOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_picture_operations_total",
			Help: "Total number of picture operations",
		},
		[]string{"operation"},
	)

	// Keyword search metrics
	KeywordSearchCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_keyword_searches_total",
			Help: "Total number of keyword autocomplete searches",
		},
	)

	// Analytics cache metrics
	CacheHitsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_analytics_cache_hits_total",
			Help: "Total number of analytics cache hits",
		},
		[]string{"metric"},
	)

	CacheMissesCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_analytics_cache_misses_total",
			Help: "Total number of analytics cache misses",
		},
		[]string{"metric"},
	)

	// Shopify API metrics
	ShopifyRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_shopify_request_duration_seconds",
			Help:    "Duration of Shopify Admin API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	ShopifyErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_shopify_errors_total",
			Help: "Total number of failed Shopify Admin API requests",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordComponentOperation increments the counter for component operations
func RecordComponentOperation(operation string) {
	ComponentOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordVariantOperation increments the counter for variant operations
func RecordVariantOperation(operation string) {
	VariantOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordSupplierOperation increments the counter for supplier operations
func RecordSupplierOperation(operation string) {
	SupplierOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordPictureOperation increments the counter for picture operations
func RecordPictureOperation(operation string) {
	PictureOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordCacheHit increments the cache hit counter for a metric
func RecordCacheHit(metric string) {
	CacheHitsCounter.WithLabelValues(metric).Inc()
}

// RecordCacheMiss increments the cache miss counter for a metric
func RecordCacheMiss(metric string) {
	CacheMissesCounter.WithLabelValues(metric).Inc()
}
