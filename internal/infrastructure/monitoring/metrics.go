// Package monitoring provides Prometheus metrics collection
package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsCollector handles Prometheus metrics collection
type MetricsCollector struct {
	logger *zap.Logger

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Business metrics
	usersRegisteredTotal prometheus.Counter
	foodsLoggedTotal     *prometheus.CounterVec
	barcodeScansTotal    *prometheus.CounterVec
	nutritionLookupTotal *prometheus.CounterVec
	aiRequestsTotal      *prometheus.CounterVec
	aiRequestDuration    *prometheus.HistogramVec

	// System metrics
	dbConnectionsActive prometheus.Gauge
	dbConnectionsIdle   prometheus.Gauge
	cacheOperations     *prometheus.CounterVec
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	return &MetricsCollector{
		logger: logger,

		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),

		usersRegisteredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "users_registered_total",
				Help: "Total number of users registered",
			},
		),
		foodsLoggedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foods_logged_total",
				Help: "Total number of food log entries created",
			},
			[]string{"meal_type"},
		),
		barcodeScansTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barcode_scans_total",
				Help: "Total number of barcode photo scans",
			},
			[]string{"status"},
		),
		nutritionLookupTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nutrition_lookups_total",
				Help: "Total number of external nutrition database lookups",
			},
			[]string{"source", "status"},
		),
		aiRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ai_requests_total",
				Help: "Total number of AI requests",
			},
			[]string{"provider", "model", "status"},
		),
		aiRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ai_request_duration_seconds",
				Help:    "AI request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"provider", "model"},
		),

		dbConnectionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_active",
				Help: "Number of active database connections",
			},
		),
		dbConnectionsIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		cacheOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_operations_total",
				Help: "Total number of cache operations",
			},
			[]string{"operation", "status"},
		),
	}
}

// HTTPMiddleware creates a Gin middleware for HTTP metrics collection
func (m *MetricsCollector) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())

		m.httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusCode,
		).Inc()

		m.httpRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusCode,
		).Observe(duration)
	}
}

// Handler returns the Prometheus metrics endpoint handler
func (m *MetricsCollector) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// UserRegistered records a new user registration
func (m *MetricsCollector) UserRegistered() {
	m.usersRegisteredTotal.Inc()
}

// FoodLogged records a food log entry
func (m *MetricsCollector) FoodLogged(mealType string) {
	m.foodsLoggedTotal.WithLabelValues(mealType).Inc()
}

// BarcodeScan records a barcode photo scan attempt
func (m *MetricsCollector) BarcodeScan(status string) {
	m.barcodeScansTotal.WithLabelValues(status).Inc()
}

// NutritionLookup records an external nutrition database lookup
func (m *MetricsCollector) NutritionLookup(source, status string) {
	m.nutritionLookupTotal.WithLabelValues(source, status).Inc()
}

// AIRequest records an AI provider call
func (m *MetricsCollector) AIRequest(provider, model, status string, duration time.Duration) {
	m.aiRequestsTotal.WithLabelValues(provider, model, status).Inc()
	m.aiRequestDuration.WithLabelValues(provider, model).Observe(duration.Seconds())
}

// UpdateDBConnections records database pool stats
func (m *MetricsCollector) UpdateDBConnections(active, idle int) {
	m.dbConnectionsActive.Set(float64(active))
	m.dbConnectionsIdle.Set(float64(idle))
}

// CacheOperation records a cache operation outcome
func (m *MetricsCollector) CacheOperation(operation, status string) {
	m.cacheOperations.WithLabelValues(operation, status).Inc()
}
