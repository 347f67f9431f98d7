package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OperationLoad = "load"
	OperationSave = "save"

	StatusOK        = "ok"
	StatusError     = "error"
	StatusCorrupted = "corrupted"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logviewer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "logviewer_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// StoreOperationsTotal counts loads and saves of the persisted log collection.
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logviewer_store_operations_total",
			Help: "Total number of log store operations",
		},
		[]string{"operation", "status"},
	)
	// LogsCreatedTotal counts log entries accepted by the create endpoint.
	LogsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "logviewer_logs_created_total",
			Help: "Total number of created log entries",
		},
	)
	// LogsDeletedTotal counts removed log entries.
	LogsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "logviewer_logs_deleted_total",
			Help: "Total number of log entries deleted one by one",
		},
	)
)

func StoreOperation(operation, status string) {
	StoreOperationsTotal.WithLabelValues(operation, status).Inc()
}

// Middleware records count and latency per matched route. Unmatched requests share one label.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		RequestTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
