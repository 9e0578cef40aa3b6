package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat service metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swampy",
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "swampy",
			Subsystem: "chat",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Streamed token counter
	StreamTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swampy",
			Subsystem: "chat",
			Name:      "stream_tokens_total",
			Help:      "Total tokens written to chat streams",
		},
		[]string{"mode"},
	)

	// Generation duration histogram
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "swampy",
			Subsystem: "chat",
			Name:      "generation_duration_seconds",
			Help:      "Model generation duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"grounded"},
	)

	// Deployment counters
	DeploymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "swampy",
			Subsystem: "chat",
			Name:      "deployments_total",
			Help:      "Total file deployments",
		},
		[]string{"kind", "status"},
	)

	// Retention sweep counter
	PrunedFilesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "swampy",
			Subsystem: "chat",
			Name:      "pruned_files_total",
			Help:      "Total deployed files removed by the retention sweep",
		},
	)

	// DB query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "swampy",
			Subsystem: "chat",
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"query_type"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordStreamToken counts one token written to a client stream
func RecordStreamToken(mode string) {
	StreamTokensTotal.WithLabelValues(mode).Inc()
}

// RecordGeneration records a completed model generation
func RecordGeneration(grounded bool, durationSec float64) {
	label := "false"
	if grounded {
		label = "true"
	}
	GenerationDuration.WithLabelValues(label).Observe(durationSec)
}

// RecordDeployment records a file deployment attempt
func RecordDeployment(kind, status string) {
	DeploymentsTotal.WithLabelValues(kind, status).Inc()
}

// RecordPrunedFiles counts files removed by a retention sweep
func RecordPrunedFiles(count int) {
	PrunedFilesTotal.Add(float64(count))
}

// RecordDBQuery records a database query
func RecordDBQuery(queryType string, durationSec float64) {
	DBQueryDuration.WithLabelValues(queryType).Observe(durationSec)
}
