package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upload-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tubely",
			Subsystem: "upload_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tubely",
			Subsystem: "upload_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 120},
		},
		[]string{"method", "endpoint"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tubely",
			Subsystem: "upload_api",
			Name:      "uploads_total",
			Help:      "Total file uploads by asset kind and outcome",
		},
		[]string{"kind", "status"},
	)

	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tubely",
			Subsystem: "upload_api",
			Name:      "upload_bytes_total",
			Help:      "Total bytes persisted",
		},
		[]string{"kind"},
	)

	VideoOrientationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tubely",
			Subsystem: "upload_api",
			Name:      "video_orientations_total",
			Help:      "Persisted videos by classified orientation",
		},
		[]string{"orientation"},
	)

	ProbeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tubely",
			Subsystem: "upload_api",
			Name:      "probe_duration_seconds",
			Help:      "Media probe duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 15, 30},
		},
		[]string{"status"},
	)

	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tubely",
			Subsystem: "upload_api",
			Name:      "storage_operations_total",
			Help:      "Total storage backend operations",
		},
		[]string{"provider", "operation", "status"},
	)

	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tubely",
			Subsystem: "upload_api",
			Name:      "storage_duration_seconds",
			Help:      "Storage backend operation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 30, 120},
		},
		[]string{"provider", "operation"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordUpload records an upload outcome
func RecordUpload(kind, status string, bytes int64) {
	UploadsTotal.WithLabelValues(kind, status).Inc()
	if status == "success" {
		UploadBytesTotal.WithLabelValues(kind).Add(float64(bytes))
	}
}

// RecordOrientation counts a classified video
func RecordOrientation(orientation string) {
	VideoOrientationsTotal.WithLabelValues(orientation).Inc()
}

// RecordProbe records one prober invocation
func RecordProbe(status string, durationSec float64) {
	ProbeDuration.WithLabelValues(status).Observe(durationSec)
}

// RecordStorageOperation records a storage backend call
func RecordStorageOperation(provider, operation, status string, durationSec float64) {
	StorageOperationsTotal.WithLabelValues(provider, operation, status).Inc()
	StorageDuration.WithLabelValues(provider, operation).Observe(durationSec)
}
