package metrics

import (
    "net/http"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
    requests = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "docconvert",
            Name:      "requests_total",
            Help:      "Total API requests by operation and result",
        },
        []string{"operation", "result"},
    )

    duration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "docconvert",
            Name:      "operation_duration_seconds",
            Help:      "Duration of extraction/conversion operations",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"operation"},
    )

    artifactBytes = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "docconvert",
            Name:      "artifact_bytes_total",
            Help:      "Total bytes of produced output artifacts by operation",
        },
        []string{"operation"},
    )
)

// Init registers collectors.
func Init() {
    prometheus.MustRegister(requests, duration, artifactBytes)
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

// Observe records one finished operation.
func Observe(operation, result string, dur time.Duration) {
    requests.WithLabelValues(operation, result).Inc()
    duration.WithLabelValues(operation).Observe(dur.Seconds())
}

// AddArtifactBytes accounts the size of a produced artifact.
func AddArtifactBytes(operation string, n int64) {
    if n > 0 {
        artifactBytes.WithLabelValues(operation).Add(float64(n))
    }
}
