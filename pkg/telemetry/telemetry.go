// Package telemetry exposes request-level Prometheus metrics. Scrape them
// from /metrics; engine-level cache metrics live in pkg/engine.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"answerdb/pkg/logger"
)

var (
	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "answerdb_http_request_duration_seconds",
		Help:    "HTTP request latency by method, path and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "answerdb_http_requests_in_flight",
		Help: "HTTP requests currently being served.",
	})
)

// slowThreshold: requests above this are logged individually.
const slowThreshold = 200 * time.Millisecond

func init() {
	prometheus.MustRegister(requestDuration, requestsInFlight)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request latency and flags slow requests.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestsInFlight.Inc()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		requestsInFlight.Dec()
		elapsed := time.Since(start)
		requestDuration.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Observe(elapsed.Seconds())
		if elapsed > slowThreshold {
			logger.Warn("slow_request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "elapsed_ms", elapsed.Milliseconds())
		}
	})
}
