// Package metrics exports ingestion and HTTP counters for Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	samplesAccepted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nui_scalar_samples_accepted_total",
			Help: "Scalar samples stored after decimation.",
		},
		[]string{"key"},
	)

	samplesDecimated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nui_scalar_samples_decimated_total",
			Help: "Scalar samples dropped by the per-series rate cap.",
		},
		[]string{"key"},
	)

	fieldMissing = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nui_scalar_field_missing_total",
			Help: "Matching messages that lacked the configured field.",
		},
		[]string{"key"},
	)

	positionAccepted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nui_position_samples_total",
			Help: "Position samples appended, per source.",
		},
		[]string{"source"},
	)

	positionStale = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nui_position_stale_total",
			Help: "Position messages dropped for running backwards in time.",
		},
		[]string{"source"},
	)

	positionMalformed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nui_position_malformed_total",
			Help: "Position messages without usable x/y fields.",
		},
		[]string{"source"},
	)

	envelopesMalformed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nui_envelopes_malformed_total",
			Help: "Transport envelopes that failed to decode.",
		},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nui_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nui_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(samplesAccepted)
	prometheus.MustRegister(samplesDecimated)
	prometheus.MustRegister(fieldMissing)
	prometheus.MustRegister(positionAccepted)
	prometheus.MustRegister(positionStale)
	prometheus.MustRegister(positionMalformed)
	prometheus.MustRegister(envelopesMalformed)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
}

func SampleAccepted(key string)    { samplesAccepted.WithLabelValues(key).Inc() }
func SampleDecimated(key string)   { samplesDecimated.WithLabelValues(key).Inc() }
func FieldMissing(key string)      { fieldMissing.WithLabelValues(key).Inc() }
func PositionAccepted(src string)  { positionAccepted.WithLabelValues(src).Inc() }
func PositionStale(src string)     { positionStale.WithLabelValues(src).Inc() }
func PositionMalformed(src string) { positionMalformed.WithLabelValues(src).Inc() }
func EnvelopeMalformed()           { envelopesMalformed.Inc() }

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(r.URL.Path, r.Method).Observe(duration)
	})
}
