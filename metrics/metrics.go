// Package metrics provides Prometheus metrics for the site.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imex_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "imex_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	MessagesReceivedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "imex_messages_received_total",
			Help: "Total number of contact messages stored",
		},
	)

	ApplicationsReceivedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "imex_applications_received_total",
			Help: "Total number of job applications stored",
		},
	)

	// EmailsFailedTotal counts failed sends by kind of email.
	EmailsFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imex_emails_failed_total",
			Help: "Total number of emails that could not be sent",
		},
		[]string{"kind"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "imex_rate_limited_total",
			Help: "Total number of rate-limited form posts",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records an HTTP request metric.
func RecordRequest(method, path string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordMessageReceived() {
	MessagesReceivedTotal.Inc()
}

func RecordApplicationReceived() {
	ApplicationsReceivedTotal.Inc()
}

func RecordEmailFailed(kind string) {
	EmailsFailedTotal.WithLabelValues(kind).Inc()
}

func RecordRateLimited() {
	RateLimitedTotal.Inc()
}
