package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TokenVerifications counts session token checks by outcome (ok, expired, invalid).
	TokenVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_token_verifications_total",
			Help: "Total number of session token verifications by outcome",
		},
		[]string{"outcome"},
	)

	// Logins counts login attempts by outcome (ok, failed).
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// UsersTotal is the current number of user rows, refreshed periodically.
	UsersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "users_total",
			Help: "Number of user rows",
		},
	)

	// IncomesTotal is the current number of income rows, refreshed periodically.
	IncomesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "incomes_total",
			Help: "Number of income rows",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, TokenVerifications, Logins, UsersTotal, IncomesTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /incomes/123 -> /incomes/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordTokenVerification counts one token check. outcome is "ok", "expired", or "invalid".
func RecordTokenVerification(outcome string) {
	TokenVerifications.WithLabelValues(outcome).Inc()
}

// RecordLogin counts one login attempt. outcome is "ok" or "failed".
func RecordLogin(outcome string) {
	Logins.WithLabelValues(outcome).Inc()
}
