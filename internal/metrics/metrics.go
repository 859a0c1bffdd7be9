// Package metrics holds the Prometheus collectors for zbook
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/navikt/zbook/internal/booking"
)

// Validation outcomes
const (
	OutcomeAccepted     = "accepted"
	OutcomeInvalidRange = "invalid_range"
	OutcomeInactiveRoom = "inactive_room"
	OutcomeConflict     = "conflict"
	OutcomeError        = "error"
)

// Metrics groups the collectors used by the services and the HTTP API.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	validations         *prometheus.CounterVec
	commits             *prometheus.CounterVec
	aggregationDuration prometheus.Histogram
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zbook",
			Name:      "booking_validations_total",
			Help:      "Booking validations by outcome.",
		}, []string{"outcome"}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zbook",
			Name:      "booking_commits_total",
			Help:      "Bookings written to the store by operation.",
		}, []string{"operation"}),
		aggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "zbook",
			Name:      "analytics_aggregation_duration_seconds",
			Help:      "Time spent loading and aggregating analytics.",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zbook",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zbook",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	reg.MustRegister(m.validations, m.commits, m.aggregationDuration, m.httpRequests, m.httpDuration)
	return m
}

// Outcome maps a validation error to its metric label
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeAccepted
	case errors.Is(err, booking.ErrInvalidRange):
		return OutcomeInvalidRange
	case errors.Is(err, booking.ErrInactiveRoom):
		return OutcomeInactiveRoom
	case errors.Is(err, booking.ErrConflict):
		return OutcomeConflict
	default:
		return OutcomeError
	}
}

// ObserveValidation counts one validation result
func (m *Metrics) ObserveValidation(err error) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(Outcome(err)).Inc()
}

// ObserveCommit counts one booking write ("create", "update" or "delete")
func (m *Metrics) ObserveCommit(operation string) {
	if m == nil {
		return
	}
	m.commits.WithLabelValues(operation).Inc()
}

// ObserveAggregation records the time since start
func (m *Metrics) ObserveAggregation(start time.Time) {
	if m == nil {
		return
	}
	m.aggregationDuration.Observe(time.Since(start).Seconds())
}

// Middleware records request counts and latency per mux route template
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming handlers working behind the middleware
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
