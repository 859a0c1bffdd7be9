package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/navikt/zbook/internal/metrics"
)

// Dependencies are the collaborators the router is built from
type Dependencies struct {
	Rooms    RoomServicer
	Bookings BookingServicer
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Location *time.Location
	Ready    ReadinessCheck

	// MaxAnalyticsDays falls back to DefaultMaxAnalyticsDays when unset
	MaxAnalyticsDays int
}

// SetupRoutes configures the HTTP routes for the API
func SetupRoutes(deps Dependencies) *mux.Router {
	r := mux.NewRouter()
	r.Use(deps.Metrics.Middleware)

	// Health check endpoints for Kubernetes
	r.HandleFunc("/health/live", HealthLiveHandler).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", HealthReadyHandler(deps.Ready)).Methods(http.MethodGet)

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	NewRoomHandler(deps.Rooms).Register(r)
	NewBookingHandler(deps.Bookings).Register(r)
	r.Handle("/api/analytics", NewAnalyticsHandler(deps.Rooms, deps.Location, deps.MaxAnalyticsDays)).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return r
}
