package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/navikt/zbook/internal/api"
	"github.com/navikt/zbook/internal/config"
	"github.com/navikt/zbook/internal/metrics"
	"github.com/navikt/zbook/internal/repository"
	"github.com/navikt/zbook/internal/service"
	"github.com/navikt/zbook/internal/status"
	"github.com/navikt/zbook/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the repository using the factory
	repo, err := repository.NewRepository(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}
	log.Printf("Using %s storage backend", cfg.Storage.Backend)

	// Redis and SQL stores hold connections that must be closed on exit
	if closer, ok := repo.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Printf("Error closing repository: %v", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Initialize the service layer
	services := service.New(repo, service.Options{
		Clock:            status.SystemClock{},
		Metrics:          m,
		DefaultWorkHours: cfg.Schedule.DefaultWorkHours,
	})

	// Push the status board to SSE clients on every change and on a ticker
	broadcaster := web.NewStatusBroadcaster(services.Rooms, cfg.Schedule.StatusPushInterval)
	services.RegisterUpdateCallback(broadcaster.NotifyRoomUpdate)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go broadcaster.Run(ctx)

	router := api.SetupRoutes(api.Dependencies{
		Rooms:            services.Rooms,
		Bookings:         services.Bookings,
		Metrics:          m,
		Gatherer:         registry,
		Location:         cfg.Schedule.Location(),
		MaxAnalyticsDays: cfg.Schedule.AnalyticsMaxDays,
		Ready: func(ctx context.Context) error {
			_, err := repo.ListRooms(ctx)
			return err
		},
	})
	router.Handle(web.EventsPath, broadcaster).Methods(http.MethodGet)

	// Configure the HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      web.HTTPProtocolMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disable write timeout for SSE connections
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting zbook server on port %s", cfg.Port)
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatalf("Error starting server: %v", err)

	case <-shutdown:
		log.Println("Shutting down server...")

		// First stop the ticker and close SSE connections
		stop()
		broadcaster.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			log.Fatalf("Error shutting down server: %v", err)
		}

		log.Println("Server gracefully stopped")
	}
}
