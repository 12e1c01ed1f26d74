package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lanangwisana/sentracare-be-booking/internal/api/router"
	"github.com/lanangwisana/sentracare-be-booking/internal/booking"
	appconfig "github.com/lanangwisana/sentracare-be-booking/internal/config"
	gql "github.com/lanangwisana/sentracare-be-booking/internal/graphql"
	httpmiddleware "github.com/lanangwisana/sentracare-be-booking/internal/http/middleware"
	"github.com/lanangwisana/sentracare-be-booking/internal/notify"
	"github.com/lanangwisana/sentracare-be-booking/internal/observability/metrics"
	"github.com/lanangwisana/sentracare-be-booking/pkg/logging"
)

func main() {
	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting sentracare booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the record store. Development runs without a database.
	var repo booking.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = booking.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory booking store")
		repo = booking.NewInMemoryRepository()
	}

	bookingMetrics := metrics.NewBookingMetrics(nil)

	// Patient-registration forwarding, synchronous or via the bounded
	// background dispatcher.
	var forwarder booking.Forwarder
	if cfg.PatientServiceURL != "" {
		client := notify.NewClient(cfg.PatientServiceURL, cfg.PatientServiceTimeout, bookingMetrics, logger)
		if cfg.ForwardAsync {
			dispatcher := notify.NewDispatcher(client, cfg.ForwardQueueSize, logger)
			go dispatcher.Start(ctx)
			forwarder = dispatcher
		} else {
			forwarder = client
		}
	} else {
		logger.Warn("PATIENT_SERVICE_URL not set, confirmations will not be forwarded")
	}

	svc := booking.NewService(repo, forwarder, bookingMetrics, logger)

	bookingHandler := booking.NewHandler(svc, func(r *http.Request) *booking.Caller {
		return httpmiddleware.CallerFromContext(r.Context())
	}, logger)

	schema, err := gql.NewSchema(svc, httpmiddleware.CallerFromContext)
	if err != nil {
		logger.Error("failed to build graphql schema", "error", err)
		os.Exit(1)
	}
	graphqlHandler := gql.NewHandler(schema, logger)

	// Setup router
	r := router.New(&router.Config{
		Logger:         logger,
		BookingHandler: bookingHandler,
		GraphQLHandler: graphqlHandler,
		MetricsHandler: promhttp.Handler(),
		Auth: httpmiddleware.AuthConfig{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		},
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Stops the background dispatcher; all forwarded bookings were
	// committed before enqueue.
	cancel()

	logger.Info("server stopped")
}
