package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lanangwisana/sentracare-be-booking/internal/booking"
	httpmiddleware "github.com/lanangwisana/sentracare-be-booking/internal/http/middleware"
	"github.com/lanangwisana/sentracare-be-booking/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	BookingHandler     *booking.Handler
	GraphQLHandler     http.Handler
	MetricsHandler     http.Handler
	Auth               httpmiddleware.AuthConfig
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Booking REST surface. Mutations require a verified caller; listing
	// degrades to an empty result for anonymous requests.
	r.Route("/booking", func(br chi.Router) {
		br.With(httpmiddleware.RequireAuth(cfg.Auth)).Post("/", cfg.BookingHandler.Create)
		br.With(httpmiddleware.RequireAuth(cfg.Auth)).Put("/{id}/status", cfg.BookingHandler.UpdateStatus)
		br.With(httpmiddleware.OptionalAuth(cfg.Auth)).Get("/", cfg.BookingHandler.List)
	})

	// GraphQL surface shares the booking service semantics.
	if cfg.GraphQLHandler != nil {
		r.With(httpmiddleware.OptionalAuth(cfg.Auth)).Post("/graphql", cfg.GraphQLHandler.ServeHTTP)
	}

	return r
}
