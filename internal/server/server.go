// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"github.com/cjblain10/tx-sentiment-landscape/internal/config"
	"github.com/cjblain10/tx-sentiment-landscape/internal/logger"
	"github.com/cjblain10/tx-sentiment-landscape/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server. The NATS connection may be nil,
// which disables the live websocket feed.
func NewServer(
	cfg config.ServerConfig,
	natsConn *nats.Conn,
	eventsSubject string,
	pulseService handlers.PulseService,
	log *logger.Logger,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CorsOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	pulseHandler := handlers.NewPulseHandler(pulseService)

	// Routes
	router.Route("/api", func(r chi.Router) {
		r.Get("/health", pulseHandler.GetHealth)

		r.Route("/sentiment", func(r chi.Router) {
			r.Get("/today", pulseHandler.GetToday)
			r.Get("/history", pulseHandler.GetHistory)
		})
	})

	// WebSocket endpoint for live snapshot updates
	if natsConn != nil {
		router.Get("/ws/pulse", handlers.PulseFeedHandler(natsConn, eventsSubject, pulseService, log))
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
