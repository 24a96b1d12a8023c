// Package api provides the HTTP REST API server for finlens.
//
// It exposes endpoints for company analysis, quotes, provider status,
// and WebSocket streaming of analysis progress.
package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/finlens/internal/config"
	"github.com/seenimoa/finlens/internal/engine"
	"github.com/seenimoa/finlens/internal/provider"
)

// Client rate limits (sliding window). The analyze endpoint triggers
// the full fetch/analyze pipeline and carries its own stricter budget.
const (
	rateWindow       = 15 * time.Minute
	generalRateLimit = 100
	analyzeRateLimit = 10
)

// Server is the HTTP API server.
type Server struct {
	router         chi.Router
	cfg            *config.Config
	engine         *engine.Engine
	registry       *provider.Registry
	wsHub          *WSHub
	limiter        *ClientLimiter
	analyzeLimiter *ClientLimiter
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, eng *engine.Engine, registry *provider.Registry) *Server {
	srv := &Server{
		cfg:            cfg,
		engine:         eng,
		registry:       registry,
		wsHub:          NewWSHub(),
		limiter:        NewClientLimiter(generalRateLimit, rateWindow),
		analyzeLimiter: NewClientLimiter(analyzeRateLimit, rateWindow),
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(180 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.rateLimit(s.limiter))

		r.Get("/health", s.handleHealth)
		r.Get("/quote/{ticker}", s.handleQuote)
		r.Get("/providers", s.handleProviders)
		r.Get("/ws", s.handleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit(s.analyzeLimiter))
			r.Post("/analyze", s.handleAnalyze)
		})
	})

	return r
}
