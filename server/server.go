// Package server exposes the conversion service over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/convertsrv/pdfconvert/logger"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// CORSOrigins lists allowed origins; empty disables CORS handling.
	CORSOrigins []string
	// RateLimitRequests is the number of requests allowed per window per IP
	// (default: 100).
	RateLimitRequests int
	// RateLimitWindow is the rate limiting window (default: 1 minute).
	RateLimitWindow time.Duration
	// RedisClient optionally backs the rate limiter for multi-instance
	// deployments; nil means in-memory counting.
	RedisClient *redis.Client
}

// Server is the HTTP server for the conversion API.
type Server struct {
	handler *Handler
	logger  logger.Logger
	router  *chi.Mux
}

// New creates a Server with the chi router and middleware stack.
func New(handler *Handler, log logger.Logger, cfg *Config) *Server {
	if log == nil {
		log = logger.Noop()
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.RateLimitRequests == 0 {
		cfg.RateLimitRequests = 100
	}
	if cfg.RateLimitWindow == 0 {
		cfg.RateLimitWindow = time.Minute
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(log))
	r.Use(chimiddleware.Recoverer)

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}))
	}

	r.Use(RateLimit(RateLimitConfig{
		RequestLimit:   cfg.RateLimitRequests,
		WindowDuration: cfg.RateLimitWindow,
		RedisClient:    cfg.RedisClient,
	}))

	r.Get("/", handler.HandleRoot)
	r.Get("/health", handler.HandleHealth)
	r.Post("/api/v1/pdf/convert", handler.HandleConvertV1)
	r.Post("/api/v2/pdf/convert", handler.HandleConvertV2)

	return &Server{
		handler: handler,
		logger:  log,
		router:  r,
	}
}

// StartWithShutdown starts the HTTP server and shuts it down gracefully
// when ctx is cancelled.
func (s *Server) StartWithShutdown(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
