package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/terra-clan/prep-tracker/internal/config"
	"github.com/terra-clan/prep-tracker/internal/health"
	"github.com/terra-clan/prep-tracker/internal/ratelimit"
	"github.com/terra-clan/prep-tracker/internal/tracker"
)

// Option configures optional server behaviour
type Option func(*Server)

// WithRateLimit guards /api with limiter. Loopback clients bypass the limit
// when skipLoopback is set.
func WithRateLimit(limiter ratelimit.Limiter, window time.Duration, skipLoopback bool) Option {
	return func(s *Server) {
		s.rateLimit = NewRateLimitMiddleware(limiter, window, skipLoopback)
	}
}

// WithCORSOrigins sets the browser origins allowed to call the API
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// Server represents the HTTP API server
type Server struct {
	config    config.ServerConfig
	router    *chi.Mux
	tracker   tracker.Service
	health    *health.Registry
	rateLimit *RateLimitMiddleware
	origins   []string
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, svc tracker.Service, checks *health.Registry, opts ...Option) *Server {
	s := &Server{
		config:  cfg,
		tracker: svc,
		health:  checks,
		origins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.health == nil {
		s.health = health.NewRegistry(0)
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	timeout := s.config.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints stay outside the rate limit
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		if s.rateLimit != nil {
			r.Use(s.rateLimit.Handler)
		}
		r.Use(bodyLimit(s.config.MaxBodyBytes))

		r.Get("/health", s.handleHealth)

		r.Route("/questions", func(r chi.Router) {
			r.Get("/", s.handleListQuestions)
			r.Post("/", s.handleCreateQuestion)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetQuestion)
				r.Put("/", s.handleUpdateQuestion)
				r.Delete("/", s.handleDeleteQuestion)
			})
		})

		r.Get("/topics", s.handleListTopics)
		r.Get("/tags", s.handleListTags)

		r.Route("/stats", func(r chi.Router) {
			r.Get("/", s.handleQuestionStats)
			r.Get("/heatmap", s.handleHeatmap)
		})

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", s.handleListCompanies)
			r.Post("/", s.handleCreateCompany)
			r.Get("/stats", s.handleCompanyStats)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetCompany)
				r.Put("/", s.handleUpdateCompany)
				r.Delete("/", s.handleDeleteCompany)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
