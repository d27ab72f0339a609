// Package api provides the HTTP JSON API for therapytrack.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/therapytrack/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	handler *TrackingHandler
	health  *observability.HealthRegistry
	metrics observability.Metrics
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new API server. health and metrics may be nil.
func NewServer(cfg ServerConfig, handler *TrackingHandler, health *observability.HealthRegistry, metrics observability.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if health == nil {
		health = observability.NewHealthRegistry()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}

	mux := http.NewServeMux()

	s := &Server{
		mux:     mux,
		logger:  logger,
		handler: handler,
		health:  health,
		metrics: metrics,
	}

	// Register routes
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.instrument(s.mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	// Health check
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Entries
	s.route("POST /api/v1/entries", "log_entry", s.handler.LogEntry)
	s.route("GET /api/v1/owners/{ownerID}/entries", "get_day_entries", s.handler.GetDayEntries)

	// Goals
	s.route("GET /api/v1/owners/{ownerID}/goal", "get_goal", s.handler.GetGoal)
	s.route("PUT /api/v1/owners/{ownerID}/goal", "assign_goal", s.handler.AssignGoal)

	// Progress views
	s.route("GET /api/v1/owners/{ownerID}/calendar", "get_month_calendar", s.handler.GetMonthCalendar)
	s.route("GET /api/v1/owners/{ownerID}/week", "get_week_progress", s.handler.GetWeekProgress)
	s.route("GET /api/v1/owners/{ownerID}/stats", "get_stats", s.handler.GetStats)

	// Care team
	s.route("GET /api/v1/clinicians/{clinicianID}/patients", "list_patients", s.handler.ListPatients)
	s.route("POST /api/v1/clinicians/{clinicianID}/patients", "add_patient", s.handler.AddPatient)
}

// route registers h with its operation name attached to the request context.
func (s *Server) route(pattern, operation string, h http.HandlerFunc) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		h(w, r.WithContext(observability.WithOperation(r.Context(), operation)))
	})
}

// Handler returns the instrumented router.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// handleHealth reports the registered health checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	overall := s.health.GetOverallHealth(r.Context())
	status := http.StatusOK
	if overall.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, overall)
}

// instrument tags the request context for logging and records request
// metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := observability.NewRequestContext(r.Context(), r.Header.Get("X-Correlation-ID"))
		if user := r.Header.Get(UserIDHeader); user != "" {
			ctx = observability.WithUserID(ctx, user)
		}
		w.Header().Set("X-Request-ID", observability.RequestIDFromContext(ctx))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		tags := []observability.Tag{
			observability.T("method", r.Method),
			observability.T("status", strconv.Itoa(rec.status)),
		}
		s.metrics.Counter(observability.MetricHTTPRequests, 1, tags...)
		s.metrics.Timing(observability.MetricHTTPRequestDuration, time.Since(start), tags...)
		s.logger.DebugContext(ctx, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			observability.StatusKey, rec.status,
			observability.DurationKey, time.Since(start).Milliseconds(),
		)
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server",
		"addr", s.server.Addr,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Log error but can't do much at this point
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}
