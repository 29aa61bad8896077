// Package api provides the HTTP surface of the scoring engine.
// All routes operate on the identity passed in the X-User-ID header —
// identity is injected by the gateway, never resolved ambiently here.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/transforma-app/transforma/internal/app/scoring"
	"github.com/transforma-app/transforma/internal/health"
	"github.com/transforma-app/transforma/internal/infra/sqlite"
)

// userHeader carries the injected identity.
const userHeader = "X-User-ID"

// Server is the Transforma scoring API server.
type Server struct {
	db             *sqlite.DB
	engine         *scoring.Engine
	streaks        *scoring.Tracker
	checker        *health.Checker
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(db *sqlite.DB, engine *scoring.Engine, streaks *scoring.Tracker) *Server {
	return &Server{db: db, engine: engine, streaks: streaks}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealthChecker attaches the periodic health checker.
func (s *Server) SetHealthChecker(c *health.Checker) { s.checker = c }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "transforma scoring engine is running",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": "0.1.0",
		})
	})

	// Scoring API
	r.Route("/api/score", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/level", s.handleLevel)
		r.Get("/rank", s.handleRank)
		r.Get("/streak", s.handleStreak)
		r.Get("/today", s.handleToday)
		r.Get("/history", s.handleHistory)
		r.Get("/achievements", s.handleAchievements)
		r.Get("/actions", s.handleActions)
		r.Post("/actions/{key}", s.handleGrantAction)
		r.Post("/profile", s.handleCreateProfile)
		r.Get("/notifications", s.handleNotifications)
		r.Post("/notifications/{id}/seen", s.handleNotificationSeen)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.checker != nil && !s.checker.IsHealthy() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded",
			"checks": s.checker.Statuses(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// userID extracts the injected identity, or writes a 400 and returns
// "" if the header is missing.
func userID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(userHeader)
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing "+userHeader+" header")
	}
	return id
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+userHeader)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
