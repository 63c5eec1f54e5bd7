// Package api provides the HTTP server for Codexa. It exposes learner
// progression (profiles, events, quests, achievements, activity), the
// shop catalogs, and the tutor content endpoints.
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codexa-learn/codexa/internal/app/progression"
	"github.com/codexa-learn/codexa/internal/catalog"
	"github.com/codexa-learn/codexa/internal/health"
	"github.com/codexa-learn/codexa/internal/infra/sqlite"
	"github.com/codexa-learn/codexa/internal/tutor"
)

// Server is the Codexa HTTP API server.
type Server struct {
	db       *sqlite.DB
	engine   *progression.Engine
	catalogs *catalog.Catalogs
	notifier *progression.Notifier
	tutor    *tutor.Service // nil when no model server is configured
	speaker  tutor.Speaker
	checker  *health.Checker

	metricsEnabled bool

	// Per-learner locks serialize load → apply → save. The engine is
	// pure; this is the only place concurrent writes could interleave.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewServer creates a new API server.
func NewServer(db *sqlite.DB, eng *progression.Engine, cats *catalog.Catalogs, notifier *progression.Notifier) *Server {
	return &Server{
		db:       db,
		engine:   eng,
		catalogs: cats,
		notifier: notifier,
		speaker:  tutor.DisabledSpeaker{},
		locks:    make(map[string]*sync.Mutex),
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetTutor wires the tutor content service.
func (s *Server) SetTutor(t *tutor.Service) { s.tutor = t }

// SetSpeaker wires the read-aloud backend.
func (s *Server) SetSpeaker(sp tutor.Speaker) { s.speaker = sp }

// SetHealthChecker wires the daemon's health checker into /health.
func (s *Server) SetHealthChecker(c *health.Checker) { s.checker = c }

// learnerLock returns the mutex guarding one learner's profile.
func (s *Server) learnerLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": "0.1.0",
		})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Route("/learners/{learnerID}", func(r chi.Router) {
			r.Get("/", s.handleProfile)
			r.Get("/summary", s.handleSummary)
			r.Post("/events", s.handleEvent)
			r.Get("/quests", s.handleQuests)
			r.Get("/achievements", s.handleAchievements)
			r.Get("/activity", s.handleActivity)
			r.Get("/notifications", s.handleNotifications)
			r.Post("/notifications/{id}/shown", s.handleNotificationShown)
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/shop", s.handleShopCatalog)
			r.Get("/quests", s.handleQuestCatalog)
			r.Get("/achievements", s.handleAchievementCatalog)
		})

		r.Route("/content", func(r chi.Router) {
			r.Post("/lesson", s.handleLesson)
			r.Post("/quiz", s.handleQuiz)
			r.Post("/chat", s.handleChat)
			r.Post("/speech", s.handleSpeech)
		})
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.checker == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	status := http.StatusOK
	overall := "ok"
	if !s.checker.IsHealthy() {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": overall,
		"checks": s.checker.Statuses(),
	})
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
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
