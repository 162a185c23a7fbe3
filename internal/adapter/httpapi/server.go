// Package httpapi serves the computed metric set as plain JSON, alongside
// the operational health, readiness, and Prometheus endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/damage-rate-service/internal/domain"
)

// MetricSource provides the current metric set; nil before the first load.
type MetricSource interface {
	Current() *domain.MetricSet
}

// Server exposes the query API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	source     MetricSource
	logger     *slog.Logger
}

// NewServer wires all routes onto a stdlib mux.
func NewServer(addr string, source MetricSource, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source: source,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/metrics", s.handleMetrics)
	mux.HandleFunc("GET /api/v1/metrics/{state}/{year}", s.handleLookup)
	mux.HandleFunc("GET /api/v1/years", s.handleYears)
	mux.HandleFunc("GET /api/v1/states", s.handleStates)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// metricsResponse is the envelope for list endpoints.
type metricsResponse struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Count       int                       `json:"count"`
	Metrics     []*domain.StateYearMetric `json:"metrics"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	set, ok := s.currentSet(w)
	if !ok {
		return
	}

	rows := set.All()
	if q := r.URL.Query().Get("year"); q != "" {
		year, err := strconv.Atoi(q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid year"})
			return
		}
		rows = set.ForYear(year)
	}

	writeJSON(w, http.StatusOK, metricsResponse{
		GeneratedAt: set.GeneratedAt(),
		Count:       len(rows),
		Metrics:     rows,
	})
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	set, ok := s.currentSet(w)
	if !ok {
		return
	}

	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid year"})
		return
	}
	state := strings.ToUpper(strings.TrimSpace(r.PathValue("state")))

	metric, found := set.Find(state, year)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no metric for state and year"})
		return
	}
	writeJSON(w, http.StatusOK, metric)
}

func (s *Server) handleYears(w http.ResponseWriter, _ *http.Request) {
	set, ok := s.currentSet(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"years": set.Years()})
}

func (s *Server) handleStates(w http.ResponseWriter, _ *http.Request) {
	set, ok := s.currentSet(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"states": set.States()})
}

// currentSet fetches the current metric set, writing a 503 when no dataset
// has loaded yet. That state also fails /readyz, but API callers deserve a
// JSON body rather than a connection-level rejection.
func (s *Server) currentSet(w http.ResponseWriter) (*domain.MetricSet, bool) {
	set := s.source.Current()
	if set == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no dataset loaded"})
		return nil, false
	}
	return set, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
