package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ogulcanaydogan/powerpulse/pkg/model"
	"github.com/ogulcanaydogan/powerpulse/pkg/stats"
	"github.com/ogulcanaydogan/powerpulse/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 10000
	defaultStatsDays    = 7
)

// Server provides health, history, statistics and metrics endpoints.
// It only reads the history store.
type Server struct {
	store    storage.Storage
	gatherer prometheus.Gatherer
	mux      *http.ServeMux
	logger   *slog.Logger
	now      func() time.Time
}

// NewServer creates an API server. gatherer may be nil to disable /metrics.
func NewServer(store storage.Storage, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	s := &Server{
		store:    store,
		gatherer: gatherer,
		mux:      http.NewServeMux(),
		logger:   logger,
		now:      time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/history", s.handleHistory)
	s.mux.HandleFunc("GET /api/v1/stats", s.handleStats)
	if s.gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

// Handler returns the HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit", defaultHistoryLimit, 1, maxHistoryLimit)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	records, err := s.store.Recent(ctx, limit)
	if err != nil {
		s.logger.Error("query history", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []model.HistoryRecord{}
	}
	writeJSON(w, records)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	days, ok := intParam(w, r, "days", defaultStatsDays, 1, 3650)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	start, _ := model.HistoryWindow(days, s.now())
	records, err := s.store.Since(ctx, start)
	if err != nil {
		s.logger.Error("query history", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats.Compute(records))
}

// intParam reads an optional integer query parameter. On a bad value it
// writes a 400 response and returns false.
func intParam(w http.ResponseWriter, r *http.Request, name string, def, lo, hi int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
