// Package server is the thin HTTP consumer of the analytics core: route
// handling, parameter parsing, CSV ingestion, and response shaping. All
// numbers come from internal/insights.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/cors"

	"github.com/doughdash/backend/internal/events"
	"github.com/doughdash/backend/internal/insights"
	"github.com/doughdash/backend/internal/ledger"
	"github.com/doughdash/backend/internal/store"
)

// Defaults applied when the caller omits forecast parameters, matching the
// demo UI's sliders.
const (
	defaultIncomeMonthly = 1800.0
	defaultGoalAmount    = 3000.0
	defaultMonthsToGoal  = 10
)

// Server wires the HTTP surface over the store and the analytics service.
type Server struct {
	store    store.Store
	insights *insights.Service
	events   *events.Publisher
	skipPII  bool
}

// Option tweaks server construction.
type Option func(*Server)

// WithEventPublisher emits dataset-change events on every mutation.
func WithEventPublisher(p *events.Publisher) Option {
	return func(s *Server) { s.events = p }
}

// WithSkipPIIScan disables the upload PII scan (demo escape hatch).
func WithSkipPIIScan() Option {
	return func(s *Server) { s.skipPII = true }
}

// New builds a server over the given store.
func New(st store.Store, svc *insights.Service, opts ...Option) *Server {
	s := &Server{store: st, insights: svc}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the fully routed, CORS-wrapped handler.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("POST /api/clear", s.handleClear)
	mux.HandleFunc("GET /api/transactions", s.handleTransactions)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/trends", s.handleTrends)
	mux.HandleFunc("GET /api/subscriptions", s.handleSubscriptions)
	mux.HandleFunc("GET /api/anomalies", s.handleAnomalies)
	mux.HandleFunc("GET /api/score", s.handleScore)
	mux.HandleFunc("GET /api/forecast", s.handleForecast)
	mux.HandleFunc("POST /api/whatif", s.handleWhatIf)
	mux.HandleFunc("POST /api/coffee", s.handleCoffee)
	mux.HandleFunc("GET /api/coffee", s.handleCoffee)
	mux.HandleFunc("GET /api/compare", s.handleCompare)
	mux.HandleFunc("GET /api/coach", s.handleCoach)

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	meta, err := s.store.Meta(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"records":      meta.Rows,
		"version":      meta.Version,
		"last_updated": meta.LastUpdated.Format(time.RFC3339),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "missing file upload")
		return
	}
	defer file.Close()
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		badRequest(w, "Please upload a .csv file.")
		return
	}

	records, err := parseCSV(file)
	if err != nil {
		badRequest(w, "Failed to parse CSV: "+err.Error())
		return
	}

	if !s.skipPII {
		if cols := detectPII(records); len(cols) > 0 {
			badRequest(w, "Upload blocked: possible PII detected in columns "+strings.Join(cols, ", ")+". Remove sensitive data for this demo.")
			return
		}
	}

	txs := ledger.CategorizeAll(ledger.Normalize(records))
	if len(txs) == 0 {
		badRequest(w, "Empty dataset.")
		return
	}

	meta, err := s.store.Replace(r.Context(), txs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.notify(r, meta)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "rows": meta.Rows, "version": meta.Version})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sample := ledger.GenerateSample(90, 7, time.Now().UTC())
	meta, err := s.store.Replace(r.Context(), sample)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.notify(r, meta)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "rows": meta.Rows, "version": meta.Version})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	meta, err := s.store.Clear(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.notify(r, meta)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "rows": 0, "version": meta.Version})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.Transactions(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if boolQuery(r, "privacy") {
		mask := insights.NewMasker()
		for i := range txs {
			txs[i].Merchant = mask.Name(txs[i].Merchant)
		}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	out, err := s.insights.Summary(r.Context(), boolQuery(r, "privacy"))
	s.respond(w, r, out, err)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	out, err := s.insights.Trends(r.Context(), intQuery(r, "months", 0))
	s.respond(w, r, out, err)
}

func (s *Server) handleSubscriptions(w http.ResponseWriter, r *http.Request) {
	out, err := s.insights.Subscriptions(r.Context(), boolQuery(r, "privacy"))
	if out == nil {
		out = []insights.Subscription{}
	}
	s.respond(w, r, out, err)
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	out, err := s.insights.Anomalies(r.Context(), boolQuery(r, "privacy"))
	if out == nil {
		out = []insights.Anomaly{}
	}
	s.respond(w, r, out, err)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	out, err := s.insights.Score(r.Context(), floatQuery(r, "income_monthly", defaultIncomeMonthly))
	s.respond(w, r, out, err)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	out, err := s.insights.Forecast(r.Context(),
		floatQuery(r, "income_monthly", defaultIncomeMonthly),
		floatQuery(r, "goal_amount", defaultGoalAmount),
		intQuery(r, "months_to_goal", defaultMonthsToGoal))
	s.respond(w, r, out, err)
}

func (s *Server) handleWhatIf(w http.ResponseWriter, r *http.Request) {
	var cuts map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&cuts); err != nil {
		badRequest(w, "body must be a JSON object of category to cut amount")
		return
	}
	out, err := s.insights.WhatIf(r.Context(), cuts,
		floatQuery(r, "income_monthly", defaultIncomeMonthly),
		floatQuery(r, "goal_amount", defaultGoalAmount),
		intQuery(r, "months_to_goal", defaultMonthsToGoal))
	s.respond(w, r, out, err)
}

func (s *Server) handleCoffee(w http.ResponseWriter, r *http.Request) {
	var override *insights.CoffeeConfig
	if r.Method == http.MethodPost && r.ContentLength > 0 {
		cfg := s.insights.CoffeeDefaults()
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			badRequest(w, "invalid coffee config body")
			return
		}
		override = &cfg
	}
	out, err := s.insights.Coffee(r.Context(), override)
	s.respond(w, r, out, err)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	out, err := s.insights.Compare(r.Context(),
		floatQuery(r, "income_monthly", defaultIncomeMonthly),
		floatQuery(r, "goal_amount", defaultGoalAmount),
		intQuery(r, "months_to_goal", defaultMonthsToGoal))
	s.respond(w, r, out, err)
}

func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	out, err := s.insights.Coach(r.Context(),
		floatQuery(r, "income_monthly", defaultIncomeMonthly),
		floatQuery(r, "goal_amount", defaultGoalAmount),
		intQuery(r, "months_to_goal", defaultMonthsToGoal),
		boolQuery(r, "privacy"))
	s.respond(w, r, out, err)
}

// notify publishes a dataset-change event; failures are logged, never
// surfaced, since the mutation itself already committed.
func (s *Server) notify(r *http.Request, meta store.Meta) {
	err := s.events.PublishDatasetChanged(r.Context(), events.DatasetChanged{
		Version: meta.Version,
		Rows:    meta.Rows,
		At:      meta.LastUpdated,
	})
	if err != nil {
		slog.WarnContext(r.Context(), "dataset change event failed", "error", err)
	}
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, body any, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, insights.ErrInvalidInput) {
		badRequest(w, err.Error())
		return
	}
	slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal error"})
}

func badRequest(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func boolQuery(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

func floatQuery(r *http.Request, name string, fallback float64) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
