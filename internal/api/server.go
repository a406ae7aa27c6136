// Package api serves the dashboard's JSON API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opsdash/platform-pulse/internal/engine"
	"github.com/opsdash/platform-pulse/internal/scheduler"
)

const (
	defaultWindowHours = 24
	maxWindowHours     = 168
	defaultHistoryDays = 30
	maxHistoryDays     = 365
)

// Server is the HTTP API server.
type Server struct {
	engine    *engine.Engine
	scheduler *scheduler.Scheduler
	server    *http.Server
}

// NewServer creates the API server and wires all routes.
func NewServer(eng *engine.Engine, sched *scheduler.Scheduler, addr string) *Server {
	s := &Server{
		engine:    eng,
		scheduler: sched,
	}

	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	r.HandleFunc("/v1/platforms", s.handlePlatformList).Methods(http.MethodGet)
	r.HandleFunc("/v1/platforms/{id}", s.handlePlatformGet).Methods(http.MethodGet)
	r.HandleFunc("/v1/platforms/{id}/performance", s.handlePerformance).Methods(http.MethodGet)
	r.HandleFunc("/v1/platforms/{id}/tickets/history", s.handleTicketHistory).Methods(http.MethodGet)
	r.HandleFunc("/v1/pipelines/{id}/summary", s.handlePipelineSummary).Methods(http.MethodGet)
	r.HandleFunc("/v1/summary", s.handleSummary).Methods(http.MethodGet)
	r.HandleFunc("/v1/tickets", s.handleTicketList).Methods(http.MethodGet)
	r.HandleFunc("/v1/tickets/history", s.handleTicketHistory).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.Use(loggingMiddleware)
	r.Use(metricsMiddleware)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting API server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down API server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	cacheSize := 0
	if s.scheduler != nil {
		cacheSize = s.scheduler.GetCache().Size()
	}

	ready := cacheSize == len(engine.PlatformIDs)
	var reasons []string
	if !ready {
		reasons = append(reasons, fmt.Sprintf("evaluated %d of %d platforms", cacheSize, len(engine.PlatformIDs)))
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, ReadyResponse{
		Ready:     ready,
		Platforms: cacheSize,
		Reasons:   reasons,
	})
}

// handlePlatformList serves the cached evaluations when the scheduler has
// them, otherwise evaluates inline so the endpoint works before the first
// scheduler pass.
func (s *Server) handlePlatformList(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	platforms := make([]PlatformResponse, 0, len(engine.PlatformIDs))

	for _, id := range engine.PlatformIDs {
		if s.scheduler != nil {
			if state, ok := s.scheduler.GetCache().Get(id); ok {
				evaluatedAt := state.EvaluatedAt
				platforms = append(platforms, toPlatformResponse(state.Health, &evaluatedAt))
				continue
			}
		}

		h, err := s.engine.Platform(id, now)
		if err != nil {
			respondError(w, http.StatusInternalServerError, fmt.Sprintf("evaluation failed: %v", err))
			return
		}
		platforms = append(platforms, toPlatformResponse(h, nil))
	}

	respondJSON(w, http.StatusOK, PlatformListResponse{Platforms: platforms})
}

func (s *Server) handlePlatformGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if s.scheduler != nil {
		if state, ok := s.scheduler.GetCache().Get(id); ok {
			evaluatedAt := state.EvaluatedAt
			respondJSON(w, http.StatusOK, toPlatformResponse(state.Health, &evaluatedAt))
			return
		}
	}

	h, err := s.engine.Platform(id, time.Now())
	if err != nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("platform not found: %s", id))
		return
	}
	respondJSON(w, http.StatusOK, toPlatformResponse(h, nil))
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	hours, err := intQueryParam(r, "hours", defaultWindowHours, 1, maxWindowHours)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := s.engine.PerformanceData(id, time.Now(), hours)
	if err != nil {
		respondError(w, http.StatusNotFound, fmt.Sprintf("platform not found: %s", id))
		return
	}

	respondJSON(w, http.StatusOK, toPerformanceResponse(data))
}

func (s *Server) handleTicketHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	days, err := intQueryParam(r, "days", defaultHistoryDays, 1, maxHistoryDays)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if id != "" {
		known := false
		for _, pid := range engine.PlatformIDs {
			if pid == id {
				known = true
				break
			}
		}
		if !known {
			respondError(w, http.StatusNotFound, fmt.Sprintf("platform not found: %s", id))
			return
		}
	}

	h := s.engine.TicketHistory(id, time.Now(), days)

	respondJSON(w, http.StatusOK, TicketHistoryResponse{
		Dates:          formatDates(h.Dates),
		OpenTickets:    *toWindowResponse(h.OpenTickets),
		OverdueTickets: *toWindowResponse(h.OverdueTickets),
		CurrentCount:   h.CurrentCount,
		BreachedCount:  h.BreachedCount,
	})
}

func (s *Server) handlePipelineSummary(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id != "edlap" && id != "sapbw" {
		respondError(w, http.StatusNotFound, fmt.Sprintf("no pipelines for platform: %s", id))
		return
	}

	summary := s.engine.PipelineSummary(id)
	respondJSON(w, http.StatusOK, PipelineSummaryResponse{
		Successful:    summary.Successful,
		Delayed:       summary.Delayed,
		Failed:        summary.Failed,
		NotApplicable: summary.NotApplicable,
		Total:         summary.Total,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	counts := s.engine.SummaryCounts(time.Now())
	respondJSON(w, http.StatusOK, SummaryResponse{
		Healthy:      counts.Healthy,
		Attention:    counts.Attention,
		Critical:     counts.Critical,
		TotalTickets: counts.TotalTickets,
	})
}

func (s *Server) handleTicketList(w http.ResponseWriter, r *http.Request) {
	tickets := toTicketResponses(s.engine.Tickets())
	respondJSON(w, http.StatusOK, TicketListResponse{
		Tickets: tickets,
		Total:   len(tickets),
	})
}

func intQueryParam(r *http.Request, name string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s must be between %d and %d", name, min, max)
	}
	return v, nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
