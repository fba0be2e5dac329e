package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wikirace-go-solver/internal/article"
	"wikirace-go-solver/internal/models"
	"wikirace-go-solver/pkg/logger"
)

const (
	maxBatchPairs    = 100
	batchConcurrency = 4
	solveTimeout     = 5 * time.Minute
)

// pairSolver is satisfied by *solver.Solver.
type pairSolver interface {
	Solve(ctx context.Context, src, dst string) (models.Solution, error)
	SolveAll(ctx context.Context, pairs []models.Pair, concurrency int) []models.Outcome
}

type batchReq struct {
	Pairs []models.Pair `json:"pairs"`
}

func newRouter(l *logger.Logger, s pairSolver, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler { return logRequest(l, next) })

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// POST /solve  { "source": "...", "destination": "..." }
	r.Post("/solve", func(w http.ResponseWriter, r *http.Request) {
		var req models.Pair
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Source == "" || req.Destination == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), solveTimeout)
		defer cancel()

		sol, err := s.Solve(ctx, req.Source, req.Destination)
		switch {
		case errors.Is(err, article.ErrInvalidReference):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, context.DeadlineExceeded):
			writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": err.Error()})
		case err != nil:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusOK, sol)
		}
	})

	// POST /solve/batch  { "pairs": [{"source": "...", "destination": "..."}] }
	r.Post("/solve/batch", func(w http.ResponseWriter, r *http.Request) {
		var req batchReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Pairs) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if len(req.Pairs) > maxBatchPairs {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "too many pairs"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), solveTimeout)
		defer cancel()
		writeJSON(w, http.StatusOK, s.SolveAll(ctx, req.Pairs, batchConcurrency))
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func logRequest(l *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		l.Infof("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
