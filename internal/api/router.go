package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sgvandijk/vroom/internal/api/handlers"
	"github.com/sgvandijk/vroom/internal/platform/metrics"
	"github.com/sgvandijk/vroom/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(newInput func() *services.Input, exploration, threads int) http.Handler {
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	solveHandler := &handlers.SolveHandler{
		NewInput:    newInput,
		Exploration: exploration,
		Threads:     threads,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/solve", solveHandler.Solve)
	mux.HandleFunc("/check", solveHandler.Check)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return loggingMiddleware(mux)
}
