package main

import (
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sgvandijk/vroom/internal/api"
	"github.com/sgvandijk/vroom/internal/config"
	"github.com/sgvandijk/vroom/internal/services"
	"github.com/sgvandijk/vroom/internal/validation"
)

// main is the application composition root.
// It wires the routing adapters and the validator behind the instance
// builder and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	newInput := func() *services.Input {
		return services.New(services.Options{
			AmountSize: cfg.AmountSize,
			Geometry:   cfg.Geometry,
			NewRouter:  cfg.NewRouterFunc(),
			Validator:  validation.New(),
		})
	}

	router := api.NewRouter(newInput, cfg.Exploration, cfg.Threads)

	// Timeouts are tuned for cold matrix fetches against remote routing
	// engines.
	logrus.Infof("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	logrus.Fatal(srv.ListenAndServe())
}
