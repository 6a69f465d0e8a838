package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sgvandijk/vroom/internal/domain"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path, "err": err}).Warn("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// statusFor maps error kinds to HTTP statuses: caller mistakes are 400,
// backend trouble is 502, everything else is 500.
func statusFor(err error) int {
	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		return http.StatusBadRequest
	}
	var routingErr *domain.RoutingError
	if errors.As(err, &routingErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
