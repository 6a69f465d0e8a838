package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/sgvandijk/vroom/internal/api/dto"
	"github.com/sgvandijk/vroom/internal/domain"
	"github.com/sgvandijk/vroom/internal/platform/metrics"
	"github.com/sgvandijk/vroom/internal/platform/obs"
	"github.com/sgvandijk/vroom/internal/services"
)

// SolveHandler turns a posted problem into a solution. Each request gets
// a fresh instance; NewInput closes over the deployment's routing
// configuration.
type SolveHandler struct {
	NewInput    func() *services.Input
	Exploration int
	Threads     int
}

// decodeProblem enforces the strict single-object body discipline shared
// by both endpoints.
func decodeProblem(w http.ResponseWriter, r *http.Request) (dto.Problem, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return dto.Problem{}, false
	}

	var req dto.Problem

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return dto.Problem{}, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return dto.Problem{}, false
	}

	return req, true
}

func (h *SolveHandler) run(w http.ResponseWriter, r *http.Request, mode string) {
	req, ok := decodeProblem(w, r)
	if !ok {
		return
	}

	in := h.NewInput()
	if err := req.Apply(in); err != nil {
		metrics.Solves.WithLabelValues(mode, "input_error").Inc()
		writeJSON(w, r, statusFor(err), dto.FromError(err))
		return
	}

	var sol domain.Solution
	var err error
	defer obs.Time(logrus.WithField("mode", mode), mode)(&err)

	if mode == "check" {
		sol, err = in.Check(r.Context(), h.Threads)
	} else {
		sol, err = in.Solve(r.Context(), h.Exploration, h.Threads)
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{"mode": mode, "err": err}).Warn("run failed")
		metrics.Solves.WithLabelValues(mode, "error").Inc()
		writeJSON(w, r, statusFor(err), dto.FromError(err))
		return
	}

	metrics.Solves.WithLabelValues(mode, strconv.Itoa(sol.Code)).Inc()
	writeJSON(w, r, http.StatusOK, dto.FromDomain(sol))
}

// Solve searches for routes over the posted problem.
func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "solve")
}

// Check validates the pre-planned routes of the posted problem.
func (h *SolveHandler) Check(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "check")
}
