// Package ops exposes a small HTTP surface for liveness probes and
// monitoring: how many jobs are in flight, and whether the process is up.
package ops

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/telebackup/mongobot/internal/job"
)

// Handler serves the operational endpoints.
type Handler struct {
	jobs *job.Registry
}

// NewHandler creates a handler over the given registry.
func NewHandler(jobs *job.Registry) *Handler {
	return &Handler{jobs: jobs}
}

// Router builds the HTTP route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", h.Health).Methods("GET")
	r.HandleFunc("/api/jobs", h.Jobs).Methods("GET")
	return r
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Jobs reports the number of in-flight jobs.
func (h *Handler) Jobs(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]int{"active": h.jobs.Count()})
}

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
