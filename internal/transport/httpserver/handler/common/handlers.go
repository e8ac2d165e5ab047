package common

import (
	"net/http"
	"time"
)

type Handlers struct {
	env     string
	started time.Time
	now     func() time.Time
}

func New(env string) *Handlers {
	return &Handlers{env: env, started: time.Now(), now: time.Now}
}

type healthResponse struct {
	Status      string  `json:"status"`
	Timestamp   string  `json:"timestamp"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "OK",
		Timestamp:   now.UTC().Format(time.RFC3339Nano),
		Uptime:      now.Sub(h.started).Seconds(),
		Environment: h.env,
	})
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not_found", "Route "+r.Method+" "+r.URL.Path+" not found", nil)
}

func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil)
}
