package handler

import (
	"net/http"

	"production-planner/internal/common/logger"
)

// Check is a named dependency probed by /healthz.
type Check struct {
	Name string
	Ping func() error
}

type HealthHandler struct {
	checks []Check
	log    *logger.Logger
}

func NewHealthHandler(log *logger.Logger, checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks, log: log}
}

// Healthz reports 503 as soon as one dependency is down.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for _, c := range h.checks {
		if err := c.Ping(); err != nil {
			h.log.Warn("healthz_check_failed", map[string]any{"check": c.Name, "error": err.Error()})
			deps[c.Name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[c.Name] = "ok"
	}
	body := map[string]any{"status": "ok", "checks": deps}
	if status != http.StatusOK {
		body["status"] = "unavailable"
	}
	writeJSON(w, status, body)
}
