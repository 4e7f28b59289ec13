package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/kscanner/pkg/logger"
)

// HealthCheck checks one dependency; nil means healthy
type HealthCheck func(ctx context.Context) error

// HealthHandler reports service and dependency status
type HealthHandler struct {
	env     string
	checks  map[string]HealthCheck
	started time.Time
	logger  *logger.Logger
}

// NewHealthHandler creates a health handler
func NewHealthHandler(env string, checks map[string]HealthCheck, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		env:     env,
		checks:  checks,
		started: time.Now(),
		logger:  log,
	}
}

// HealthResponse is the /health payload
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Env     string            `json:"env"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Check returns 200 when every dependency is healthy, 503 otherwise
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:  "ok",
		Service: logger.ServiceName,
		Env:     h.env,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	}

	status := http.StatusOK
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.WithError(err).WithField("check", name).Warn("Health check failed")
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	respondJSON(w, status, resp)
}
