package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/pinochle/pkg/logger"
	"github.com/okian/pinochle/pkg/metrics"
)

const readyTimeout = 3 * time.Second

// Checker is a named dependency probed by /readyz.
type Checker struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler handles health and readiness requests.
type HealthHandler struct {
	logger   logger.Logger
	checkers []Checker
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(l logger.Logger, checkers ...Checker) *HealthHandler {
	return &HealthHandler{logger: l, checkers: checkers}
}

// HandleHealth handles GET /healthz requests with the Prometheus metrics.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

// HandleReady handles GET /readyz by running every checker.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	type result struct {
		Status string `json:"status"`
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := make(map[string]result, len(h.checkers))
	status := http.StatusOK
	for _, c := range h.checkers {
		if err := c.Check(ctx); err != nil {
			h.logger.Error(ctx, "readiness check failed", logger.String("name", c.Name), logger.Error(err))
			checks[c.Name] = result{Status: "error"}
			status = http.StatusServiceUnavailable
			continue
		}
		checks[c.Name] = result{Status: "ok"}
	}
	writeJSON(w, status, checks)
}
