package rest

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker probes one dependency.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthCheckerFunc adapts a function to the HealthChecker interface.
type HealthCheckerFunc struct {
	CheckerName string
	Fn          func(ctx context.Context) error
}

func (f HealthCheckerFunc) Name() string                    { return f.CheckerName }
func (f HealthCheckerFunc) Check(ctx context.Context) error { return f.Fn(ctx) }

type healthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	Uptime string            `json:"uptime"`
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checkers  []HealthChecker
	startTime time.Time
}

func NewHealthHandler(checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers:  checkers,
		startTime: time.Now(),
	}
}

// liveness reports that the process is up; it never checks dependencies.
func (h *HealthHandler) liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthStatus{
		Status: "ok",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	})
}

// readiness probes every dependency with a shared deadline and fails the
// whole check if any dependency is down.
func (h *HealthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := healthStatus{
		Status: "ok",
		Checks: make(map[string]string, len(h.checkers)),
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	}

	code := http.StatusOK
	for _, checker := range h.checkers {
		if err := checker.Check(ctx); err != nil {
			status.Status = "degraded"
			status.Checks[checker.Name()] = err.Error()
			code = http.StatusServiceUnavailable
		} else {
			status.Checks[checker.Name()] = "ok"
		}
	}

	writeJSON(w, code, status)
}
