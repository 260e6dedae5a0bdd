package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

const healthCheckTimeout = 2 * time.Second

type HealthResponse struct {
	Service    string                `json:"service"`
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	DurationMs int64        `json:"duration_ms"`
}

// checkFunc probes a single dependency. The role store is always
// registered; callers may add more (e.g. the remote directory).
type checkFunc func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]checkFunc
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{
		checks: map[string]checkFunc{
			"role_store": db.PingContext,
		},
	}
}

// AddCheck registers an extra named dependency probe.
func (h *HealthHandler) AddCheck(name string, check checkFunc) {
	h.checks[name] = check
}

func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "OK"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// healthCheckHandler probes every registered dependency and reports
// unhealthy if any of them fails.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	overall := HealthHealthy
	components := make(map[string]CheckEntry, len(h.checks))

	for name, check := range h.checks {
		start := time.Now()
		err := check(ctx)

		entry := CheckEntry{
			Status:     HealthHealthy,
			DurationMs: time.Since(start).Milliseconds(),
		}
		if err != nil {
			entry.Status = HealthUnhealthy
			entry.Message = err.Error()
			overall = HealthUnhealthy
		}
		components[name] = entry
	}

	resp := HealthResponse{
		Service:    "business-management",
		Status:     overall,
		CheckedAt:  time.Now(),
		Components: components,
	}

	statusCode := http.StatusOK
	if overall == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}
