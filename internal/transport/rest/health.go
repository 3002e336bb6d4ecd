package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const (
	HealthOK          = "OK"
	HealthUnavailable = "UNAVAILABLE"
)

type HealthResponse struct {
	Status     string                `json:"status"`
	Message    string                `json:"message"`
	Timestamp  time.Time             `json:"timestamp"`
	Components map[string]CheckEntry `json:"components,omitempty"`
}

type CheckEntry struct {
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// HealthCheck probes one dependency, typically the SQL store.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]HealthCheck
	now    func() time.Time
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, now: time.Now}
}

// pingHandler only reports that the process is up.
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": HealthOK}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// healthCheckHandler runs every registered check.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:  HealthOK,
		Message: "Employee Directory API is running",
	}

	if len(h.checks) > 0 {
		resp.Components = make(map[string]CheckEntry, len(h.checks))
	}
	for name, check := range h.checks {
		start := time.Now()
		err := check(ctx)

		entry := CheckEntry{
			Status:     HealthOK,
			DurationMs: time.Since(start).Milliseconds(),
		}
		if err != nil {
			entry.Status = HealthUnavailable
			entry.Message = err.Error()
			resp.Status = HealthUnavailable
			resp.Message = "Employee Directory API is degraded"
		}
		resp.Components[name] = entry
	}
	resp.Timestamp = h.now().UTC()

	statusCode := http.StatusOK
	if resp.Status != HealthOK {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}
