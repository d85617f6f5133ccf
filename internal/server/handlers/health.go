// Package handlers implements the gateway's HTTP endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
)

// Checker reports the health of one subsystem.
type Checker interface {
	CheckHealth(ctx context.Context) error
}

// HealthResponse is the health endpoint body.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthManager aggregates registered checkers into one health verdict.
type HealthManager struct {
	version string

	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewHealthManager creates a manager reporting the given version.
func NewHealthManager(version string) *HealthManager {
	return &HealthManager{
		version:  version,
		checkers: map[string]Checker{},
	}
}

// RegisterChecker adds a named subsystem check.
func (m *HealthManager) RegisterChecker(name string, c Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers[name] = c
}

// HealthHandler runs all checks. Any failing check makes the whole response
// unhealthy with a 503.
func (m *HealthManager) HealthHandler(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resp := HealthResponse{
		Status:  "healthy",
		Version: m.version,
		Checks:  map[string]string{},
	}
	status := http.StatusOK
	for name, c := range m.checkers {
		if err := c.CheckHealth(r.Context()); err != nil {
			resp.Status = "unhealthy"
			resp.Checks[name] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			resp.Checks[name] = "healthy"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
