package daemon

import (
	"encoding/json"
	"runtime"
	"sync"
	"time"
)

// HealthStatus represents the current health state of the agent.
type HealthStatus struct {
	Status        string    `json:"status"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	MemoryMB      float64   `json:"memory_mb"`
	Goroutines    int       `json:"goroutines"`
	LastCheck     time.Time `json:"last_check"`
	Version       string    `json:"version,omitempty"`
}

// HealthChecker provides health status for the agent. Checks are
// registered as closures so the checker stays decoupled from the sync
// engine and the remote client.
type HealthChecker struct {
	mu           sync.RWMutex
	startTime    time.Time
	lastCheck    time.Time
	version      string
	customChecks map[string]func() error
}

// NewHealthChecker creates a new health checker.
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		startTime:    time.Now(),
		version:      version,
		customChecks: make(map[string]func() error),
	}
}

// Check performs a health check and returns the status.
func (h *HealthChecker) Check() *HealthStatus {
	h.mu.Lock()
	h.lastCheck = time.Now()
	h.mu.Unlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return &HealthStatus{
		Status:        h.determineStatus(),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		MemoryMB:      float64(memStats.Alloc) / 1024 / 1024,
		Goroutines:    runtime.NumGoroutine(),
		LastCheck:     h.lastCheck,
		Version:       h.version,
	}
}

// determineStatus runs all registered checks.
func (h *HealthChecker) determineStatus() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, check := range h.customChecks {
		if err := check(); err != nil {
			return "unhealthy"
		}
	}
	return "healthy"
}

// AddCheck adds a custom health check function.
func (h *HealthChecker) AddCheck(name string, check func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.customChecks[name] = check
}

// RemoveCheck removes a custom health check.
func (h *HealthChecker) RemoveCheck(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.customChecks, name)
}

// JSON returns the health status as JSON.
func (h *HealthChecker) JSON() ([]byte, error) {
	return json.MarshalIndent(h.Check(), "", "  ")
}

// Uptime returns how long the agent has been running.
func (h *HealthChecker) Uptime() time.Duration {
	return time.Since(h.startTime)
}

// IsHealthy returns true if all checks pass.
func (h *HealthChecker) IsHealthy() bool {
	return h.determineStatus() == "healthy"
}
