package daemon

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks sync agent operational metrics.
type Metrics struct {
	sweepsRun      atomic.Int64
	pushesAccepted atomic.Int64
	pushesRejected atomic.Int64
	probesRun      atomic.Int64
	errorsTotal    atomic.Int64

	mu               sync.RWMutex
	lastSweepAt      time.Time
	lastProbeAt      time.Time
	lastError        string
	lastErrorAt      time.Time
	errorsByCategory map[string]int64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		errorsByCategory: make(map[string]int64),
	}
}

// MetricsSnapshot represents a point-in-time view of metrics.
type MetricsSnapshot struct {
	SweepsRunTotal      int64            `json:"sweeps_run_total"`
	PushesAcceptedTotal int64            `json:"pushes_accepted_total"`
	PushesRejectedTotal int64            `json:"pushes_rejected_total"`
	ProbesRunTotal      int64            `json:"probes_run_total"`
	ErrorsTotal         int64            `json:"errors_total"`
	LastSweepAt         *time.Time       `json:"last_sweep_at,omitempty"`
	LastProbeAt         *time.Time       `json:"last_probe_at,omitempty"`
	LastError           string           `json:"last_error,omitempty"`
	LastErrorAt         *time.Time       `json:"last_error_at,omitempty"`
	ErrorsByCategory    map[string]int64 `json:"errors_by_category,omitempty"`
}

// Snapshot returns a copy of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		SweepsRunTotal:      m.sweepsRun.Load(),
		PushesAcceptedTotal: m.pushesAccepted.Load(),
		PushesRejectedTotal: m.pushesRejected.Load(),
		ProbesRunTotal:      m.probesRun.Load(),
		ErrorsTotal:         m.errorsTotal.Load(),
		LastError:           m.lastError,
		ErrorsByCategory:    make(map[string]int64, len(m.errorsByCategory)),
	}

	if !m.lastSweepAt.IsZero() {
		snap.LastSweepAt = &m.lastSweepAt
	}
	if !m.lastProbeAt.IsZero() {
		snap.LastProbeAt = &m.lastProbeAt
	}
	if !m.lastErrorAt.IsZero() {
		snap.LastErrorAt = &m.lastErrorAt
	}
	for k, v := range m.errorsByCategory {
		snap.ErrorsByCategory[k] = v
	}
	return snap
}

// JSON returns metrics as JSON.
func (m *Metrics) JSON() ([]byte, error) {
	return json.MarshalIndent(m.Snapshot(), "", "  ")
}

// RecordSweep records a sweep cycle.
func (m *Metrics) RecordSweep(at time.Time) {
	m.sweepsRun.Add(1)

	m.mu.Lock()
	m.lastSweepAt = at
	m.mu.Unlock()
}

// RecordPushAccepted records a push the remote accepted.
func (m *Metrics) RecordPushAccepted() {
	m.pushesAccepted.Add(1)
}

// RecordPushRejected records a push the remote rejected as stale.
func (m *Metrics) RecordPushRejected() {
	m.pushesRejected.Add(1)
}

// RecordProbe records a reachability probe.
func (m *Metrics) RecordProbe() {
	m.probesRun.Add(1)

	m.mu.Lock()
	m.lastProbeAt = time.Now()
	m.mu.Unlock()
}

// RecordError records an error with category.
func (m *Metrics) RecordError(category string, err error) {
	m.errorsTotal.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastError = err.Error()
	m.lastErrorAt = time.Now()
	if category != "" {
		m.errorsByCategory[category]++
	}
}

// SweepsRun returns the total sweep cycles observed.
func (m *Metrics) SweepsRun() int64 {
	return m.sweepsRun.Load()
}

// ErrorsTotal returns the total errors.
func (m *Metrics) ErrorsTotal() int64 {
	return m.errorsTotal.Load()
}

// Reset resets all metrics to zero.
func (m *Metrics) Reset() {
	m.sweepsRun.Store(0)
	m.pushesAccepted.Store(0)
	m.pushesRejected.Store(0)
	m.probesRun.Store(0)
	m.errorsTotal.Store(0)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastSweepAt = time.Time{}
	m.lastProbeAt = time.Time{}
	m.lastError = ""
	m.lastErrorAt = time.Time{}
	m.errorsByCategory = make(map[string]int64)
}
