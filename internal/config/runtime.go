// Package config provides centralized configuration for WageTrack runtime values.
package config

import (
	"os"
	"strconv"
	"time"
)

// RuntimeConfig holds all runtime configuration values that would
// otherwise live as magic numbers throughout the codebase.
type RuntimeConfig struct {
	// Sync configuration
	Sync SyncConfig

	// Remote simulator configuration
	Remote RemoteConfig

	// HTTP client configuration (AI insights)
	HTTP HTTPConfig

	// Scheduler configuration
	Scheduler SchedulerConfig

	// Agent daemon configuration
	Agent AgentConfig
}

// SyncConfig holds synchronization engine configuration.
type SyncConfig struct {
	// DebounceWindow is the fixed delay after the last local mutation
	// before the pending push fires. Rapid edits inside the window
	// coalesce into a single push.
	// Default: 2s
	DebounceWindow time.Duration

	// PushTimeout bounds a single push or fetch round trip.
	// Default: 10s
	PushTimeout time.Duration
}

// RemoteConfig holds remote persistence simulator configuration.
type RemoteConfig struct {
	// Latency is the artificial delay applied to every fetch/push to
	// mimic a network round trip. Zero in tests.
	// Default: 150ms
	Latency time.Duration
}

// HTTPConfig holds HTTP client configuration for the insights call.
type HTTPConfig struct {
	// Timeout is the default HTTP request timeout.
	// Default: 30s
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts.
	// Default: 2
	MaxRetries int

	// InsightsURL is the text-generation endpoint for wage analysis.
	// Empty disables the call; the fixed fallback text is returned.
	InsightsURL string

	// InsightsKey is the API key sent with insights requests.
	InsightsKey string
}

// SchedulerConfig holds sync agent configuration.
type SchedulerConfig struct {
	// SweepSpec is the cron spec for the periodic push sweep.
	// Default: every 30 seconds.
	SweepSpec string

	// ProbeSpec is the cron spec for the remote reachability probe.
	// Default: every 5 minutes.
	ProbeSpec string
}

// AgentConfig holds background agent process configuration.
type AgentConfig struct {
	// StartupWait is how long to wait for a background-started agent to
	// write its PID file before declaring the start failed.
	// Default: 500ms
	StartupWait time.Duration

	// KillTimeout is how long to wait for a stopping agent to exit
	// before force killing it.
	// Default: 5s
	KillTimeout time.Duration

	// StatusInterval is how often the running agent refreshes its
	// published status file.
	// Default: 5s
	StatusInterval time.Duration
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Sync: SyncConfig{
			DebounceWindow: 2 * time.Second,
			PushTimeout:    10 * time.Second,
		},
		Remote: RemoteConfig{
			Latency: 150 * time.Millisecond,
		},
		HTTP: HTTPConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 2,
		},
		Scheduler: SchedulerConfig{
			SweepSpec: "*/30 * * * * *",
			ProbeSpec: "0 */5 * * * *",
		},
		Agent: AgentConfig{
			StartupWait:    500 * time.Millisecond,
			KillTimeout:    5 * time.Second,
			StatusInterval: 5 * time.Second,
		},
	}
}

// Global holds the global runtime configuration instance.
// It is initialized with defaults and can be overridden via environment variables.
var Global = initGlobal()

// initGlobal initializes the global config with defaults and environment overrides.
func initGlobal() *RuntimeConfig {
	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()
	return cfg
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *RuntimeConfig) loadFromEnv() {
	if v := os.Getenv("WAGETRACK_SYNC_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Sync.DebounceWindow = d
		}
	}
	if v := os.Getenv("WAGETRACK_SYNC_PUSH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Sync.PushTimeout = d
		}
	}
	if v := os.Getenv("WAGETRACK_REMOTE_LATENCY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Remote.Latency = d
		}
	}
	if v := os.Getenv("WAGETRACK_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTP.Timeout = d
		}
	}
	if v := os.Getenv("WAGETRACK_HTTP_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.HTTP.MaxRetries = n
		}
	}
	if v := os.Getenv("WAGETRACK_INSIGHTS_URL"); v != "" {
		c.HTTP.InsightsURL = v
	}
	if v := os.Getenv("WAGETRACK_INSIGHTS_KEY"); v != "" {
		c.HTTP.InsightsKey = v
	}
	if v := os.Getenv("WAGETRACK_SWEEP_SPEC"); v != "" {
		c.Scheduler.SweepSpec = v
	}
	if v := os.Getenv("WAGETRACK_PROBE_SPEC"); v != "" {
		c.Scheduler.ProbeSpec = v
	}
	if v := os.Getenv("WAGETRACK_AGENT_STARTUP_WAIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Agent.StartupWait = d
		}
	}
	if v := os.Getenv("WAGETRACK_AGENT_KILL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Agent.KillTimeout = d
		}
	}
	if v := os.Getenv("WAGETRACK_AGENT_STATUS_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Agent.StatusInterval = d
		}
	}
}

// ReloadFromEnv reloads configuration from environment variables.
// This is useful for testing or when environment variables change.
func (c *RuntimeConfig) ReloadFromEnv() {
	c.loadFromEnv()
}

// Reset resets the configuration to defaults.
// This is primarily useful for testing.
func (c *RuntimeConfig) Reset() {
	defaults := DefaultRuntimeConfig()
	*c = *defaults
}
