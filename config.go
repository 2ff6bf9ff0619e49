package taskpilot

import (
	"errors"
	"net/url"
	"time"
)

// Config defines a public type used by taskpilot APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API     APIConfig
	Session SessionConfig
	Events  EventsConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig defines a public type used by taskpilot APIs.
//
// APIConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type APIConfig struct {
	// BaseURL is the root of the TaskPilot service, e.g. "https://api.taskpilot.dev".
	BaseURL string
	// Timeout applies to every request unless a custom http.Client is supplied.
	Timeout   time.Duration
	UserAgent string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by taskpilot APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// RedisPrefix namespaces the durable entries when the redis backend is
	// selected via Builder.WithRedis.
	RedisPrefix string
	// TTL bounds how long persisted redis entries outlive their last write.
	// Zero means no expiry. File-backed sessions ignore it.
	TTL time.Duration
}

/*
====================================
EVENTS CONFIG
====================================
*/

// EventsConfig defines a public type used by taskpilot APIs.
//
// EventsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EventsConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by taskpilot APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout:   30 * time.Second,
			UserAgent: "taskpilot-go",
		},
		Session: SessionConfig{
			RedisPrefix: "tp",
		},
		Events: EventsConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// DefaultConfig returns the recommended configuration for most callers:
// metrics on, latency histograms off, async events with drop-if-full
// backpressure. Only API.BaseURL must still be set.
func DefaultConfig() Config {
	return defaultConfig()
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation fails; it never performs I/O.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("API.BaseURL required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return errors.New("API.BaseURL is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("API.BaseURL must use http or https")
	}
	if u.Host == "" {
		return errors.New("API.BaseURL missing host")
	}
	if c.API.Timeout < 0 {
		return errors.New("API.Timeout must not be negative")
	}
	if c.Session.TTL < 0 {
		return errors.New("Session.TTL must not be negative")
	}
	if c.Events.Enabled && c.Events.BufferSize < 0 {
		return errors.New("Events.BufferSize must not be negative")
	}
	return nil
}
