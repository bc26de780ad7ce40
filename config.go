package chatclient

import (
	"errors"
	"net/url"
	"time"
)

// Config defines a public type used by chatclient APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	HTTP    HTTPConfig
	Session SessionConfig
	Reset   ResetConfig
	Metrics MetricsConfig
}

/*
====================================
HTTP CONFIG
====================================
*/

// HTTPConfig defines a public type used by chatclient APIs.
//
// HTTPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HTTPConfig struct {
	// BaseURL is the API mount point, typically a local reverse proxy.
	BaseURL string
	// Timeout applies to every request, renewal calls included. No
	// distinct renewal timeout exists.
	Timeout   time.Duration
	UserAgent string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by chatclient APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	RedisPrefix string
}

/*
====================================
RESET CONFIG
====================================
*/

// ResetConfig defines a public type used by chatclient APIs.
//
// ResetConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ResetConfig struct {
	// LegacyPaths selects the older forgot-password endpoint aliases
	// (/auth/forgot-password/request-otp, /auth/forgot-password/reset).
	// The current paths are canonical; this is a compatibility switch only.
	LegacyPaths bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by chatclient APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the configuration used when the caller supplies
// nothing: local reverse-proxy base path, one shared 15s timeout, metrics on.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			BaseURL:   "http://localhost/api",
			Timeout:   15 * time.Second,
			UserAgent: "chatclient/1.0",
		},
		Session: SessionConfig{
			RedisPrefix: "cc",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
func (c Config) Validate() error {
	u, err := url.Parse(c.HTTP.BaseURL)
	if err != nil {
		return errors.Join(errors.New("invalid BaseURL"), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("BaseURL must be http or https")
	}
	if u.Host == "" {
		return errors.New("BaseURL must include a host")
	}
	if c.HTTP.Timeout <= 0 {
		return errors.New("HTTP.Timeout must be positive")
	}
	return nil
}

func cloneConfig(c Config) Config {
	// All fields are value types today; clone stays explicit so future
	// reference fields get copied here.
	return c
}
