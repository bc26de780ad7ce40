package chatclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/redis/go-redis/v9"

	"github.com/docsage/chatclient/session"
)

// Builder defines a public type used by chatclient APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	transport http.RoundTripper
	keyring   session.Keyring
	redis     *redis.Client

	built bool
}

// New describes the new operation and its observable behavior.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL overrides the single configuration value selecting the API
// mount point.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.HTTP.BaseURL = baseURL
	return b
}

// WithTransport replaces the underlying HTTP transport. The renewal call
// uses the same transport without the interception layer.
func (b *Builder) WithTransport(rt http.RoundTripper) *Builder {
	b.transport = rt
	return b
}

// WithKeyring injects the persistent medium for the three session keys.
func (b *Builder) WithKeyring(k session.Keyring) *Builder {
	b.keyring = k
	return b
}

// WithRedis is shorthand for a [session.RedisKeyring] under the configured
// prefix. A keyring set via [Builder.WithKeyring] wins.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, primes the session manager from the
// keyring, and wires the intercepted transport. A builder builds once.
func (b *Builder) Build(ctx context.Context) (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(cfg.HTTP.BaseURL)
	if err != nil {
		return nil, err
	}

	keyring := b.keyring
	if keyring == nil && b.redis != nil {
		keyring = session.NewRedisKeyring(b.redis, cfg.Session.RedisPrefix)
	}

	sessions, err := session.NewManager(ctx, keyring)
	if err != nil {
		return nil, err
	}

	transport := b.transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	metrics := NewMetrics(cfg.Metrics)
	refreshURL := base.JoinPath("/auth/refresh")

	intercepted := &authTransport{
		base:        transport,
		sessions:    sessions,
		metrics:     metrics,
		refreshURL:  refreshURL.String(),
		refreshPath: refreshURL.Path,
		timeout:     cfg.HTTP.Timeout,
		userAgent:   cfg.HTTP.UserAgent,
	}

	b.built = true

	return &Client{
		config:   cfg,
		sessions: sessions,
		metrics:  metrics,
		base:     base,
		http: &http.Client{
			Transport: intercepted,
			Timeout:   cfg.HTTP.Timeout,
		},
	}, nil
}
