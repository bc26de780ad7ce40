package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/docsage/chatclient/session"
)

// Client defines a public type used by chatclient APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	config   Config
	sessions *session.Manager
	metrics  *Metrics
	http     *http.Client
	base     *url.URL
}

// Sessions exposes the injected session manager so application code can
// read the live session or subscribe to the unauthorized broadcast.
func (c *Client) Sessions() *session.Manager {
	return c.sessions
}

// OnUnauthorized registers fn to run when the session is terminated and
// returns a cancel function. Shorthand for Sessions().Subscribe.
func (c *Client) OnUnauthorized(fn func()) (cancel func()) {
	return c.sessions.Subscribe(fn)
}

// Role returns the stored role of the live session, empty when logged out.
func (c *Client) Role() string {
	return c.sessions.Get().Role
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return c.metrics.Snapshot()
}

func (c *Client) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}

// do issues one JSON round-trip through the intercepted transport. in may
// be nil for bodiless requests; out may be nil to discard the response.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c == nil || c.http == nil {
		return ErrClientNotReady
	}

	var req *http.Request
	var err error
	endpoint := c.base.JoinPath(path).String()

	if in != nil {
		payload, marshalErr := json.Marshal(in)
		if marshalErr != nil {
			return fmt.Errorf("chatclient: encode request body: %w", marshalErr)
		}
		req, err = http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, method, endpoint, nil)
	}
	if err != nil {
		return fmt.Errorf("chatclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return newNetworkError(err)
	}
	defer drainBody(resp)

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("chatclient: decode response body: %w", err)
	}
	return nil
}
