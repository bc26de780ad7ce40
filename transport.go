package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/docsage/chatclient/session"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"

	renewalFlightKey = "renew-access"
)

// authTransport stamps outbound requests with the current access credential
// and coordinates access-token renewal on 401.
//
// Renewal eligibility requires all of: the response status is exactly 401,
// the request has not consumed its one renewal attempt, the request is not
// itself the renewal endpoint, and a refresh token is stored. An eligible
// failure runs one shared renewal (concurrent 401s join the same flight) and
// replays the original request once with the fresh credential. Any
// ineligible 401 or failed renewal terminates the session: the store is
// cleared and the unauthorized signal broadcasts exactly once per failure
// chain.
type authTransport struct {
	base     http.RoundTripper
	sessions *session.Manager
	metrics  *Metrics

	refreshURL  string
	refreshPath string
	timeout     time.Duration
	userAgent   string

	group singleflight.Group
}

// RoundTrip implements http.RoundTripper. It never inspects errors other
// than the 401 class; network failures and non-401 statuses flow to the
// caller untouched.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header.Get(headerRequestID) == "" {
		out.Header.Set(headerRequestID, uuid.NewString())
	}
	if t.userAgent != "" && out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", t.userAgent)
	}
	if access := t.sessions.Get().AccessToken; access != "" {
		out.Header.Set(headerAuthorization, "Bearer "+access)
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	return t.handleUnauthorized(req, resp)
}

func (t *authTransport) handleUnauthorized(orig *http.Request, resp *http.Response) (*http.Response, error) {
	ctx := orig.Context()

	eligible := !retriedFromContext(ctx) &&
		orig.URL.Path != t.refreshPath &&
		t.sessions.Get().RefreshToken != ""
	if !eligible {
		t.terminate(ctx)
		return resp, nil
	}

	_, err, shared := t.group.Do(renewalFlightKey, func() (interface{}, error) {
		return t.renewOnce(ctx)
	})
	if shared {
		t.metrics.Inc(MetricRefreshShared)
	}
	if err != nil {
		// Renewal is terminal; the original 401 surfaces unchanged.
		return resp, nil
	}

	drainBody(resp)

	replay, err := cloneForReplay(orig)
	if err != nil {
		return nil, err
	}
	t.metrics.Inc(MetricReplayIssued)
	return t.RoundTrip(replay)
}

// renewOnce performs one renewal against the remote API through the bare
// transport, so a 401 from the renewal endpoint cannot re-enter the
// interception path. It owns session termination for its failure chain.
func (t *authTransport) renewOnce(ctx context.Context) (string, error) {
	refresh := t.sessions.Get().RefreshToken
	if refresh == "" {
		t.metrics.Inc(MetricRefreshFailure)
		t.terminate(ctx)
		return "", ErrRefreshTokenMissing
	}

	access, err := t.requestRenewal(ctx, refresh)
	if err != nil {
		t.metrics.Inc(MetricRefreshFailure)
		t.terminate(ctx)
		return "", err
	}

	if err := t.sessions.Set(ctx, session.Partial{AccessToken: access}); err != nil {
		t.metrics.Inc(MetricRefreshFailure)
		// A session terminated elsewhere has already broadcast; refusing
		// the write is enough.
		if !errors.Is(err, session.ErrTerminated) {
			t.terminate(ctx)
		}
		return "", err
	}

	t.metrics.Inc(MetricRefreshSuccess)
	return access, nil
}

func (t *authTransport) requestRenewal(ctx context.Context, refresh string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refresh_token": refresh})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	bare := &http.Client{Transport: t.base, Timeout: t.timeout}
	resp, err := bare.Do(req)
	if err != nil {
		return "", errors.Join(ErrRefreshFailed, err)
	}
	defer func() {
		drainBody(resp)
	}()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Join(ErrRefreshFailed, decodeAPIError(resp))
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Join(ErrRefreshFailed, err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access_token in renewal response", ErrRefreshFailed)
	}
	return body.AccessToken, nil
}

func (t *authTransport) terminate(ctx context.Context) {
	t.metrics.Inc(MetricUnauthorizedBroadcast)
	t.sessions.Terminate(ctx)
}

// cloneForReplay rebuilds the original request with a fresh body and the
// consumed-renewal marker. Requests built by the Client always carry
// GetBody, so the one-replay path never loses a payload.
func cloneForReplay(orig *http.Request) (*http.Request, error) {
	replay := orig.Clone(withRetried(orig.Context()))
	if orig.GetBody == nil {
		return replay, nil
	}

	body, err := orig.GetBody()
	if err != nil {
		return nil, err
	}
	replay.Body = body
	return replay, nil
}

func drainBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
}
