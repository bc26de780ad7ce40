package chatclient

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/docsage/chatclient/session"
)

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role"`
	User         *User  `json:"user"`
}

type registerResponse struct {
	Status string `json:"status"`
	User   *User  `json:"user"`
}

type meResponse struct {
	User *User `json:"user"`
}

// Register describes the register operation and its observable behavior.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Register does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var resp registerResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Login authenticates with an email or username plus password, then
// establishes all three session fields (access token, refresh token, role)
// in one write before returning, so every dependent request observes the
// complete new session.
//
// The role comes from the response top level, falling back to the embedded
// user object and finally to the unverified role claim of the access token.
func (c *Client) Login(ctx context.Context, identifier, password string) (*User, error) {
	payload := map[string]string{"password": password}
	if strings.Contains(identifier, "@") {
		payload["email"] = identifier
	} else {
		payload["username"] = identifier
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", payload, &resp); err != nil {
		c.metricInc(MetricLoginFailure)
		return nil, err
	}

	role := resp.Role
	if role == "" && resp.User != nil {
		role = resp.User.Role
	}
	if role == "" {
		role = roleFromAccessToken(resp.AccessToken)
	}

	if err := c.sessions.Set(ctx, session.Partial{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Role:         role,
	}); err != nil {
		c.metricInc(MetricLoginFailure)
		return nil, err
	}

	c.metricInc(MetricLoginSuccess)
	if resp.User != nil {
		return resp.User, nil
	}
	return &User{Role: role}, nil
}

// Logout tells the remote API the session ended, then destroys the stored
// session. The remote call is best-effort: local credentials are cleared
// even when the API is unreachable, and no unauthorized signal broadcasts
// for a user-initiated logout.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", struct{}{}, nil); err != nil {
		log.Print("chatclient: remote logout failed, clearing local session anyway")
	}
	return c.sessions.Clear(ctx)
}

// Me fetches the authenticated account from the remote API.
//
// Me may return an error when input validation, dependency calls, or security checks fail.
// Me does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp meResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}
