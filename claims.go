package chatclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// accessClaims is the subset of access-token claims the client reads. The
// parse is unverified on purpose: the remote API is the only verifier, and
// the client uses claims solely as a display/bookkeeping fallback.
type accessClaims struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func peekAccessClaims(tokenStr string) (*accessClaims, error) {
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func roleFromAccessToken(tokenStr string) string {
	claims, err := peekAccessClaims(tokenStr)
	if err != nil {
		return ""
	}
	return claims.Role
}

// TokenExpiresAt reports the exp claim of the stored access token, or the
// zero time when no token is stored or the claim is unreadable. The value
// is informational only; the client never pre-empts a renewal on it.
func (c *Client) TokenExpiresAt() time.Time {
	token := c.sessions.Get().AccessToken
	if token == "" {
		return time.Time{}
	}
	claims, err := peekAccessClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
